// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/powchain/app/services/node/handlers/v1/chaingrp"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	cgh := chaingrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/genesis", cgh.Genesis)
	app.Handle(http.MethodGet, version, "/blocks/list", cgh.List)
	app.Handle(http.MethodGet, version, "/blocks/:index", cgh.QueryByIndex)
	app.Handle(http.MethodPost, version, "/blocks", cgh.Append)
	app.Handle(http.MethodGet, version, "/chain/validate", cgh.Validate)
	app.Handle(http.MethodGet, version, "/chain/stats", cgh.Stats)
	app.Handle(http.MethodGet, version, "/chain/export", cgh.Export)
	app.Handle(http.MethodGet, version, "/events", cgh.Events)
}
