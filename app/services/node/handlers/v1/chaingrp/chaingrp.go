// Package chaingrp maintains the group of handlers for chain access.
package chaingrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	v1 "github.com/ardanlabs/powchain/business/web/v1"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/mining"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of chain endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// List returns the blocks of the chain. The optional from and to query
// values select an inclusive range of indexes.
func (h Handlers) List(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.Blocks()

	from, err := queryInt(r, "from", 0)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	to, err := queryInt(r, "to", len(blocks)-1)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if from < 0 || from > to {
		return v1.NewRequestError(fmt.Errorf("invalid range from[%d] to[%d]", from, to), http.StatusBadRequest)
	}

	if len(blocks) == 0 || from >= len(blocks) {
		return web.Respond(ctx, w, []block{}, http.StatusOK)
	}
	to = min(to, len(blocks)-1)

	return web.Respond(ctx, w, toBlocks(blocks[from:to+1], from), http.StatusOK)
}

// QueryByIndex returns the block at the specified index.
func (h Handlers) QueryByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.Atoi(web.Param(r, "index"))
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid index: %w", err), http.StatusBadRequest)
	}

	blk, err := h.State.Block(index)
	if err != nil {
		if errors.Is(err, state.ErrBlockNotFound) {
			return v1.NewRequestError(err, http.StatusNotFound)
		}
		return fmt.Errorf("query: index[%d]: %w", index, err)
	}

	return web.Respond(ctx, w, toBlock(index, blk), http.StatusOK)
}

// Append mines a new block with the provided content and adds it to the chain.
func (h Handlers) Append(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nb NewBlock
	if err := web.Decode(r, &nb); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("append block", "traceid", v.TraceID, "content", nb.Content)

	blk, index, err := h.State.Append(ctx, nb.Content)
	if err != nil {
		switch {
		case database.IsValidationError(err):
			return v1.NewRequestError(err, http.StatusBadRequest)
		case errors.Is(err, mining.ErrMiningInterrupted),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			return v1.NewRequestError(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("append: %w", err)
	}

	return web.Respond(ctx, w, toBlock(index, blk), http.StatusCreated)
}

// Validate walks the chain and reports the first violation found.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	valid, violation := h.State.Validate()

	resp := validation{
		Valid:     valid,
		Blocks:    h.State.Size(),
		Violation: violation,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Stats returns a summary of the chain.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Stats(), http.StatusOK)
}

// Export returns the chain in its interchange form.
func (h Handlers) Export(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data, err := h.State.Export()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return web.RespondRaw(ctx, w, data, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade took over the connection.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(evt); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}
