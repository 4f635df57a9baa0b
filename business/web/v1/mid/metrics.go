package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/metrics"
	"github.com/ardanlabs/powchain/foundation/web"
)

// Metrics updates program counters with the method and final status code of
// every request.
func Metrics(m *metrics.Metrics) web.Middleware {

	// This is the actual middleware function to be executed.
	mw := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Call the next handler.
			err := handler(ctx, w, r)

			status := http.StatusInternalServerError
			if v, verr := web.GetValues(ctx); verr == nil && v.StatusCode != 0 {
				status = v.StatusCode
			}
			m.Request(r.Method, status)

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return mw
}
