package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	v1 "github.com/ardanlabs/powchain/business/web/v1"
	"github.com/ardanlabs/powchain/business/web/v1/mid"
	"github.com/ardanlabs/powchain/foundation/metrics"
	"github.com/ardanlabs/powchain/foundation/validate"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

type model struct {
	Content string `json:"content" validate:"required"`
}

func Test_Errors(t *testing.T) {
	log := zap.NewNop().Sugar()
	m := metrics.New("test")

	app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Metrics(m), mid.Errors(log), mid.Cors("*"), mid.Panics())

	handlers := map[string]web.Handler{
		"/fields": func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return validate.Check(model{})
		},
		"/request": func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return v1.NewRequestError(errors.New("block not found"), http.StatusNotFound)
		},
		"/internal": func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return errors.New("disk on fire")
		},
		"/panic": func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			panic("boom")
		},
	}
	for path, h := range handlers {
		app.Handle(http.MethodGet, "", path, h)
	}

	tt := []struct {
		path   string
		status int
		error  string
		field  string
	}{
		{path: "/fields", status: http.StatusBadRequest, error: "data validation error", field: "content"},
		{path: "/request", status: http.StatusNotFound, error: "block not found"},
		{path: "/internal", status: http.StatusInternalServerError, error: http.StatusText(http.StatusInternalServerError)},
		{path: "/panic", status: http.StatusInternalServerError, error: http.StatusText(http.StatusInternalServerError)},
	}

	for _, tst := range tt {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tst.path, nil))

		if w.Code != tst.status {
			t.Fatalf("%s: Should get status %d, got %d", tst.path, tst.status, w.Code)
		}

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("%s: Should set the CORS headers.", tst.path)
		}

		var er v1.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
			t.Fatalf("%s: Should be able to decode the error: %v", tst.path, err)
		}

		if er.Error != tst.error {
			t.Fatalf("%s: Should get error %q, got %q", tst.path, tst.error, er.Error)
		}

		if tst.field != "" {
			if _, exists := er.Fields[tst.field]; !exists {
				t.Fatalf("%s: Should get a field error for %q, got %v", tst.path, tst.field, er.Fields)
			}
		}
	}

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Should be able to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `test_api_requests_total{method="GET",status="500"} 2`) {
		t.Fatalf("Should record the failed requests.")
	}
}
