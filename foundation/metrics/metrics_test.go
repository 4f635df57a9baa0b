package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/metrics"
)

func Test_Metrics(t *testing.T) {
	m := metrics.New("powchain")

	m.BlockMined("sequential", 10*time.Millisecond)
	m.BlockMined("concurrent", 20*time.Millisecond)
	m.ChainValidated(true)
	m.ChainValidated(false)
	m.Request(http.MethodGet, http.StatusOK)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Should be able to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	exp := []string{
		`powchain_chain_blocks_mined_total{mode="sequential"} 1`,
		`powchain_chain_blocks_mined_total{mode="concurrent"} 1`,
		`powchain_chain_validations_total{result="invalid"} 1`,
		`powchain_api_requests_total{method="GET",status="200"} 1`,
	}
	for _, e := range exp {
		if !strings.Contains(string(body), e) {
			t.Errorf("Should find %q in the scraped metrics.", e)
		}
	}
}
