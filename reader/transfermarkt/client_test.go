package transfermarkt

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appconfig "transferflow/config"
	"transferflow/models"
)

// minimalConfig returns a configuration pointing the client at baseURL with
// a fast retry policy suitable for tests.
func minimalConfig(baseURL string) *appconfig.Config {
	return &appconfig.Config{
		Transferflow: appconfig.TransferflowConfig{Name: "transferflow", Version: "test"},
		Source: appconfig.SourceConfig{
			Transfermarkt: appconfig.TransfermarktConfig{
				BaseURL: baseURL,
				Timeout: appconfig.Duration(2 * time.Second),
				ConnectionPool: appconfig.ConnectionPoolConfig{
					MaxIdleConns:    1,
					MaxConnsPerHost: 1,
					IdleConnTimeout: appconfig.Duration(time.Second),
				},
				RateLimit: appconfig.RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10},
				Retry: appconfig.RetryConfig{
					MaxAttempts:       2,
					BaseDelay:         appconfig.Duration(time.Millisecond),
					MaxDelay:          appconfig.Duration(5 * time.Millisecond),
					BackoffMultiplier: 2,
				},
			},
		},
	}
}

func TestFetchTransfers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transfers" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("league_id"); got != "GB1" {
			t.Errorf("unexpected league_id: %s", got)
		}
		if got := r.URL.Query().Get("season"); got != "2025" {
			t.Errorf("unexpected season: %s", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected accept header: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transfers": [
			{"player": {"id": 1, "name": "A"}, "fee": "€10M"},
			{"player": {"id": 2, "name": "B"}, "fee": "Loan"}
		]}`)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	transfers := client.FetchTransfers(context.Background(), "GB1", "2025")

	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}
	if transfers[0].Player == nil || transfers[0].Player.Name != "A" {
		t.Errorf("unexpected first transfer: %+v", transfers[0])
	}
	if transfers[1].Fee != "Loan" {
		t.Errorf("unexpected second fee: %q", transfers[1].Fee)
	}
}

func TestFetchTransfersAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("unexpected api key header: %q", got)
		}
		fmt.Fprint(w, `{"transfers": []}`)
	}))
	defer server.Close()

	cfg := minimalConfig(server.URL)
	cfg.Source.Transfermarkt.APIKey = "secret"

	client := NewClient(cfg)
	client.FetchTransfers(context.Background(), "GB1", "2025")
}

func TestFetchTransfersServerErrorDegradesToEmpty(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	if transfers := client.FetchTransfers(context.Background(), "GB1", "2025"); transfers != nil {
		t.Fatalf("expected empty result on server error, got %v", transfers)
	}
	if requests != 2 {
		t.Errorf("expected 2 attempts, got %d", requests)
	}
}

func TestFetchTransfersRetryRecovers(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"transfers": [{"fee": "€1M"}]}`)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	transfers := client.FetchTransfers(context.Background(), "GB1", "2025")
	if len(transfers) != 1 {
		t.Fatalf("expected retry to recover, got %v", transfers)
	}
}

func TestFetchPlayerDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"age": 23, "position": "Goalkeeper"}`)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	details := client.FetchPlayerDetails(context.Background(), "42")

	if details["position"] != "Goalkeeper" {
		t.Errorf("unexpected details: %v", details)
	}
}

func TestFetchPlayerDetailsFailureYieldsEmptyMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	details := client.FetchPlayerDetails(context.Background(), "42")
	if details == nil || len(details) != 0 {
		t.Fatalf("expected empty map, got %v", details)
	}
}

func TestEnrichTransfers(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"age": 27, "market_value": 35.5, "position": "Centre-Back", "nationality": "France"}`)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	transfers := []models.RawTransfer{
		{Player: &models.RawPlayer{ID: "7", Name: "Enrich Me"}},
		{Player: &models.RawPlayer{ID: "8", Name: "Complete", Age: float64(30), MarketValue: float64(1), Position: "Winger", Nationality: "Spain"}},
		{},
	}

	enriched := client.EnrichTransfers(context.Background(), transfers)

	if enriched[0].Player.Position != "Centre-Back" || enriched[0].Player.Nationality != "France" {
		t.Errorf("missing fields should be filled: %+v", enriched[0].Player)
	}
	if enriched[0].Player.Age != float64(27) {
		t.Errorf("age should be filled from details: %v", enriched[0].Player.Age)
	}
	if enriched[1].Player.Position != "Winger" {
		t.Errorf("complete records must stay untouched: %+v", enriched[1].Player)
	}
	if len(paths) != 1 || paths[0] != "/players/7" {
		t.Errorf("only the incomplete record should be looked up: %v", paths)
	}
}

func TestEnrichTransfersNumericID(t *testing.T) {
	// JSON decoding delivers numeric player ids as float64; the lookup must
	// still resolve to /players/{id}.
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"age": 21, "position": "Midfielder", "nationality": "Brazil", "market_value": 18.0}`)
	}))
	defer server.Close()

	client := NewClient(minimalConfig(server.URL))
	transfers := []models.RawTransfer{
		{Player: &models.RawPlayer{ID: float64(12345), Name: "Numeric"}},
		{Player: &models.RawPlayer{ID: true, Name: "Bad ID"}},
	}

	enriched := client.EnrichTransfers(context.Background(), transfers)

	if enriched[0].Player.Position != "Midfielder" {
		t.Errorf("numeric-id record should be enriched: %+v", enriched[0].Player)
	}
	if len(paths) != 1 || paths[0] != "/players/12345" {
		t.Fatalf("expected one lookup at /players/12345, got %v", paths)
	}
	if enriched[1].Player.Position != "" {
		t.Errorf("record without a usable id must stay untouched: %+v", enriched[1].Player)
	}
}
