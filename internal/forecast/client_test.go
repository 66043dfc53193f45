package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestPatternMappingRoundTrip(t *testing.T) {
	for _, p := range []domain.Pattern{
		domain.PatternUnknown,
		domain.PatternFluctuating,
		domain.PatternDecreasing,
		domain.PatternSmallSpike,
		domain.PatternBigSpike,
	} {
		if got := PatternFromBackend(PatternToBackend(p)); got != p {
			t.Fatalf("round trip for %v produced %v", p, got)
		}
	}
}

func TestTickerFromDomain(t *testing.T) {
	weekOf := time.Date(2020, time.May, 10, 0, 0, 0, 0, time.UTC)
	ticker := domain.NewTicker(uuid.New(), weekOf)

	purchase := 104
	ticker.PurchasePrice = &purchase
	ticker.Phases[0] = 88
	ticker.Phases[7] = 143

	backendTicker := TickerFromDomain(ticker, domain.PatternDecreasing, 7)

	if backendTicker.PurchasePrice != 104 {
		t.Fatalf("want purchase 104, got %d", backendTicker.PurchasePrice)
	}
	if backendTicker.Phases[0] != 88 || backendTicker.Phases[7] != 143 {
		t.Fatalf("phases not carried over: %v", backendTicker.Phases)
	}
	for _, i := range []int{1, 2, 3, 4, 5, 6, 8, 9, 10, 11} {
		if backendTicker.Phases[i] != UnknownPrice {
			t.Fatalf("phase %d should be the unknown sentinel, got %d", i, backendTicker.Phases[i])
		}
	}
	if backendTicker.PreviousPattern != PatternDecreasing {
		t.Fatalf("want backend decreasing, got %v", backendTicker.PreviousPattern)
	}
	if backendTicker.CurrentPeriod != 7 {
		t.Fatalf("want current period 7, got %d", backendTicker.CurrentPeriod)
	}
}

func TestForecastPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req forecastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Forecast{
			Heat: 72,
			Patterns: []PotentialPattern{
				{Pattern: PatternBigSpike, Chance: 0.6},
				{Pattern: PatternDecreasing, Chance: 0.4},
			},
		})
	})

	fc, err := client.ForecastPrices(context.Background(), Ticker{})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if fc.Heat != 72 {
		t.Fatalf("want heat 72, got %d", fc.Heat)
	}
	likely := fc.MostLikely()
	if likely == nil || likely.Pattern != PatternBigSpike {
		t.Fatalf("want big spike most likely, got %v", likely)
	}
	if fc.Candidate(PatternSmallSpike) != nil {
		t.Fatal("small spike should be absent")
	}
}

func TestForecastImpossibleTickerClassification(t *testing.T) {
	t.Run("structured code", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(errorPayload{
				Code:    "impossible_pattern",
				Message: "whatever text",
			})
		})

		_, err := client.ForecastPrices(context.Background(), Ticker{})
		var impossible *ImpossibleTickerError
		if !errors.As(err, &impossible) {
			t.Fatalf("want ImpossibleTickerError, got %v", err)
		}
	})

	t.Run("legacy message sentinel", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(errorPayload{
				Message: "price data does not fit any pattern",
			})
		})

		_, err := client.ForecastPrices(context.Background(), Ticker{})
		var impossible *ImpossibleTickerError
		if !errors.As(err, &impossible) {
			t.Fatalf("want ImpossibleTickerError, got %v", err)
		}
	})

	t.Run("other failures stay opaque", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		})

		_, err := client.ForecastPrices(context.Background(), Ticker{})
		var backendErr *BackendError
		if !errors.As(err, &backendErr) {
			t.Fatalf("want BackendError, got %v", err)
		}
		if backendErr.Status != http.StatusInternalServerError {
			t.Fatalf("want status 500, got %d", backendErr.Status)
		}
	})
}

func TestForecastChartCaching(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("png-bytes"))
	})

	ticker := Ticker{CurrentPeriod: 3}
	fc := &Forecast{Heat: 10}
	opts := DefaultChartOptions()

	first, err := client.ForecastChart(context.Background(), ticker, fc, opts)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	second, err := client.ForecastChart(context.Background(), ticker, fc, opts)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}

	if string(first) != "png-bytes" || string(second) != "png-bytes" {
		t.Fatal("unexpected chart bytes")
	}
	if calls != 1 {
		t.Fatalf("want 1 backend call, got %d", calls)
	}

	// A different ticker state misses the cache.
	ticker.CurrentPeriod = 4
	if _, err := client.ForecastChart(context.Background(), ticker, fc, opts); err != nil {
		t.Fatalf("chart: %v", err)
	}
	if calls != 2 {
		t.Fatalf("want 2 backend calls, got %d", calls)
	}
}
