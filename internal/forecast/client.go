package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/metrics"
)

const (
	defaultTimeout = 15 * time.Second

	// chartCacheSize bounds the rendered-chart cache. Charts for the same
	// ticker state are identical, so re-requests within a price period are
	// common.
	chartCacheSize = 64
)

// ChartOptions control chart rendering on the backend.
type ChartOptions struct {
	// BGColor matches discord's dark theme so charts blend into the chat.
	BGColor string  `json:"bg_color"`
	Padding float64 `json:"padding"`
	Format  string  `json:"format"`
}

// DefaultChartOptions returns the rendering options used for discord embeds.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		BGColor: "#2C2F33",
		Padding: 0.03,
		Format:  "png",
	}
}

// Client talks to the remote forecasting/chart service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
	chartCache *lru.Cache[string, []byte]
}

// NewClient creates a forecast service client for the given base URL.
func NewClient(baseURL string, log *zap.Logger) (*Client, error) {
	cache, err := lru.New[string, []byte](chartCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		log:        log,
		chartCache: cache,
	}, nil
}

// ForecastPrices submits a ticker and returns the backend's prediction.
func (c *Client) ForecastPrices(ctx context.Context, ticker Ticker) (*Forecast, error) {
	var result Forecast
	if err := c.post(ctx, "/forecast", forecastRequest{Ticker: ticker}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ForecastChart renders a chart image for a ticker and its forecast,
// returning the raw image bytes. Results are cached per ticker state.
func (c *Client) ForecastChart(ctx context.Context, ticker Ticker, fc *Forecast, opts ChartOptions) ([]byte, error) {
	key := chartCacheKey(ticker, opts)
	if image, ok := c.chartCache.Get(key); ok {
		return image, nil
	}

	req := chartRequest{Ticker: ticker, Forecast: fc, ChartOptions: opts}
	image, err := c.postRaw(ctx, "/chart", req)
	if err != nil {
		return nil, err
	}

	c.chartCache.Add(key, image)
	return image, nil
}

type forecastRequest struct {
	Ticker Ticker `json:"ticker"`
}

type chartRequest struct {
	Ticker   Ticker    `json:"ticker"`
	Forecast *Forecast `json:"forecast"`
	ChartOptions
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	raw, err := c.postRaw(ctx, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return &BackendError{Code: "bad_response", Message: err.Error()}
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, path string, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ForecastRequestsTotal.WithLabelValues(path, "error").Inc()
		return nil, &BackendError{Code: "unavailable", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BackendError{Status: resp.StatusCode, Code: "bad_response", Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ForecastRequestsTotal.WithLabelValues(path, "rejected").Inc()
		var payload errorPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload.Message = string(raw)
		}
		c.log.Warn("forecast backend rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", payload.Code),
		)
		return nil, classifyError(resp.StatusCode, payload.Code, payload.Message)
	}

	metrics.ForecastRequestsTotal.WithLabelValues(path, "ok").Inc()
	return raw, nil
}

// chartCacheKey fingerprints a ticker state plus rendering options. Two
// identical states always render the same image.
func chartCacheKey(ticker Ticker, opts ChartOptions) string {
	return fmt.Sprintf("%d|%v|%d|%d|%s|%g|%s",
		ticker.PurchasePrice,
		ticker.Phases,
		ticker.PreviousPattern,
		ticker.CurrentPeriod,
		opts.BGColor,
		opts.Padding,
		opts.Format,
	)
}
