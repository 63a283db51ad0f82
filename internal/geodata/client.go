package geodata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"questmap/internal/geom"
	"questmap/internal/logging"
	"questmap/internal/mapview"
	"questmap/internal/metrics"
)

// ClientConfig configures the map API client.
type ClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
	BreakerFailures uint32
	CellsMaxArea    float64
	TileSetTTL      time.Duration
	Metrics         *metrics.Metrics
}

// Client talks to the map API. All requests share one rate limiter and one
// circuit breaker.
type Client struct {
	baseURL      string
	http         *http.Client
	limiter      *rate.Limiter
	cb           *gobreaker.CircuitBreaker[[]byte]
	cellsMaxArea float64
	tileSets     *tileSetCache
	metrics      *metrics.Metrics
	validate     *validator.Validate
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "map-api",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	c := &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(limit, burst),
		cb:           cb,
		cellsMaxArea: cfg.CellsMaxArea,
		metrics:      cfg.Metrics,
		validate:     validator.New(),
	}
	c.tileSets = newTileSetCache(cfg.TileSetTTL, c.fetchTileSets)
	return c
}

func (c *Client) LoadBurgs(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return c.loadCategory(ctx, worldID, "burgs", mapview.CategoryBurg, b)
}

func (c *Client) LoadRoutes(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return c.loadCategory(ctx, worldID, "routes", mapview.CategoryRoute, b)
}

func (c *Client) LoadRivers(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return c.loadCategory(ctx, worldID, "rivers", mapview.CategoryRiver, b)
}

func (c *Client) LoadMarkers(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	return c.loadCategory(ctx, worldID, "markers", mapview.CategoryMarker, b)
}

// LoadCells rejects oversized bounds before making a request.
func (c *Client) LoadCells(ctx context.Context, worldID string, b geom.Bounds) ([]*mapview.Feature, error) {
	if err := CheckCellsArea(b, c.cellsMaxArea); err != nil {
		return nil, err
	}
	return c.loadCategory(ctx, worldID, "cells", mapview.CategoryCell, b)
}

func (c *Client) loadCategory(ctx context.Context, worldID, endpoint string, cat mapview.Category, b geom.Bounds) ([]*mapview.Feature, error) {
	q := url.Values{}
	q.Set("west", formatCoord(b.West))
	q.Set("south", formatCoord(b.South))
	q.Set("east", formatCoord(b.East))
	q.Set("north", formatCoord(b.North))

	body, err := c.get(ctx, endpoint, "/api/maps/"+url.PathEscape(worldID)+"/"+endpoint, q)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", endpoint, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return Normalize(cat, fc, nil), nil
}

// ListWorlds returns the worlds the API serves. Invalid records are skipped.
func (c *Client) ListWorlds(ctx context.Context) ([]World, error) {
	body, err := c.get(ctx, "worlds", "/api/maps/worlds", nil)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	var worlds []World
	if err := json.Unmarshal(body, &worlds); err != nil {
		return nil, fmt.Errorf("decode worlds: %w", err)
	}
	out := worlds[:0]
	for _, w := range worlds {
		if err := c.validate.Struct(w); err != nil {
			logging.Warn().Err(err).Str("world", w.ID).Msg("skipping invalid world record")
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// ListTileSets returns the configured tile sets, cached for the TTL.
func (c *Client) ListTileSets(ctx context.Context) ([]TileSet, error) {
	return c.tileSets.get(ctx)
}

func (c *Client) fetchTileSets(ctx context.Context) ([]TileSet, error) {
	body, err := c.get(ctx, "tilesets", "/api/tilesets", nil)
	if err != nil {
		return nil, fmt.Errorf("list tile sets: %w", err)
	}
	var sets []TileSet
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("decode tile sets: %w", err)
	}
	out := sets[:0]
	for _, ts := range sets {
		if err := c.validate.Struct(ts); err != nil {
			logging.Warn().Err(err).Str("tile_set", ts.ID).Msg("skipping invalid tile set record")
			continue
		}
		out = append(out, ts)
	}
	return out, nil
}

// SaveRegion posts a drawn region to its campaign.
func (c *Client) SaveRegion(ctx context.Context, r Region) error {
	if err := c.validate.Struct(r); err != nil {
		return fmt.Errorf("invalid region: %w", err)
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode region: %w", err)
	}
	_, err = c.do(ctx, "regions", http.MethodPost, "/api/campaigns/"+url.PathEscape(r.CampaignID)+"/regions", nil, payload)
	if err != nil {
		return fmt.Errorf("save region: %w", err)
	}
	return nil
}

// ListRegions returns the campaign's regions on worldID.
func (c *Client) ListRegions(ctx context.Context, campaignID, worldID string) ([]*mapview.Feature, error) {
	q := url.Values{}
	q.Set("world", worldID)
	body, err := c.get(ctx, "regions", "/api/campaigns/"+url.PathEscape(campaignID)+"/regions", q)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	var regions []Region
	if err := json.Unmarshal(body, &regions); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	out := make([]*mapview.Feature, 0, len(regions))
	for _, r := range regions {
		f, err := r.Feature()
		if err != nil {
			logging.Warn().Err(err).Str("region", r.ID).Msg("skipping region with bad geometry")
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	return c.do(ctx, endpoint, http.MethodGet, path, q, nil)
}

// do sends one request through the limiter and breaker and returns the body
// of a 2xx response.
func (c *Client) do(ctx context.Context, endpoint, method, path string, q url.Values, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return c.cb.Execute(func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			c.metrics.ObserveAPIRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		c.metrics.ObserveAPIRequest(endpoint, resp.StatusCode, time.Since(start))

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return data, nil
	})
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RefreshTileSets drops the cached listing and fetches it again.
func (c *Client) RefreshTileSets(ctx context.Context) ([]TileSet, error) {
	c.tileSets.invalidate()
	return c.tileSets.get(ctx)
}
