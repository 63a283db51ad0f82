package geodata

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"questmap/internal/geom"
)

const burgsPayload = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[10,-20]},"properties":{"burg_id":4,"name":"Ashford","population":1200}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[30,-40]},"properties":{"name":"Brook"}}
]}`

func TestClientLoadBurgs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/maps/w1/burgs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(burgsPayload))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	fs, err := c.LoadBurgs(context.Background(), "w1", geom.Bounds{West: 0, South: -100, East: 50.5, North: 0})
	if err != nil {
		t.Fatalf("LoadBurgs: %v", err)
	}
	if len(fs) != 2 || fs[0].ID != "4" || fs[1].ID != "burg-1" {
		t.Fatalf("features = %+v", fs)
	}
	if fs[0].Name != "Ashford" || fs[0].Raw["population"] != 1200.0 {
		t.Errorf("attributes not carried: %+v", fs[0])
	}
	for _, want := range []string{"west=0", "south=-100", "east=50.5", "north=0"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %s", gotQuery, want)
		}
	}
}

func TestClientCellsRejectedWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := c.LoadCells(context.Background(), "w1", geom.Bounds{West: 0, South: -1e6, East: 1e6, North: 0})
	if !errors.Is(err, ErrAreaTooLarge) {
		t.Fatalf("err = %v, want ErrAreaTooLarge", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}

	if _, err := c.LoadCells(context.Background(), "w1", geom.Bounds{West: 0, South: -10, East: 10, North: 0}); err != nil {
		t.Errorf("small cells request failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := c.LoadRivers(context.Background(), "nope", geom.Bounds{West: 0, South: -1, East: 1, North: 0})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClientBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, BreakerFailures: 2})
	b := geom.Bounds{West: 0, South: -1, East: 1, North: 0}
	for i := 0; i < 4; i++ {
		_, _ = c.LoadMarkers(context.Background(), "w1", b)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2 before the breaker opened", hits.Load())
	}
}

func TestClientListWorldsSkipsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"w1","name":"One","width_pixels":100,"height_pixels":50,"meters_per_pixel":1},{"name":"no id"}]`))
	}))
	defer srv.Close()

	worlds, err := NewClient(ClientConfig{BaseURL: srv.URL}).ListWorlds(context.Background())
	if err != nil {
		t.Fatalf("ListWorlds: %v", err)
	}
	if len(worlds) != 1 || worlds[0].ID != "w1" {
		t.Errorf("worlds = %+v", worlds)
	}
}

func TestClientTileSetsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"id":"t1","base_url":"http://tiles/{z}/{x}/{y}.png","min_zoom":0,"max_zoom":5}]`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, TileSetTTL: time.Hour})
	for i := 0; i < 3; i++ {
		sets, err := c.ListTileSets(context.Background())
		if err != nil || len(sets) != 1 || *sets[0].MaxZoom != 5 {
			t.Fatalf("ListTileSets = %+v, %v", sets, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("listing fetched %d times, want 1", hits.Load())
	}
	if _, err := c.RefreshTileSets(context.Background()); err != nil || hits.Load() != 2 {
		t.Errorf("refresh did not refetch: hits=%d err=%v", hits.Load(), err)
	}
}

func TestClientSaveRegion(t *testing.T) {
	var got Region
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/campaigns/c1/regions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	r := Region{
		ID:         "r1",
		CampaignID: "c1",
		WorldID:    "w1",
		Geometry:   json.RawMessage(`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}`),
	}
	if err := c.SaveRegion(context.Background(), r); err != nil {
		t.Fatalf("SaveRegion: %v", err)
	}
	if got.ID != "r1" || got.WorldID != "w1" {
		t.Errorf("server received %+v", got)
	}

	if err := c.SaveRegion(context.Background(), Region{ID: "r2"}); err == nil {
		t.Errorf("region without campaign accepted")
	}
}
