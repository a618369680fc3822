package mode_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"

	"github.com/obskit/zaberselect/generichttp/mode"
	"github.com/obskit/zaberselect/selector"
	"github.com/obskit/zaberselect/zaber"
)

func newServer(t *testing.T) (*zaber.Sim, *httptest.Server) {
	t.Helper()
	sim := zaber.NewSim()
	sel := &selector.ModeSelector{
		Motor: selector.Motor{
			Port:       "sim",
			Speed:      10,
			LengthUnit: zaber.Degrees,
			SpeedUnit:  zaber.DegreesPerSecond,
			Open:       sim.Opener(),
			Log:        log.New(io.Discard, "", 0),
		},
		Modes: []selector.Mode{
			{Name: "spectroscopy", Position: 0},
			{Name: "photometry", Position: 90},
		},
	}
	r := chi.NewRouter()
	mode.NewHTTPModeController(sel).RT().Bind(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return sim, srv
}

func TestListModes(t *testing.T) {
	_, srv := newServer(t)
	resp, err := http.Get(srv.URL + "/modes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "spectroscopy" || names[1] != "photometry" {
		t.Errorf("expected [spectroscopy photometry], got %v", names)
	}
}

func TestSetThenGetMode(t *testing.T) {
	sim, srv := newServer(t)
	body := bytes.NewBufferString(`{"str": "photometry"}`)
	resp, err := http.Post(srv.URL+"/mode", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if sim.Position() != 90 {
		t.Errorf("expected the stage at 90, got %g", sim.Position())
	}

	resp, err = http.Get(srv.URL + "/mode")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got struct {
		Str string `json:"str"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Str != "photometry" {
		t.Errorf("expected photometry, got %q", got.Str)
	}
}

func TestSetModeUnknownIs500(t *testing.T) {
	sim, srv := newServer(t)
	body := bytes.NewBufferString(`{"str": "imaging"}`)
	resp, err := http.Post(srv.URL+"/mode", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if len(sim.Moves()) != 0 {
		t.Errorf("expected no motion on a rejected mode, got %d moves", len(sim.Moves()))
	}
}

func TestMotionRoutesMerged(t *testing.T) {
	sim, srv := newServer(t)
	sim.SetPosition(45)
	resp, err := http.Get(srv.URL + "/axis/1/pos")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		F64 float64 `json:"f64"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.F64 != 45 {
		t.Errorf("expected 45, got %g", got.F64)
	}
}
