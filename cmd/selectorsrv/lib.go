package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/obskit/zaberselect/generichttp"
	"github.com/obskit/zaberselect/generichttp/locker"
	"github.com/obskit/zaberselect/generichttp/mode"
	"github.com/obskit/zaberselect/generichttp/motion"
	"github.com/obskit/zaberselect/selector"
	"github.com/obskit/zaberselect/util"
	"github.com/obskit/zaberselect/zaber"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Config holds the initialization parameters for the server and the
// mode selector it exposes.  It is to be populated by a yaml/unmarshal call.
type Config struct {
	// Addr is the address to listen at
	Addr string `yaml:"Addr" koanf:"Addr"`

	// Endpoint is the URL prefix the selector's routes are served under,
	// e.g. "omc/selector"; "/" serves them at the root
	Endpoint string `yaml:"Endpoint" koanf:"Endpoint"`

	// Port is the serial port the stage is connected to,
	// e.g. /dev/ttyUSB0 or COM3
	Port string `yaml:"Port" koanf:"Port"`

	// Mock substitutes an in-memory stage for the hardware
	Mock bool `yaml:"Mock" koanf:"Mock"`

	// Scale is the number of microsteps per length unit for the stage model
	Scale float64 `yaml:"Scale" koanf:"Scale"`

	// Basis is the position the home operation drives to
	Basis float64 `yaml:"Basis" koanf:"Basis"`

	// Speed is the default move speed
	Speed float64 `yaml:"Speed" koanf:"Speed"`

	// LengthUnit and SpeedUnit name the physical units positions and
	// speeds are expressed in, e.g. deg and deg/s
	LengthUnit string `yaml:"LengthUnit" koanf:"LengthUnit"`
	SpeedUnit  string `yaml:"SpeedUnit" koanf:"SpeedUnit"`

	// Profile selects the velocity profile for mode changes, one of
	// sine, gauss, triangle, or empty for an unshaped move
	Profile string `yaml:"Profile" koanf:"Profile"`

	// Steps is the number of constant-velocity segments per profiled
	// move, 0 for the default
	Steps int `yaml:"Steps" koanf:"Steps"`

	// Led turns the device status LED off at startup when false
	Led bool `yaml:"Led" koanf:"Led"`

	// Limits bounds absolute moves per axis
	Limits map[string]util.Limiter `yaml:"Limits" koanf:"Limits"`

	// Modes is the mode table; GetMode/SetMode report and accept these
	// names, and ListModes preserves this order
	Modes []selector.Mode `yaml:"Modes" koanf:"Modes"`
}

// BuildSelector converts a Config into a ModeSelector, picking the mock or
// hardware driver and resolving unit and profile names.
func BuildSelector(c Config) (*selector.ModeSelector, error) {
	lengthUnit, err := zaber.ParseUnits(c.LengthUnit)
	if err != nil {
		return nil, err
	}
	speedUnit, err := zaber.ParseUnits(c.SpeedUnit)
	if err != nil {
		return nil, err
	}
	profile, err := selector.ParseProfile(c.Profile)
	if err != nil {
		return nil, err
	}
	var open zaber.Opener
	if c.Mock {
		open = zaber.NewSim().Opener()
	} else {
		open = zaber.ASCIIOpener(c.Scale)
	}
	return &selector.ModeSelector{
		Motor: selector.Motor{
			Port:       c.Port,
			Basis:      c.Basis,
			Speed:      c.Speed,
			LengthUnit: lengthUnit,
			SpeedUnit:  speedUnit,
			Open:       open,
		},
		Modes:   c.Modes,
		Profile: profile,
		Steps:   c.Steps,
	}, nil
}

// BuildMux assembles the router: mode and motion routes for the selector
// under the configured endpoint, with limit, lock, and logging middleware.
func BuildMux(c Config, sel *selector.ModeSelector) chi.Router {
	httper := mode.NewHTTPModeController(sel)
	limiter := motion.LimitMiddleware{Limits: c.Limits, Mov: sel}
	limiter.Inject(httper)
	lock := locker.New()
	locker.Inject(httper, lock)

	// the default speed is device scope, not per axis
	rt := httper.RT()
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/speed"}] = generichttp.GetFloat(func() (float64, error) {
		return sel.Speed, nil
	})
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/speed"}] = generichttp.SetFloat(func(v float64) error {
		sel.Speed = v
		return nil
	})

	// prepare the URL, "omc/selector" => "/omc/selector/*"
	hndlS := generichttp.SubMuxSanitize(c.Endpoint)
	supergraph := map[string][]string{hndlS: rt.Endpoints()}

	root := chi.NewRouter()
	root.Use(middleware.Logger)
	r := chi.NewRouter()
	r.Use(limiter.Check)
	r.Use(lock.Check)
	rt.Bind(r)
	root.Mount(strings.TrimSuffix(hndlS, "*"), r)
	root.Get("/endpoints", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(supergraph); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return root
}
