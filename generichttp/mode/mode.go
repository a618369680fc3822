// Package mode provides the mode-capability contract of the automation
// framework: a device with a set of named operating modes (for example
// spectroscopy vs photometry on a selector stage) that can be listed,
// queried and selected.
package mode

import (
	"encoding/json"
	"net/http"

	"github.com/obskit/zaberselect/generichttp"
	"github.com/obskit/zaberselect/generichttp/motion"
)

// Selector is a device with named, selectable operating modes
type Selector interface {
	// ListModes lists the available modes in configuration order
	ListModes() []string

	// GetMode returns the currently selected mode, derived from the
	// device's physical state, or a sentinel when no mode matches
	GetMode() (string, error)

	// SetMode drives the device to the named mode
	SetMode(string) error
}

// HTTPMode adds mode routes for the selector to the route table
func HTTPMode(iface Selector, table generichttp.RouteTable) {
	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/modes"}] = ListModes(iface)
	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/mode"}] = GetMode(iface)
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/mode"}] = SetMode(iface)
}

// ListModes returns an HTTP handler func that lists the available modes as
// a JSON array
func ListModes(s Selector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.ListModes()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GetMode returns an HTTP handler func that reports the current mode
func GetMode(s Selector) http.HandlerFunc {
	return generichttp.GetString(s.GetMode)
}

// SetMode returns an HTTP handler func that selects the mode named in the
// request body
func SetMode(s Selector) http.HandlerFunc {
	return generichttp.SetString(s.SetMode)
}

// HTTPModeController wraps a device that is both a mode selector and a
// motion controller, merging the two capability surfaces into one route
// table.
type HTTPModeController struct {
	Selector

	RouteTable generichttp.RouteTable
}

// NewHTTPModeController returns a new HTTP wrapper for sel.  If sel is also
// a motion controller, the motion routes are included.
func NewHTTPModeController(sel Selector) HTTPModeController {
	w := HTTPModeController{Selector: sel}
	rt := generichttp.RouteTable{}
	if mover, ok := sel.(motion.Controller); ok {
		rt = motion.NewHTTPMotionController(mover).RouteTable
	}
	HTTPMode(sel, rt)
	w.RouteTable = rt
	return w
}

// RT satisfies the HTTPer interface
func (h HTTPModeController) RT() generichttp.RouteTable {
	return h.RouteTable
}
