package motion

import (
	"go/types"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/obskit/zaberselect/generichttp"
)

// Status describes the gross motion state of an axis, mirroring the status
// enumeration used by the automation framework's polling loops.
type Status int

const (
	// StatusUnknown is reported when the controller cannot say
	StatusUnknown Status = iota

	// StatusIdle means the axis is powered and at rest
	StatusIdle

	// StatusMoving means the axis is in motion
	StatusMoving

	// StatusParked means the axis is stowed
	StatusParked

	// StatusError means the axis is faulted, or status reporting is not
	// implemented by the controller
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusMoving:
		return "MOVING"
	case StatusParked:
		return "PARKED"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Statuser is a type which can report the motion status of an axis
type Statuser interface {
	// GetStatus returns the current motion status of the axis
	GetStatus(string) (Status, error)
}

// Readyer is a type which can report whether an axis is ready for commands
type Readyer interface {
	// GetReady returns true if the axis will accept motion commands
	GetReady(string) (bool, error)
}

// HTTPStatus adds a status route to the route table
func HTTPStatus(iface Statuser, table generichttp.RouteTable) {
	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/axis/{axis}/status"}] = GetStatus(iface)
}

// GetStatus returns an HTTP handler func that reports the axis status as a string
func GetStatus(s Statuser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		axis := chi.URLParam(r, "axis")
		stat, err := s.GetStatus(axis)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hp := generichttp.HumanPayload{T: types.String, String: stat.String()}
		hp.EncodeAndRespond(w, r)
	}
}

// HTTPReady adds a ready route to the route table
func HTTPReady(iface Readyer, table generichttp.RouteTable) {
	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/axis/{axis}/ready"}] = GetReady(iface)
}

// GetReady returns an HTTP handler func that reports axis readiness
func GetReady(rdy Readyer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		axis := chi.URLParam(r, "axis")
		ready, err := rdy.GetReady(axis)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hp := generichttp.HumanPayload{T: types.Bool, Bool: ready}
		hp.EncodeAndRespond(w, r)
	}
}
