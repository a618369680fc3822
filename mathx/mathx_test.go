package mathx_test

import (
	"testing"

	"github.com/obskit/zaberselect/mathx"
)

func TestRound(t *testing.T) {
	cases := []struct {
		x, unit, want float64
	}{
		{44.6, 1, 45},
		{45.4, 1, 45},
		{-44.6, 1, -45},
		{-45.4, 1, -45},
		{89.97, 0.1, 90},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := mathx.Round(c.x, c.unit); got != c.want {
			t.Errorf("Round(%f, %f) = %f, want %f", c.x, c.unit, got, c.want)
		}
	}
}
