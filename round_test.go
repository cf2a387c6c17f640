package uncertain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPDG(t *testing.T) {
	cases := []struct {
		name string
		in   [3]float64
		want [3]float64
	}{
		{"two digits symmetric", [3]float64{0.827, 0.119, 0.119}, [3]float64{0.83, 0.12, 0.12}},
		{"one digit symmetric", [3]float64{0.827, 0.367, 0.367}, [3]float64{0.8, 0.4, 0.4}},
		{"smallest entry picks precision", [3]float64{0.827, 0.119, 0.367}, [3]float64{0.83, 0.12, 0.37}},
		{"round up to two digits", [3]float64{0.827, 0.96, 0.97}, [3]float64{0.8, 1, 1}},
		{"mean below uncertainty scale", [3]float64{0.00827, 0.96, 0.97}, [3]float64{0, 0.96, 0.97}},
		{"small mean still meaningful", [3]float64{0.0456, 0.123, 0.321}, [3]float64{0.05, 0.12, 0.32}},
		{"exact passes through", [3]float64{0, 0, 0}, [3]float64{0, 0, 0}},
		{"exact nonzero passes through", [3]float64{3.14159, 0, 0}, [3]float64{3.14159, 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RoundPDG(tc.in[0], tc.in[1], tc.in[2])
			for i := range got {
				assert.InDelta(t, tc.want[i], got[i], 1e-12)
			}
		})
	}
}
