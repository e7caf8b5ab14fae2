//go:build go1.18
// +build go1.18

package deriv_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/deriv"
)

func FuzzDerive(f *testing.F) {
	f.Add("5x^3 + 2x^2 + 6x + 4")
	f.Add("x^0.5")
	f.Add("2x x")
	f.Add("1.2.3x^4.5.6")
	f.Fuzz(func(t *testing.T, s string) {
		d, err := deriv.DeriveString(s)
		if err != nil || strings.Contains(d, "Inf") || strings.Contains(d, "NaN") {
			// Coefficients that overflow float64 don't read back.
			return
		}
		// Every other derivative must be valid input to Eval. Only arithmetic
		// on infinities may fail.
		if _, err := deriv.EvalString(d, 1.5); err != nil && deriv.KindOf(err) != deriv.Domain {
			t.Errorf("%q has derivative %q which fails to evaluate: %v", s, d, err)
		}
	})
}
