package deriv_test

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/zephyrtronium/deriv"
)

func TestEval(t *testing.T) {
	type vc struct {
		x float64
		r float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"empty", "", []vc{{0, 0}, {5, 0}}},
		{"num", "6", []vc{{0, 6}, {100, 6}}},
		{"var", "x", []vc{{4, 4}, {-5, -5}}},
		{"coef", "3x", []vc{{4, 12}, {0, 0}}},
		{"square", "x^2", []vc{{3, 9}, {-3, 9}}},
		{"cube", "x^3", []vc{{-2, -8}, {0.5, 0.125}}},
		{"example", "15x^2 + 4x + 6", []vc{{2, 74}, {0, 6}, {-1, 17}}},
		{"sub", "3x^2 - 1", []vc{{2, 11}, {-2, 11}}},
		{"leading-minus", "-6x", []vc{{2, -12}}},
		{"leading-plus", "+6x", []vc{{2, 12}}},
		{"minus-chain", "4x^3 - 3x^2 - 2x - 1", []vc{{1, -2}, {2, 32 - 12 - 4 - 1}}},
		{"zero-power", "5x^0", []vc{{0, 5}, {7, 5}}},
		{"negative-power", "2x^-1", []vc{{4, 0.5}, {-2, -1}}},
		{"negative-fraction-power", "0.5x^-0.5", []vc{{4, 0.25}, {1, 0.5}}},
		{"fraction-power", "1.5x^0.5", []vc{{4, 3}, {0, 0}}},
		{"spaces", " 2 x ^ 2 ", []vc{{3, 18}}},
		{"no-spaces", "2x^2+1", []vc{{3, 19}}},
		{"zero-to-zero", "x^0", []vc{{0, 1}}},
		{"zero-to-negative", "x^-1", []vc{{0, math.Inf(1)}}},
		{"inf", "x^2 + 1", []vc{{math.Inf(-1), math.Inf(1)}}},
		{"huge-even-power", "x^100000000000000000000", []vc{{-1, 1}, {1, 1}, {0, 0}, {-2, math.Inf(1)}, {-0.5, 0}}},
		{"huge-odd-power", "x^9223372036854775809", []vc{{-1, -1}, {1, 1}, {-2, math.Inf(-1)}, {0.5, 0}}},
		{"huge-negative-power", "x^-9223372036854775809", []vc{{-1, -1}, {2, 0}, {0, math.Inf(1)}}},
		{"huge-power-derivative", "10000000000000000000000x^10000000000000000000000", []vc{{-1, 1e22}, {1, 1e22}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, v := range c.r {
				r, err := deriv.EvalString(c.src, v.x)
				if err != nil {
					t.Errorf("%q at %g: evaluation error: %v", c.src, v.x, err)
					continue
				}
				if math.Abs(r-v.r) > 1e-12 && r != v.r {
					t.Errorf("%q at %g: want %g, got %g", c.src, v.x, v.r, r)
				}
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		x    float64
		kind deriv.ErrorKind
	}{
		{"unknown", "2y", 1, deriv.UnidentifiedCharacter},
		{"product", "2x x", 1, deriv.Syntax},
		{"chain", "x^x", 1, deriv.Syntax},
		{"two-numbers", "2 2", 1, deriv.Syntax},
		{"number-after-var", "x2", 1, deriv.Syntax},
		{"number-after-power", "x^2 2", 1, deriv.Syntax},
		{"var-after-power", "x^2 x", 1, deriv.Syntax},
		{"power-on-number", "2^2", 1, deriv.Syntax},
		{"dangling-caret", "x^", 1, deriv.Syntax},
		{"double-negative-power", "x^--1", 1, deriv.Syntax},
		{"plus-power", "x^+1", 1, deriv.Syntax},
		{"trailing", "x +", 1, deriv.Syntax},
		{"only-operator", "-", 1, deriv.Syntax},
		{"double-operator", "x + - x", 1, deriv.Syntax},
		{"double-leading", "--x", 1, deriv.Syntax},
		{"negative-base", "x^0.5", -4, deriv.Domain},
		{"inf-minus-inf", "x^2 - x^2", math.Inf(1), deriv.Domain},
		{"zero-times-inf", "0x^-1", 0, deriv.Domain},
		{"nan", "x", math.NaN(), deriv.Domain},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := deriv.EvalString(c.src, c.x)
			if err == nil {
				t.Fatalf("%q at %g: no error, got %g", c.src, c.x, r)
			}
			if k := deriv.KindOf(err); k != c.kind {
				t.Errorf("%q at %g: want %v, got %v (%v)", c.src, c.x, c.kind, k, err)
			}
		})
	}
}

func TestEvalDomainError(t *testing.T) {
	_, err := deriv.EvalString("x^0.5", -4)
	var de *deriv.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("%#v is not *deriv.DomainError", err)
	}
	if de.Func != "^" {
		t.Errorf("want ^, got %q", de.Func)
	}
	if f, _ := de.X.Float64(); f != -4 {
		t.Errorf("want -4, got %g", f)
	}
}

// TestEvalMatchesClosedForm checks that evaluating the derivative text gives
// the same value as the derivative computed directly.
func TestEvalMatchesClosedForm(t *testing.T) {
	type term struct {
		c, n float64
	}
	pos := []float64{0.25, 0.5, 1, 2, 3, 10}
	all := []float64{-10, -2, -1, -0.5, 0.25, 0.5, 1, 2, 3, 10}
	polys := []struct {
		terms []term
		xs    []float64
	}{
		{[]term{{5, 3}, {2, 2}, {6, 1}, {4, 0}}, all},
		{[]term{{1, 2}}, all},
		{[]term{{0.5, 4}, {3, 1}}, all},
		{[]term{{1.5, 2.5}, {2, 0.5}}, pos},
		{[]term{{7, 6}, {1, 5}, {2, 3}}, all},
		{[]term{{2, 1.5}}, pos},
		{[]term{{1, 1e22 + 1}}, []float64{-1, -0.5, 0.5, 1}},
	}
	for _, p := range polys {
		var b strings.Builder
		for i, m := range p.terms {
			if i > 0 {
				b.WriteString(" + ")
			}
			b.WriteString(strconv.FormatFloat(m.c, 'f', -1, 64))
			b.WriteByte('x')
			b.WriteByte('^')
			b.WriteString(strconv.FormatFloat(m.n, 'f', -1, 64))
		}
		src := b.String()
		d := deriv.New()
		if err := d.FindString(src); err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		for _, x := range p.xs {
			want := 0.0
			for _, m := range p.terms {
				if m.n != 0 {
					want += m.c * m.n * math.Pow(x, m.n-1)
				}
			}
			text, got, err := d.DerivativeAt(x)
			if err != nil {
				t.Errorf("%q at %g: %v", src, x, err)
				continue
			}
			if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
				t.Errorf("%q -> %q at %g: want %g, got %g", src, text, x, want, got)
			}
		}
	}
}

func TestEvalPrec(t *testing.T) {
	x := new(big.Float).SetPrec(200).SetInt64(3)
	r, err := deriv.Eval(strings.NewReader("x^40 + 1"), x, deriv.Prec(200))
	if err != nil {
		t.Fatal(err)
	}
	if r.Prec() != 200 {
		t.Errorf("want precision 200, got %d", r.Prec())
	}
	want, _ := new(big.Int).SetString("12157665459056928802", 10) // 3^40 + 1
	if got, acc := r.Int(nil); acc != big.Exact || got.Cmp(want) != 0 {
		t.Errorf("want %v, got %v (%v)", want, got, acc)
	}

	r, err = deriv.Eval(strings.NewReader("x"), x)
	if err != nil {
		t.Fatal(err)
	}
	if r.Prec() != 64 {
		t.Errorf("want default precision 64, got %d", r.Prec())
	}
}

func TestEvalVariable(t *testing.T) {
	r, err := deriv.EvalString("6t + 2", 2, deriv.EvalVariable('t'))
	if err != nil {
		t.Fatal(err)
	}
	if r != 14 {
		t.Errorf("want 14, got %g", r)
	}
	if _, err := deriv.EvalString("6x", 2, deriv.EvalVariable('t')); deriv.KindOf(err) != deriv.UnidentifiedCharacter {
		t.Errorf("x should be unidentified with variable t, got %v", err)
	}
}
