package deriv

import (
	"strconv"
	"strings"
)

// term is a single term c*x^n of a polynomial, accumulated while it is parsed.
type term struct {
	coef  float64
	power float64
	// neg is whether the term follows a - operator.
	neg bool
}

// derive applies the power rule to t. The second result is false when the
// derivative is zero because t is constant.
func (t term) derive() (term, bool) {
	if t.power == 0 {
		return term{}, false
	}
	return term{coef: t.coef * t.power, power: t.power - 1, neg: t.neg}, true
}

// fmt writes t to b using vr as the variable, preceded by its operator unless
// it is the first term written. A first term that follows a - is written with
// a bare leading minus.
func (t term) fmt(b *strings.Builder, vr rune, first bool) {
	switch {
	case first && t.neg:
		b.WriteByte('-')
	case first: // do nothing
	case t.neg:
		b.WriteString(" - ")
	default:
		b.WriteString(" + ")
	}
	if t.power == 0 {
		b.WriteString(fmtnum(t.coef))
		return
	}
	if t.coef != 1 {
		b.WriteString(fmtnum(t.coef))
	}
	b.WriteRune(vr)
	if t.power != 1 {
		b.WriteByte('^')
		b.WriteString(fmtnum(t.power))
	}
}

func (t term) String() string {
	var b strings.Builder
	t.fmt(&b, DefaultVariable, true)
	return b.String()
}

// fmtnum formats a coefficient or power. It never uses exponent notation,
// because an exponent's sign would read back as an operator.
func fmtnum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
