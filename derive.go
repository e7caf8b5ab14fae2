package deriv

import (
	"io"
	"strings"
)

// Expr = Term { ('+' | '-') Term }
// Term = num | num 'x' | num 'x' '^' num | 'x' | 'x' '^' num

// termState is the state of the derivative state machine: what it expects
// to see next within the current term.
type termState int

const (
	// stateCoef expects a coefficient or the variable. Every term starts here.
	stateCoef termState = iota
	// stateCoefSeen has a coefficient and expects the variable or an
	// operator.
	stateCoefSeen
	// stateVar has the variable and expects ^ or an operator.
	stateVar
	// stateCaret has ^ and expects the power.
	stateCaret
	// statePower has a complete term and expects an operator.
	statePower
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=termState -trimprefix=state

// Differentiator computes derivatives of polynomials and holds the result of
// the most recent one. It is not safe to use a Differentiator concurrently.
type Differentiator struct {
	p   parsectx
	buf strings.Builder
	// tried is whether the Differentiator has been given any expression.
	tried bool
	ok    bool
	err   error
}

// New creates a Differentiator. The given options are applied in order.
func New(opts ...ParseOption) *Differentiator {
	return &Differentiator{p: newParsectx(opts)}
}

// Find computes the derivative of the expression read from src, replacing
// any previous result. Reading stops at the end of the expression, so src
// may hold further expressions if a StopOn option applies. If the expression
// is invalid, the rest of it is discarded, so the next call to Find begins
// with the next expression. The error, if any, is also reported by
// Derivative until the next call to Find.
func (d *Differentiator) Find(src io.RuneScanner) error {
	d.tried = true
	d.ok = false
	d.buf.Reset()
	scan := lex(src, d.p.vr, d.p.stop)
	d.err = d.find(scan)
	if d.err != nil {
		scan.skip()
	}
	d.ok = d.err == nil
	return d.err
}

// FindString is a shortcut to compute the derivative of a string expression.
func (d *Differentiator) FindString(src string) error {
	return d.Find(strings.NewReader(src))
}

// Derivative returns the most recently computed derivative. If Find has never
// been called, the error is ErrNotDerived. If the last call to Find failed,
// the error is the one it returned, and the text is always empty.
//
// The derivative of a constant is the empty string with a nil error.
func (d *Differentiator) Derivative() (string, error) {
	switch {
	case !d.tried:
		return "", ErrNotDerived
	case !d.ok:
		return "", d.err
	}
	return d.buf.String(), nil
}

// OK returns whether the most recent call to Find succeeded.
func (d *Differentiator) OK() bool {
	return d.ok
}

// DerivativeAt returns the most recently computed derivative along with its
// value at x. The variable from d's options is used for evaluation ahead of
// any in opts. If evaluation fails, the derivative text is still returned.
func (d *Differentiator) DerivativeAt(x float64, opts ...EvalOption) (string, float64, error) {
	s, err := d.Derivative()
	if err != nil {
		return "", 0, err
	}
	opts = append([]EvalOption{EvalVariable(d.p.vr)}, opts...)
	r, err := EvalString(s, x, opts...)
	if err != nil {
		return s, 0, err
	}
	return s, r, nil
}

// find runs the derivative state machine over the tokens from scan, writing
// the result to d.buf.
func (d *Differentiator) find(scan *lexer) error {
	var (
		state termState
		t     term
	)
	first := true
	tok := scan.next()
	if tok.kind == tokenEOE {
		if scan.err != nil {
			return scan.err
		}
		return &EmptyExpressionError{Col: tok.pos, End: tok.text}
	}
	for {
		switch tok.kind {
		case tokenNum:
			switch state {
			case stateCoef:
				t.coef = numValue(tok.text)
				state = stateCoefSeen
			case stateCaret:
				t.power = numValue(tok.text)
				state = statePower
			default:
				return syntaxError(tok, InvalidExpression)
			}
		case tokenVar:
			switch state {
			case stateCoef:
				t.coef = 1
			case stateCoefSeen: // do nothing
			case stateVar:
				return syntaxError(tok, ProductRule)
			case stateCaret:
				return syntaxError(tok, ChainRule)
			case statePower:
				return syntaxError(tok, UnexpectedVariable)
			default:
				panic("deriv: invalid state " + state.String())
			}
			t.power = 1
			state = stateVar
		case tokenDelim:
			if tok.text == "^" {
				if state != stateVar {
					return syntaxError(tok, UnexpectedPower)
				}
				state = stateCaret
				break
			}
			switch state {
			case stateCoef:
				return syntaxError(tok, UnexpectedOperator)
			case stateCaret:
				return syntaxError(tok, MissingExponent)
			}
			first = d.flush(t, first)
			t = term{neg: tok.text == "-"}
			state = stateCoef
		case tokenEOE:
			if scan.err != nil {
				return scan.err
			}
			switch state {
			case stateCoef:
				return syntaxError(tok, TrailingOperator)
			case stateCaret:
				return syntaxError(tok, MissingExponent)
			}
			d.flush(t, first)
			return nil
		case tokenUnknown:
			return &CharacterError{Col: tok.pos, Char: tok.text}
		default:
			panic("deriv: unknown token: " + tok.String())
		}
		tok = scan.next()
	}
}

// flush writes the derivative of a finished term unless it is zero. It
// returns whether the next term written will be the first.
func (d *Differentiator) flush(t term, first bool) bool {
	dt, ok := t.derive()
	if !ok {
		return first
	}
	dt.fmt(&d.buf, d.p.vr, first)
	return false
}

func syntaxError(tok lexToken, reason SyntaxReason) error {
	return &SyntaxError{Col: tok.pos, Token: tok.text, Reason: reason}
}

// Derive is a shortcut to compute the derivative of an expression.
func Derive(src io.RuneScanner, opts ...ParseOption) (string, error) {
	d := New(opts...)
	if err := d.Find(src); err != nil {
		return "", err
	}
	return d.Derivative()
}

// DeriveString is a shortcut to compute the derivative of a string
// expression.
func DeriveString(src string, opts ...ParseOption) (string, error) {
	return Derive(strings.NewReader(src), opts...)
}
