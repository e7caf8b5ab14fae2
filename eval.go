package deriv

import (
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/zephyrtronium/bigfloat"
)

// EvalOption is an option for evaluating derivatives.
type EvalOption interface {
	evalOption(evalctx) evalctx
}

type (
	precopt    uint
	evalvaropt rune
)

// evalctx holds settings for evaluation.
type evalctx struct {
	prec uint
	vr   rune
}

// Prec sets the precision of calculations in bits. The default is 64.
func Prec(prec uint) EvalOption {
	if prec == 0 {
		panic("deriv: precision must be positive")
	}
	return precopt(prec)
}

func (o precopt) evalOption(e evalctx) evalctx {
	e.prec = uint(o)
	return e
}

// EvalVariable sets the variable that Eval substitutes. It should match the
// Variable used to compute the derivative. The default is x.
func EvalVariable(r rune) EvalOption {
	if !unicode.IsLetter(r) {
		panic("deriv: variable must be a letter, not " + strconv.QuoteRune(r))
	}
	return evalvaropt(r)
}

func (o evalvaropt) evalOption(e evalctx) evalctx {
	e.vr = rune(o)
	return e
}

// evalState is the state of the evaluation state machine.
type evalState int

const (
	// evalTermStart expects a coefficient, the variable, or an operator.
	evalTermStart evalState = iota
	// evalVariableSeen has the variable and expects ^ or an operator.
	evalVariableSeen
	// evalExponentSeen has ^ and expects the power, possibly negative.
	evalExponentSeen
	// evalTermEnd has a complete term and expects an operator.
	evalTermEnd
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=evalState -trimprefix=eval

// evaluator accumulates the value of a derivative one term at a time.
type evaluator struct {
	scan  *lexer
	x     *big.Float
	prec  uint
	total *big.Float
	coef  *big.Float
	power *big.Float
	state evalState
	// pending is whether a term has begun since the last operator.
	pending bool
	// started is whether any term or operator has been seen.
	started bool
	// neg is whether the pending term is subtracted.
	neg bool
	// nexp is whether the power of the pending term is negated.
	nexp bool
}

// Eval evaluates a derivative, as produced by Derive, with the variable set
// to x, which must be non-nil. The derivative of a constant, the empty
// string, evaluates to zero. The result has the precision given by a Prec
// option, or 64 bits.
//
// Eval accepts a leading + or - and negative powers like "0.5x^-0.5", which
// appear in derivatives but are not valid input to Derive.
func Eval(src io.RuneScanner, x *big.Float, opts ...EvalOption) (r *big.Float, err error) {
	ctx := evalctx{prec: 64, vr: DefaultVariable}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		ctx = opt.evalOption(ctx)
	}
	e := evaluator{
		scan:  lex(src, ctx.vr, defaultStop),
		x:     new(big.Float).SetPrec(ctx.prec).Set(x),
		prec:  ctx.prec,
		total: new(big.Float).SetPrec(ctx.prec),
		coef:  new(big.Float).SetPrec(ctx.prec),
		power: new(big.Float).SetPrec(ctx.prec),
	}
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		nan, ok := rec.(big.ErrNaN)
		if !ok {
			panic(rec)
		}
		err = &DomainError{Func: nan.Error()}
	}()
	return e.run()
}

// EvalString is a shortcut to evaluate a string derivative at a float64.
func EvalString(src string, x float64, opts ...EvalOption) (float64, error) {
	if math.IsNaN(x) {
		return 0, &DomainError{Func: "evaluation at NaN"}
	}
	r, err := Eval(strings.NewReader(src), big.NewFloat(x), opts...)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

func (e *evaluator) run() (*big.Float, error) {
	for {
		tok := e.scan.next()
		switch tok.kind {
		case tokenNum:
			switch e.state {
			case evalTermStart:
				if e.pending {
					return nil, syntaxError(tok, InvalidExpression)
				}
				e.num(e.coef, tok.text)
				e.power.SetInt64(0)
				e.pending = true
			case evalExponentSeen:
				e.num(e.power, tok.text)
				if e.nexp {
					e.power.Neg(e.power)
				}
				e.state = evalTermEnd
			default:
				return nil, syntaxError(tok, InvalidExpression)
			}
			e.started = true
		case tokenVar:
			switch e.state {
			case evalTermStart: // do nothing
			case evalVariableSeen:
				return nil, syntaxError(tok, ProductRule)
			case evalExponentSeen:
				return nil, syntaxError(tok, ChainRule)
			case evalTermEnd:
				return nil, syntaxError(tok, UnexpectedVariable)
			default:
				panic("deriv: invalid state " + e.state.String())
			}
			if !e.pending {
				e.coef.SetInt64(1)
			}
			e.power.SetInt64(1)
			e.pending = true
			e.started = true
			e.state = evalVariableSeen
		case tokenDelim:
			switch {
			case tok.text == "^":
				if e.state != evalVariableSeen {
					return nil, syntaxError(tok, UnexpectedPower)
				}
				e.state = evalExponentSeen
			case e.state == evalExponentSeen:
				if tok.text != "-" || e.nexp {
					return nil, syntaxError(tok, MissingExponent)
				}
				e.nexp = true
			case e.pending:
				if err := e.accumulate(); err != nil {
					return nil, err
				}
				e.next(tok.text == "-")
			case !e.started:
				// Leading sign.
				e.next(tok.text == "-")
			default:
				return nil, syntaxError(tok, UnexpectedOperator)
			}
		case tokenEOE:
			if e.scan.err != nil {
				return nil, e.scan.err
			}
			switch {
			case e.state == evalExponentSeen:
				return nil, syntaxError(tok, MissingExponent)
			case e.pending:
				if err := e.accumulate(); err != nil {
					return nil, err
				}
			case e.started:
				return nil, syntaxError(tok, TrailingOperator)
			}
			return e.total, nil
		case tokenUnknown:
			return nil, &CharacterError{Col: tok.pos, Char: tok.text}
		default:
			panic("deriv: unknown token: " + tok.String())
		}
	}
}

// next resets the evaluator for a new term following an operator.
func (e *evaluator) next(neg bool) {
	e.state = evalTermStart
	e.pending = false
	e.started = true
	e.neg = neg
	e.nexp = false
}

// num sets z to the value of a number token.
func (e *evaluator) num(z *big.Float, text string) {
	if _, ok := z.SetString(numText(text)); !ok {
		// The lexer only produces digits and dots, and numText removes
		// everything that could make them invalid.
		panic("deriv: invalid number: " + text)
	}
}

// accumulate adds or subtracts the value of the pending term to the total.
func (e *evaluator) accumulate() error {
	v := new(big.Float).SetPrec(e.prec)
	if err := pow(v, e.x, e.power); err != nil {
		return err
	}
	// Guard against 0 * inf.
	if v.IsInf() && e.coef.Sign() == 0 || v.Sign() == 0 && e.coef.IsInf() {
		return &DomainError{X: e.coef, Func: "*"}
	}
	v.Mul(v, e.coef)
	if e.neg {
		v.Neg(v)
	}
	// Guard against inf - inf.
	if v.IsInf() && e.total.IsInf() && v.Signbit() != e.total.Signbit() {
		return &DomainError{X: v, Func: "+"}
	}
	e.total.Add(e.total, v)
	return nil
}

// pow sets z to x^y. Integer powers are exact up to the precision of z and
// allow any base. Other powers require a non-negative base.
func pow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
	case y.IsInf():
		return &DomainError{X: y, Func: "^"}
	case y.IsInt():
		n, acc := y.Int64()
		if acc != big.Exact {
			powbig(z, x, y)
			break
		}
		powint(z, x, n)
	case x.Sign() < 0:
		return &DomainError{X: x, Func: "^"}
	case x.Sign() == 0:
		if y.Sign() > 0 {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
	case x.IsInf():
		if y.Sign() > 0 {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
	default:
		bigfloat.Pow(z, new(big.Float).Copy(x), y)
	}
	return nil
}

// expLimit bounds the natural log of a finite big.Float.
var expLimit = big.NewFloat(math.MaxInt32 * math.Ln2)

// powbig sets z to x^y for an integer y outside the range of int64. The sign
// comes from the parity of y.
func powbig(z, x, y *big.Float) {
	ax := new(big.Float).SetPrec(z.Prec()).Abs(x)
	switch {
	case ax.Sign() == 0:
		if y.Sign() > 0 {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
	case ax.IsInf():
		if y.Sign() > 0 {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
	case ax.Cmp(big.NewFloat(1)) == 0:
		z.SetInt64(1)
	default:
		// Unless |x| is very close to 1, y·ln|x| overflows the exponent.
		t := bigfloat.Log(new(big.Float).SetPrec(z.Prec()), ax)
		t.Mul(t, y)
		switch {
		case new(big.Float).Abs(t).Cmp(expLimit) <= 0:
			bigfloat.Pow(z, ax, y)
		case t.Sign() > 0:
			z.SetInf(false)
		default:
			z.SetInt64(0)
		}
	}
	if yi, _ := y.Int(nil); x.Sign() < 0 && yi.Bit(0) == 1 {
		z.Neg(z)
	}
}

// powint sets z to x^n by binary exponentiation.
func powint(z, x *big.Float, n int64) {
	u := uint64(n)
	if n < 0 {
		u = uint64(-n)
	}
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	r := new(big.Float).SetPrec(z.Prec()).SetInt64(1)
	for u > 0 {
		if u&1 == 1 {
			r.Mul(r, b)
		}
		u >>= 1
		if u > 0 {
			b.Mul(b, b)
		}
	}
	if n < 0 {
		r.Quo(new(big.Float).SetInt64(1), r)
	}
	z.Set(r)
}
