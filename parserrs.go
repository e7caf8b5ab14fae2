package deriv

import (
	"errors"
	"math/big"
	"strconv"
)

// EmptyExpressionError is an error indicating an expression with no terms:
// empty input, only whitespace, or a stop rune before anything else. It
// implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the end of the expression.
	Col int
	// End is the rune that ended the expression, or the empty string if it
	// was the end of the input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// CharacterError is an error indicating a rune that is not part of the
// polynomial grammar. It implements InputError.
type CharacterError struct {
	// Col is the position of the rune.
	Col int
	// Char is the rune that was not understood.
	Char string
}

func (err *CharacterError) Error() string {
	return errpos(err.Col, "unidentified character "+strconv.Quote(err.Char))
}

func (err *CharacterError) Pos() int {
	return err.Col
}

// SyntaxError is an error indicating a token that cannot appear where it
// does. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token.
	Col int
	// Token is the text of the offending token. It is the empty string if the
	// error is at the end of the input.
	Token string
	// Reason describes what was wrong.
	Reason SyntaxReason
}

func (err *SyntaxError) Error() string {
	if err.Token == "" {
		return errpos(err.Col, err.Reason.String()+" at end")
	}
	return errpos(err.Col, err.Reason.String()+" at "+strconv.Quote(err.Token))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// SyntaxReason distinguishes syntax errors.
type SyntaxReason int

const (
	// InvalidExpression is a number where none may appear, e.g. "5 5".
	InvalidExpression SyntaxReason = iota
	// ProductRule is a second variable in one term, e.g. "2x x".
	ProductRule
	// ChainRule is a variable in an exponent, e.g. "x^x".
	ChainRule
	// UnexpectedVariable is a variable after a complete term, e.g. "x^2 x".
	UnexpectedVariable
	// UnexpectedPower is a ^ that doesn't follow the variable.
	UnexpectedPower
	// UnexpectedOperator is a + or - where a term should start.
	UnexpectedOperator
	// TrailingOperator is a + or - at the end of the expression.
	TrailingOperator
	// MissingExponent is a ^ not followed by a number.
	MissingExponent
)

func (r SyntaxReason) String() string {
	switch r {
	case InvalidExpression:
		return "invalid expression"
	case ProductRule:
		return "unexpected variable (product rule not supported)"
	case ChainRule:
		return "expected a number but found variable (chain rule not supported)"
	case UnexpectedVariable:
		return "unexpected variable"
	case UnexpectedPower:
		return "unexpected power symbol (only variables can be raised to a power)"
	case UnexpectedOperator:
		return "unexpected operator"
	case TrailingOperator:
		return "trailing operator"
	case MissingExponent:
		return "expected a power after ^"
	default:
		return "SyntaxReason(" + strconv.Itoa(int(r)) + ")"
	}
}

// DomainError is an error returned when evaluating a derivative requires an
// operation with no real result, like a fractional power of a negative number
// or the sum of opposite infinities.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := "value outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

// ErrNotDerived is returned when asking a Differentiator for a derivative
// before giving it any expression.
var ErrNotDerived = errors.New("deriv: derivative hasn't been calculated")

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*CharacterError)(nil)
	_ InputError = (*SyntaxError)(nil)
)

// ErrorKind classifies errors from this package.
type ErrorKind int

const (
	// NullExpression is an *EmptyExpressionError.
	NullExpression ErrorKind = iota
	// UnidentifiedCharacter is a *CharacterError.
	UnidentifiedCharacter
	// Syntax is a *SyntaxError.
	Syntax
	// DerivativeNotFound is ErrNotDerived.
	DerivativeNotFound
	// Domain is a *DomainError.
	Domain
	// Other is any error this package didn't create, e.g. a read error from
	// the input.
	Other
)

func (k ErrorKind) String() string {
	switch k {
	case NullExpression:
		return "null expression"
	case UnidentifiedCharacter:
		return "unidentified character"
	case Syntax:
		return "syntax error"
	case DerivativeNotFound:
		return "derivative not found"
	case Domain:
		return "domain error"
	case Other:
		return "other"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindOf classifies err. Wrapped errors are classified by what they wrap. A
// nil error is Other.
func KindOf(err error) ErrorKind {
	var (
		ee *EmptyExpressionError
		ce *CharacterError
		se *SyntaxError
		de *DomainError
	)
	switch {
	case err == nil:
		return Other
	case errors.As(err, &ee):
		return NullExpression
	case errors.As(err, &ce):
		return UnidentifiedCharacter
	case errors.As(err, &se):
		return Syntax
	case errors.Is(err, ErrNotDerived):
		return DerivativeNotFound
	case errors.As(err, &de):
		return Domain
	default:
		return Other
	}
}
