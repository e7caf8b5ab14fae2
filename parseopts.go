package deriv

import (
	"strconv"
	"unicode"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	varopt  rune
	stopopt string
)

// parsectx holds general data for parsing.
type parsectx struct {
	// vr is the variable of differentiation.
	vr rune
	// stop is a string containing the runes that end an expression in
	// addition to the end of the input.
	stop string
}

func newParsectx(opts []ParseOption) parsectx {
	p := parsectx{vr: DefaultVariable, stop: defaultStop}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}

// Variable sets the variable of differentiation. The variable must be a
// letter. The default is x.
func Variable(r rune) ParseOption {
	if !unicode.IsLetter(r) {
		panic("deriv: variable must be a letter, not " + strconv.QuoteRune(r))
	}
	return varopt(r)
}

func (o varopt) parseOption(p parsectx) parsectx {
	p.vr = rune(o)
	return p
}

// StopOn tells the parser to treat a list of characters as ending the
// expression, in addition to NUL, carriage return, and the end of the input.
// Each rune must be a comma, semicolon, or whitespace codepoint. Input after
// the stop rune is left unread, so a single source can hold many expressions.
//
// StopOn overrides the effect of any previous StopOn in the parsing options.
// With no arguments, StopOn produces the default termination behavior.
func StopOn(chars ...rune) ParseOption {
	v := []rune(defaultStop)
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		switch {
		case r == ',', r == ';', unicode.IsSpace(r):
			if !have(r) {
				v = append(v, r)
			}
		default:
			panic("deriv: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	return stopopt(v)
}

func (o stopopt) parseOption(p parsectx) parsectx {
	p.stop = string(o)
	return p
}
