package deriv

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenNum is a decimal number. It never has a sign.
	tokenNum
	// tokenVar is the variable of differentiation.
	tokenVar
	// tokenDelim is one of the runes in Delimiters.
	tokenDelim
	// tokenEOE indicates the end of the expression, either the end of the
	// input or a stop rune.
	tokenEOE
	// tokenUnknown is any other single rune.
	tokenUnknown
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

// Delimiters contains the runes which separate terms and introduce powers.
const Delimiters = "^+-"

// defaultStop contains the runes that end an expression without an explicit
// StopOn option.
const defaultStop = "\x00\r"

// DefaultVariable is the variable of differentiation used when no Variable
// option is given.
const DefaultVariable = 'x'

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	vr   rune
	stop string
	rune int
	eoe  bool
	// err is the first non-EOF error from src. The lexer reports it as the
	// end of the expression, so callers must check it.
	err error
}

func lex(src io.RuneScanner, vr rune, stop string) *lexer {
	return &lexer{
		src:  src,
		vr:   vr,
		stop: stop,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. It never fails: runes that are
// not part of the grammar become tokenUnknown, and read errors end the
// expression with l.err set. Once the lexer has produced an end of expression
// token, it produces only those without reading further.
func (l *lexer) next() lexToken {
	if l.eoe {
		return lexToken{kind: tokenEOE, pos: l.rune}
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.err = err
			}
			tok.kind = tokenEOE
			l.eoe = true
			return tok
		}
		switch {
		case strings.ContainsRune(l.stop, r):
			// Check stops before spaces because \r is both.
			tok.text = string(r)
			tok.kind = tokenEOE
			l.eoe = true
			return tok
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			l.scanNum()
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok
		case r == l.vr:
			tok.text = string(r)
			tok.kind = tokenVar
			return tok
		case strings.ContainsRune(Delimiters, r):
			tok.text = string(r)
			tok.kind = tokenDelim
			return tok
		default:
			tok.text = string(r)
			tok.kind = tokenUnknown
			return tok
		}
	}
}

// skip discards the rest of the expression, including its stop rune.
func (l *lexer) skip() {
	for l.next().kind != tokenEOE {
		// do nothing
	}
}

// scanNum scans digits and decimal points into the buffer. Multiple decimal
// points are accepted here; numText decides what they mean.
func (l *lexer) scanNum() {
	for {
		r, err := l.readRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.err = err
			}
			return
		}
		if r != '.' && (r < '0' || '9' < r) {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

// numText returns the longest prefix of a number token that is a valid
// decimal number, so "1.2.3" becomes "1.2" and "5." becomes "5".
func numText(text string) string {
	if k := strings.IndexByte(text, '.'); k >= 0 {
		if j := strings.IndexByte(text[k+1:], '.'); j >= 0 {
			text = text[:k+1+j]
		}
	}
	return strings.TrimSuffix(text, ".")
}

// numValue returns the value of a number token. Numbers too large for a
// float64 become +Inf.
func numValue(text string) float64 {
	// The only possible error is ErrRange, and then f is already ±Inf.
	f, _ := strconv.ParseFloat(numText(text), 64)
	return f
}
