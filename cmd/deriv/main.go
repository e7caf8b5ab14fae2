package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zephyrtronium/deriv"
)

// demo is differentiated when there is no other input.
const demo = "5x^3 + 2x^2 + 6x + 4"

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdin, os.Stdout, log.Default()); err != nil {
		log.Fatal(err)
	}
}

// run is the whole program. Expressions that fail are reported to lg and
// counted; the returned error summarizes them, or describes a problem with
// the arguments or input files.
func run(args []string, stdin io.Reader, stdout io.Writer, lg *log.Logger) error {
	var (
		inname, verb, vr string
		at               []float64
		nl, echo         bool
		prec             int
	)
	addat := func(s string) error {
		x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bad value %q: %w", s, err)
		}
		if math.IsNaN(x) {
			return errors.New("cannot evaluate at NaN")
		}
		at = append(at, x)
		return nil
	}
	flags := flag.NewFlagSet("deriv", flag.ContinueOnError)
	flags.SetOutput(lg.Writer())
	flags.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flags.StringVar(&verb, "fmt", "%g", "result formatting string")
	flags.Func("at", "evaluate derivatives at this value (any number of times)", addat)
	flags.IntVar(&prec, "p", 64, "precision of evaluation in bits")
	flags.StringVar(&vr, "var", "x", "variable of differentiation")
	flags.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flags.BoolVar(&echo, "echo", false, "print each expression before its derivative")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if prec <= 0 {
		return fmt.Errorf("precision (%d) must be positive", prec)
	}
	v, sz := utf8.DecodeRuneInString(vr)
	if sz != len(vr) || !unicode.IsLetter(v) {
		return fmt.Errorf("variable must be a single letter, not %q", vr)
	}

	opts := []deriv.ParseOption{deriv.Variable(v)}
	if nl {
		opts = append(opts, deriv.StopOn('\n'))
	}
	s := &session{
		d:    deriv.New(opts...),
		out:  stdout,
		lg:   lg,
		verb: verb + " %s\n",
		at:   at,
		echo: echo,
		eval: []deriv.EvalOption{deriv.Prec(uint(prec)), deriv.EvalVariable(v)},
		prec: uint(prec),
	}

	std := flags.NArg() == 0 && inname == ""
	f, c, err := infile(inname, std, stdin)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
	}
	if f != nil {
		if err := s.stream(f); err != nil {
			return err
		}
	}
	for _, arg := range flags.Args() {
		s.expr(recorder{src: strings.NewReader(arg)})
	}
	if std && s.count == 0 {
		if len(s.at) == 0 {
			s.at = []float64{2}
		}
		s.expr(recorder{src: strings.NewReader(demo)})
	}
	if s.failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", s.failed, s.count)
	}
	return nil
}

// session differentiates expressions and prints the results.
type session struct {
	d    *deriv.Differentiator
	out  io.Writer
	lg   *log.Logger
	verb string
	at   []float64
	echo bool
	eval []deriv.EvalOption
	prec uint

	count  int
	failed int
}

// stream differentiates every expression in f. Empty expressions, like blank
// lines, are skipped silently.
func (s *session) stream(f io.RuneScanner) error {
	in := &recorder{src: f}
	for {
		// First check whether we're done with the input.
		if _, _, err := in.ReadRune(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		in.UnreadRune()
		in.text = in.text[:0]
		if err := s.d.Find(in); deriv.KindOf(err) == deriv.NullExpression {
			continue
		}
		s.report(in.String())
	}
}

// expr differentiates a single expression.
func (s *session) expr(in recorder) {
	s.d.Find(&in)
	s.report(in.String())
}

// report prints the most recent derivative and its values, or the error that
// prevented finding it.
func (s *session) report(text string) {
	s.count++
	r, err := s.d.Derivative()
	if err != nil {
		s.fail(err)
		return
	}
	if s.echo {
		fmt.Fprintf(s.out, "%s : ", text)
	}
	if len(s.at) == 0 {
		fmt.Fprintln(s.out, r)
		return
	}
	for i, x := range s.at {
		v, err := deriv.Eval(strings.NewReader(r), new(big.Float).SetPrec(s.prec).SetFloat64(x), s.eval...)
		if err != nil {
			if i == 0 && s.echo {
				fmt.Fprintln(s.out)
			}
			s.fail(err)
			return
		}
		if i > 0 && s.echo {
			fmt.Fprintf(s.out, "%s : ", text)
		}
		fmt.Fprintf(s.out, s.verb, v, r)
	}
}

func (s *session) fail(err error) {
	s.failed++
	s.lg.Printf("error (%v): %v", deriv.KindOf(err), err)
}

// recorder is an io.RuneScanner that remembers what it has read.
type recorder struct {
	src  io.RuneScanner
	text []rune
}

func (r *recorder) ReadRune() (rune, int, error) {
	c, sz, err := r.src.ReadRune()
	if sz > 0 {
		r.text = append(r.text, c)
	}
	return c, sz, err
}

func (r *recorder) UnreadRune() error {
	if err := r.src.UnreadRune(); err != nil {
		return err
	}
	if len(r.text) > 0 {
		r.text = r.text[:len(r.text)-1]
	}
	return nil
}

// String returns the recorded text without surrounding spaces or stop runes.
func (r *recorder) String() string {
	return strings.TrimFunc(string(r.text), func(c rune) bool {
		return c == 0 || unicode.IsSpace(c)
	})
}

// infile opens the input file, or uses stdin if the name is - or std is true.
// The closer is non-nil if the caller must close the file.
func infile(inname string, std bool, stdin io.Reader) (io.RuneScanner, io.Closer, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, nil, err
		}
		return bufio.NewReader(f), f, nil
	case inname == "-", std:
		return bufio.NewReader(stdin), nil, nil
	}
	return nil, nil, nil
}
