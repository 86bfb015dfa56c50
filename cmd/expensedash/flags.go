package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"golang.org/x/term"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
)

func newFlagSet(a *app, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: expensedash %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// optionalBool is a tri-state flag: unset, true or false
type optionalBool struct {
	value *bool
}

func (o *optionalBool) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.FormatBool(*o.value)
}

func (o *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("expected true or false")
	}
	o.value = &v
	return nil
}

// dateFlag parses YYYY-MM-DD
type dateFlag struct {
	date entity.Date
}

func (d *dateFlag) String() string {
	return d.date.String()
}

func (d *dateFlag) Set(s string) error {
	parsed, err := entity.ParseDate(s)
	if err != nil {
		return err
	}
	d.date = parsed
	return nil
}

func (d *dateFlag) timePtr() *time.Time {
	if d.date.IsZero() {
		return nil
	}
	t := d.date.Time
	return &t
}

// exportFlag is an optional export format
type exportFlag struct {
	format export.Format
}

func (e *exportFlag) String() string {
	return string(e.format)
}

func (e *exportFlag) Set(s string) error {
	f, err := export.ParseFormat(s)
	if err != nil {
		return err
	}
	e.format = f
	return nil
}

func (e *exportFlag) requested() bool {
	return e.format != ""
}

// prompter reads secrets from the terminal without echo, or line by line
// from a pipe
type prompter struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out}
}

func (p *prompter) password(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.in)
	}
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
