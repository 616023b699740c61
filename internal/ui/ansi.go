package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// ColorMode decides whether escapes are emitted.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "force":
		return ColorAlways, nil
	case "never", "off":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

// Printer writes themed output. Out gets results, Err gets diagnostics.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Theme Theme
	color bool
}

func NewPrinter(out, errw io.Writer, theme Theme, mode ColorMode) *Printer {
	color := false
	switch mode {
	case ColorAlways:
		color = true
	case ColorAuto:
		color = isTTY(out)
	}
	if theme.Monochrome {
		color = false
	}
	return &Printer{Out: out, Err: errw, Theme: theme, color: color}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in the color escape when color output is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) OK(msg string) { fmt.Fprintln(p.Out, p.C(p.Theme.Success, symCheck+" "+msg)) }

func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(p.Theme.Error, symCross+" "+msg)) }

func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(fgGray, msg)) }
