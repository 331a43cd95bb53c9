// Package report prints the human-readable check output.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console writes tagged, optionally colored lines to one stream.
type Console struct {
	out     io.Writer
	info    *color.Color
	warning *color.Color
	err     *color.Color
	success *color.Color
}

// NewConsole returns a Console writing to out. Color is used only when
// useColor is true.
func NewConsole(out io.Writer, useColor bool) *Console {
	c := &Console{
		out:     out,
		info:    color.New(color.FgCyan),
		warning: color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
		success: color.New(color.FgGreen, color.Bold),
	}
	for _, col := range []*color.Color{c.info, c.warning, c.err, c.success} {
		if useColor {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// AutoColor reports whether output to out should be colored: never when
// disabled explicitly, when NO_COLOR is set, on a dumb terminal, or when out
// is not a terminal.
func AutoColor(out io.Writer, disabled bool) bool {
	if disabled || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) Info(format string, args ...any) {
	c.printf(c.info, "info", format, args...)
}

func (c *Console) Warning(format string, args ...any) {
	c.printf(c.warning, "warning", format, args...)
}

func (c *Console) Error(format string, args ...any) {
	c.printf(c.err, "error", format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.printf(c.success, "success", format, args...)
}

func (c *Console) printf(col *color.Color, tag, format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", col.Sprintf("<%s>", tag), fmt.Sprintf(format, args...))
}
