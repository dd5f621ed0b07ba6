package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// palette hands out ANSI colours, or empty strings when w is not a terminal.
type palette struct {
	enabled bool
}

func newPalette(w io.Writer) palette {
	f, ok := w.(*os.File)
	return palette{enabled: ok && os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(f.Fd()))}
}

func (p palette) color(c string) string {
	if !p.enabled {
		return ""
	}
	return c
}

func (p palette) reset() string {
	return p.color(colorReset)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
