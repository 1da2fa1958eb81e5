package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Colors for terminal output.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	color           = term.IsTerminal(int(os.Stdout.Fd()))
)

// SetOutput redirects all terminal output. Color stays on only when w is
// a terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	color = false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
}

// SetColor forces color on or off.
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	color = enabled
}

func style(code string) string {
	mu.Lock()
	defer mu.Unlock()
	if !color {
		return ""
	}
	return code
}

func write(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(out, s)
}

// UI helper functions.

// Success prints a green success message.
func Success(msg string) {
	write(fmt.Sprintf("%s%s✓%s %s\n", style(Bold), style(Green), style(Reset), msg))
}

// Error prints a red error message.
func Error(msg string) {
	write(fmt.Sprintf("%s%s✗%s %s\n", style(Bold), style(Red), style(Reset), msg))
}

// Info prints a blue info message.
func Info(msg string) {
	write(fmt.Sprintf("%s%si%s %s\n", style(Bold), style(Blue), style(Reset), msg))
}

// Warning prints a yellow warning message.
func Warning(msg string) {
	write(fmt.Sprintf("%s%s!%s %s\n", style(Bold), style(Yellow), style(Reset), msg))
}

// Header prints a bold header.
func Header(msg string) {
	write(fmt.Sprintf("\n%s%s%s\n", style(Bold), msg, style(Reset)))
}

// Detail prints an indented detail line.
func Detail(label, value string) {
	write(fmt.Sprintf("  %s%s:%s %s\n", style(Dim), label, style(Reset), value))
}

// Line prints msg as is.
func Line(msg string) {
	write(msg + "\n")
}

// Divider prints a horizontal line.
func Divider() {
	write(fmt.Sprintf("%s%s%s\n", style(Dim), strings.Repeat("─", 60), style(Reset)))
}
