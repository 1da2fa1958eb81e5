package terminal

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const maxItemWidth = 48

// Progress draws a one-line spinner with a progress bar while a batch runs.
// On a non-terminal output it stays silent until Stop.
type Progress struct {
	mu          sync.Mutex
	label       string
	total       int
	done        int
	item        string
	running     bool
	stop        chan struct{}
	finished    chan struct{}
	startedAt   time.Time
	interactive bool
}

// NewProgress creates a progress line for total items (0 if unknown).
func NewProgress(label string, total int) *Progress {
	return &Progress{
		label:       label,
		total:       total,
		startedAt:   time.Now(),
		interactive: isTerminal(),
		stop:        make(chan struct{}),
		finished:    make(chan struct{}),
	}
}

func isTerminal() bool {
	mu.Lock()
	defer mu.Unlock()
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins the rendering loop.
func (p *Progress) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	go p.renderLoop()
}

// Advance marks one more item done; item is shown next to the bar.
func (p *Progress) Advance(item string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.item = item
}

// Stop stops the loop and clears the line.
func (p *Progress) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stop)
	<-p.finished
	if p.interactive {
		write("\r\033[K")
	}
}

// StopWithSuccess stops and prints a success message.
func (p *Progress) StopWithSuccess(msg string) {
	p.Stop()
	Success(msg)
}

// StopWithError stops and prints an error message.
func (p *Progress) StopWithError(msg string) {
	p.Stop()
	Error(msg)
}

func (p *Progress) renderLoop() {
	defer close(p.finished)
	frame := 0
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if p.interactive {
			write("\r\033[K" + p.line(frame))
		}
		frame++
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
	}
}

func (p *Progress) line(frame int) string {
	p.mu.Lock()
	label, total, done, item := p.label, p.total, p.done, p.item
	elapsed := time.Since(p.startedAt)
	p.mu.Unlock()

	spin := spinnerFrames[frame%len(spinnerFrames)]
	parts := []string{style(Cyan) + spin + style(Reset), label}
	if total > 0 {
		parts = append(parts, buildProgressBar(done, total), fmt.Sprintf("%d/%d", done, total))
	}
	if item != "" {
		parts = append(parts, style(Dim)+truncateItem(item)+style(Reset))
	}
	parts = append(parts, style(Dim)+formatElapsed(elapsed)+style(Reset))
	return strings.Join(parts, " ")
}

// formatElapsed formats a duration as a compact time string.
func formatElapsed(d time.Duration) string {
	s := int(d.Seconds())
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	m := s / 60
	s = s % 60
	return fmt.Sprintf("%dm%02ds", m, s)
}

// buildProgressBar creates a progress bar string.
func buildProgressBar(current, total int) string {
	if total <= 0 {
		return ""
	}
	width := 16
	filled := (current * width) / total
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s[%s]%s", style(Dim), bar, style(Reset))
}

// truncateItem keeps the tail of long items, where the file name is.
func truncateItem(s string) string {
	r := []rune(s)
	if len(r) <= maxItemWidth {
		return s
	}
	return "…" + string(r[len(r)-maxItemWidth+1:])
}
