package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ConsoleConfig contains configuration for console reporting.
type ConsoleConfig struct {
	// Writer receives report lines. Defaults to os.Stdout.
	Writer io.Writer

	// NoColor disables colors. Colors are also disabled when Writer is
	// os.Stdout and stdout is not a terminal.
	NoColor bool

	// GroupEvery inserts a blank line after every N reports, which keeps
	// interleaved reports from several profilers readable. 0 disables it.
	GroupEvery int
}

// Console writes human-readable report lines. One Console is shared by
// many named reporters; it is safe for concurrent use.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	colors *ColorScheme
	group  int
	lines  int
}

// NewConsole creates a console writer.
func NewConsole(cfg ConsoleConfig) *Console {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	noColor := cfg.NoColor
	if f, ok := w.(*os.File); ok && !IsTerminal(f) {
		noColor = true
	}

	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}

	return &Console{
		w:      w,
		colors: colors,
		group:  cfg.GroupEvery,
	}
}

// Reporter returns a reporter that prefixes its lines with name.
func (c *Console) Reporter(name string) *ConsoleReporter {
	return &ConsoleReporter{name: name, console: c}
}

func (c *Console) writeLine(name, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.w, "%s: %s\n", c.colors.Name.Sprint(name), body)

	c.lines++
	if c.group > 0 && c.lines == c.group {
		c.lines = 0
		fmt.Fprintln(c.w)
	}
}

// ConsoleReporter is a named reporter whose methods match the profiler
// sink shapes:
//
//	rep := console.Reporter("f1")
//	p, _ := profiler.NewMethodProfiler(profiler.BindUsageSink(rep, (*report.ConsoleReporter).Usage))
type ConsoleReporter struct {
	name    string
	console *Console
}

// Name returns the reporter's label.
func (r *ConsoleReporter) Name() string {
	return r.name
}

// Events writes an event-rate line.
func (r *ConsoleReporter) Events(count uint64, elapsed time.Duration) {
	r.console.writeLine(r.name, r.console.colors.Rate.Sprint(Events(count, elapsed)))
}

// Data writes a data-rate line.
func (r *ConsoleReporter) Data(volume uint64, elapsed time.Duration) {
	r.console.writeLine(r.name, r.console.colors.Rate.Sprint(Data(volume, elapsed)))
}

// Usage writes a utilization line, colored by how busy the method was.
func (r *ConsoleReporter) Usage(busy, idle time.Duration, calls uint64, elapsed time.Duration) {
	c := r.console.colors.usageColor(Utilization(busy, elapsed))
	r.console.writeLine(r.name, c.Sprint(Usage(busy, idle, calls, elapsed)))
}
