package diag

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/hazel-lang/hazel/internal/config"
)

// Level is a diagnostic severity.
type Level int

const (
	Notice Level = iota
	Warning
	Error
	// Silent is above every severity; a reporter with min=Silent drops all output.
	Silent
)

func (l Level) String() string {
	switch l {
	case Notice:
		return "Notice"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Silent"
	}
}

// ParseLevel maps a settings-file level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch name {
	case config.LevelNameNotice:
		return Notice, nil
	case config.LevelNameWarning:
		return Warning, nil
	case config.LevelNameError:
		return Error, nil
	case config.LevelNameSilent:
		return Silent, nil
	}
	return Warning, fmt.Errorf("unknown diagnostic level %q", name)
}

const (
	colorReset  = "\x1b[0m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorCyan   = "\x1b[36m"
)

// Reporter writes runtime diagnostics. Resolution failures surface here as
// warnings instead of aborting execution.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	min    Level
	color  bool
	counts map[Level]int
}

// NewReporter creates a reporter with "auto" color mode.
func NewReporter(out io.Writer, min Level) *Reporter {
	return &Reporter{
		out:    out,
		min:    min,
		color:  detectTTY(out),
		counts: make(map[Level]int),
	}
}

// SetColor overrides the auto-detected color mode.
func (r *Reporter) SetColor(on bool) {
	r.mu.Lock()
	r.color = on
	r.mu.Unlock()
}

func detectTTY(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Noticef reports a Notice-level diagnostic.
func (r *Reporter) Noticef(format string, args ...interface{}) {
	r.report(Notice, format, args...)
}

// Warningf reports a Warning-level diagnostic.
func (r *Reporter) Warningf(format string, args ...interface{}) {
	r.report(Warning, format, args...)
}

// Errorf reports an Error-level diagnostic.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.report(Error, format, args...)
}

// Count returns how many diagnostics of the given level were emitted,
// including ones below the reporting threshold.
func (r *Reporter) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[level]
}

func (r *Reporter) report(level Level, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[level]++
	if level < r.min {
		return
	}
	label := level.String()
	if r.color {
		label = levelColor(level) + label + colorReset
	}
	fmt.Fprintf(r.out, "%s: %s\n", label, fmt.Sprintf(format, args...))
}

func levelColor(level Level) string {
	switch level {
	case Notice:
		return colorCyan
	case Warning:
		return colorYellow
	default:
		return colorRed
	}
}
