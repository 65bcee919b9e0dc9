package core

/*------------------------------------------------------------------
 *
 * Purpose:	Structured logging (spec §6 ambient stack): the AMPS,
 *		NMT and C-Netz FSMs log dropped frames at Debug; the FSMs
 *		log transaction destruction (and AMPS transaction
 *		creation) at Info. State transitions and supervisory
 *		edges are not logged.
 *
 * Description:	Replaces the teacher's hand-rolled CSV log_init/
 *		log_write/log_term (src/log.go) with a leveled
 *		charmbracelet/log logger, but keeps the same daily-file
 *		rotation shape: a directory plus a pattern, one file
 *		open at a time, reopened when the pattern's expansion
 *		changes.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Logger is the core's leveled logging sink. A nil *Logger is valid
// and silences all output, so a Core can be built without one in
// tests.
type Logger struct {
	l       *charmlog.Logger
	fh      *os.File
	dir     string
	pattern string
	name    string
}

// NewLogger wraps an already-open writer (stderr, a single fixed
// file) with no daily rotation, the "-L logfile" case in the
// teacher's terms.
func NewLogger(w *os.File, level charmlog.Level) *Logger {
	lg := &Logger{l: charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
	})}
	if w != os.Stderr && w != os.Stdout {
		lg.fh = w
	}
	return lg
}

// NewDailyLogger opens a log file under dir named by the strftime
// pattern (the teacher's "-l logdir" daily-names case, spec §6), and
// reopens it whenever the pattern's expansion rolls over to a new
// name. Uses strftime.Format the same way the teacher's xmit.go and
// tq.go stamp transmitted-packet timestamps.
func NewDailyLogger(dir, pattern string, level charmlog.Level) (*Logger, error) {
	if _, err := strftime.Format(pattern, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("log pattern %q: %w", pattern, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	lg := &Logger{dir: dir, pattern: pattern}
	if err := lg.rotate(level); err != nil {
		return nil, err
	}
	return lg, nil
}

func (lg *Logger) rotate(level charmlog.Level) error {
	name, err := strftime.Format(lg.pattern, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("formatting log file name: %w", err)
	}
	full := filepath.Join(lg.dir, name)
	f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %q: %w", full, err)
	}
	if lg.fh != nil {
		lg.fh.Close()
	}
	lg.fh = f
	lg.name = name
	lg.l = charmlog.NewWithOptions(f, charmlog.Options{Level: level, ReportTimestamp: true})
	return nil
}

// maybeRotate reopens the log file once the pattern's expansion for
// "now" no longer matches the currently open file's name. Mirrors the
// teacher's inline date-change check in log_write, done once per call
// instead of allocating a csv.Writer per line.
func (lg *Logger) maybeRotate() {
	if lg.pattern == "" {
		return
	}
	want, err := strftime.Format(lg.pattern, time.Now().UTC())
	if err != nil || want == lg.name {
		return
	}
	_ = lg.rotate(lg.l.GetLevel())
}

func (lg *Logger) Debugf(format string, args ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.maybeRotate()
	lg.l.Debugf(format, args...)
}

func (lg *Logger) Infof(format string, args ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.maybeRotate()
	lg.l.Infof(format, args...)
}

func (lg *Logger) Warnf(format string, args ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.maybeRotate()
	lg.l.Warnf(format, args...)
}

func (lg *Logger) Errorf(format string, args ...any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.maybeRotate()
	lg.l.Errorf(format, args...)
}

// Close flushes and closes the underlying daily log file, if any.
func (lg *Logger) Close() error {
	if lg == nil || lg.fh == nil {
		return nil
	}
	return lg.fh.Close()
}
