package cli

import (
	"fmt"
	"io"
	"log"
)

// stdLogger adapts the standard log package to calculation.Logger.
// Debug and info lines are dropped unless verbose is set.
type stdLogger struct {
	l       *log.Logger
	verbose bool
}

func newLogger(w io.Writer, verbose bool) *stdLogger {
	flags := log.LstdFlags
	if verbose {
		flags |= log.Lmicroseconds
	}
	return &stdLogger{l: log.New(w, "", flags), verbose: verbose}
}

func (s *stdLogger) Debugf(format string, args ...any) {
	if s.verbose {
		s.l.Print("[DEBUG] " + fmt.Sprintf(format, args...))
	}
}

func (s *stdLogger) Infof(format string, args ...any) {
	if s.verbose {
		s.l.Print("[INFO] " + fmt.Sprintf(format, args...))
	}
}

func (s *stdLogger) infoAlways(format string, args ...any) {
	s.l.Print("[INFO] " + fmt.Sprintf(format, args...))
}

func (s *stdLogger) Warnf(format string, args ...any) {
	s.l.Print("[WARN] " + fmt.Sprintf(format, args...))
}

func (s *stdLogger) Errorf(format string, args ...any) {
	s.l.Print("[ERROR] " + fmt.Sprintf(format, args...))
}
