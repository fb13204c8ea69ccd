package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// logWriter is the destination for plain-text table output. Defaults to
// stdout when nil.
var logWriter io.Writer

// SetLogWriter sets the plain-text log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a structured log record through log/slog at the given level,
// then, for Info and above, echoes a plain-text line to logWriter so a
// batch run's per-cycle table stays readable without a log viewer.
func Logf(level slog.Level, msg string, attrs ...any) {
	slog.Log(context.Background(), level, msg, attrs...)
	if level < slog.LevelInfo {
		return
	}
	line := msg
	for i := 0; i+1 < len(attrs); i += 2 {
		line += fmt.Sprintf(" %v=%v", attrs[i], attrs[i+1])
	}
	if logWriter != nil {
		fmt.Fprintln(logWriter, line)
	} else {
		fmt.Println(line)
	}
}
