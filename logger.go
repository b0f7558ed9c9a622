package logtap

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logger is the console-style logging surface the tap can capture.
type Logger interface {
	Log(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

// WrapLogger decorates next so that every call is buffered for shipping as
// "[LEVEL] <message>" and then forwarded to next unmodified. The original
// sink keeps its exact behavior; capture adds no observable failure mode.
func (t *Tap) WrapLogger(next Logger) Logger {
	return &wrappedLogger{tap: t, next: next}
}

type wrappedLogger struct {
	tap  *Tap
	next Logger
}

func (w *wrappedLogger) Log(args ...any) {
	w.tap.capture("LOG", args...)
	w.next.Log(args...)
}

func (w *wrappedLogger) Debug(args ...any) {
	w.tap.capture("DEBUG", args...)
	w.next.Debug(args...)
}

func (w *wrappedLogger) Info(args ...any) {
	w.tap.capture("INFO", args...)
	w.next.Info(args...)
}

func (w *wrappedLogger) Warn(args ...any) {
	w.tap.capture("WARN", args...)
	w.next.Warn(args...)
}

func (w *wrappedLogger) Error(args ...any) {
	w.tap.capture("ERROR", args...)
	w.next.Error(args...)
}

// capture formats args console-style (space-joined) and buffers one line.
func (t *Tap) capture(level string, args ...any) {
	msg := strings.TrimSuffix(fmt.Sprintln(args...), "\n")
	t.append("[" + level + "] " + msg)
}

// StdSink adapts a standard library logger as the original sink behind
// WrapLogger. All five levels print through the same *log.Logger.
func StdSink(l *log.Logger) Logger {
	return stdSink{l}
}

type stdSink struct {
	l *log.Logger
}

func (s stdSink) Log(args ...any)   { s.l.Println(args...) }
func (s stdSink) Debug(args ...any) { s.l.Println(args...) }
func (s stdSink) Info(args ...any)  { s.l.Println(args...) }
func (s stdSink) Warn(args ...any)  { s.l.Println(args...) }
func (s stdSink) Error(args ...any) { s.l.Println(args...) }

// Writer returns an io.Writer that buffers every line written to it under
// the given level. Use it with io.MultiWriter to tap a line-oriented output
// path without replacing it:
//
//	log.SetOutput(io.MultiWriter(os.Stderr, tap.Writer("LOG")))
func (t *Tap) Writer(level string) io.Writer {
	return &lineWriter{tap: t, level: strings.ToUpper(level)}
}

type lineWriter struct {
	tap   *Tap
	level string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.tap.append("[" + w.level + "] " + line)
	}
	return len(p), nil
}
