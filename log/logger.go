// Package log provides a leveled logger on top of the standard log package.
// Levels are part of the message itself ("[info] ...") and get filtered by
// an io.Writer wrapper. This keeps call sites compatible with plain log
// usage while still allowing -quiet imports.
package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

type Level string

const (
	LDebug    = Level("debug")
	LProgress = Level("progress")
	LStep     = Level("step")
	LInfo     = Level("info")
	LWarn     = Level("warn")
	LError    = Level("error")
	LFatal    = Level("fatal")
)

var levelOrder = []Level{LDebug, LProgress, LStep, LInfo, LWarn, LError, LFatal}

var DefaultLogger *log.Logger
var defaultFilter *levelFilter

func init() {
	defaultFilter = &levelFilter{
		start:    time.Now(),
		writer:   os.Stderr,
		minLevel: LProgress,
	}
	defaultFilter.rebuild()
	DefaultLogger = log.New(defaultFilter, "", 0)
}

// levelFilter drops complete log lines below minLevel. The level is
// detected from the first [level] marker in the line.
type levelFilter struct {
	start    time.Time
	writer   io.Writer
	minLevel Level
	filtered map[Level]struct{}
}

func (f *levelFilter) rebuild() {
	filtered := make(map[Level]struct{})
	for _, level := range levelOrder {
		if level == f.minLevel {
			break
		}
		filtered[level] = struct{}{}
	}
	f.filtered = filtered
}

func (f *levelFilter) keep(line []byte) bool {
	var level Level
	open := bytes.IndexByte(line, '[')
	if open >= 0 {
		end := bytes.IndexByte(line[open:], ']')
		if end >= 0 {
			level = Level(line[open+1 : open+end])
		}
	}
	_, drop := f.filtered[level]
	return !drop
}

func (f *levelFilter) Write(p []byte) (int, error) {
	// log.Logger guarantees a single complete line per Write. Filtered
	// lines still report the full length, a short write would be an
	// error for any other client.
	if !f.keep(p) {
		return len(p), nil
	}
	buf := bytes.Buffer{}
	now := time.Now()
	up := now.Sub(f.start)
	fmt.Fprintf(&buf, "[%s] %d:%02d:%02d ",
		now.Format(time.RFC3339),
		int(up.Hours()),
		int(up.Minutes())%60,
		int(up.Seconds())%60,
	)
	buf.Write(p)
	if _, err := f.writer.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SetMinLevel filters all messages below lvl from the output.
func SetMinLevel(lvl Level) {
	defaultFilter.minLevel = lvl
	defaultFilter.rebuild()
}

func Println(v ...interface{}) {
	DefaultLogger.Println(v...)
}

func Printf(format string, v ...interface{}) {
	DefaultLogger.Printf(format, v...)
}

func Fatal(v ...interface{}) {
	DefaultLogger.Fatal(v...)
}

func Fatalf(format string, v ...interface{}) {
	DefaultLogger.Fatalf(format, v...)
}

// Step logs the start of a named step and returns a func that logs the
// completion with the elapsed time. Use with defer:
//	defer log.Step("Importing way geometries")()
func Step(name string) func() {
	start := time.Now()
	Println("[step] Starting:", name)
	return func() {
		Printf("[step] Finished: %s in %s", name, time.Since(start))
	}
}
