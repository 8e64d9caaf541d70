package log

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestFilter(buf *bytes.Buffer, minLevel Level) *levelFilter {
	f := &levelFilter{
		start:    time.Now(),
		writer:   buf,
		minLevel: minLevel,
	}
	f.rebuild()
	return f
}

func TestLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	f := newTestFilter(buf, LInfo)

	line := []byte("[debug] dropped\n")
	n, err := f.Write(line)
	if err != nil || n != len(line) {
		t.Fatal(n, err)
	}
	if buf.Len() != 0 {
		t.Fatal("filtered line written:", buf.String())
	}

	line = []byte("[error] kept\n")
	n, err = f.Write(line)
	if err != nil || n != len(line) {
		t.Fatal(n, err)
	}
	if !strings.HasSuffix(buf.String(), "[error] kept\n") {
		t.Fatal(buf.String())
	}
}

func TestLevelFilterKeepsUnmarkedLines(t *testing.T) {
	buf := &bytes.Buffer{}
	f := newTestFilter(buf, LInfo)

	line := []byte("plain line without marker\n")
	n, err := f.Write(line)
	if err != nil || n != len(line) {
		t.Fatal(n, err)
	}
	if buf.Len() == 0 {
		t.Fatal("unmarked line must not be filtered")
	}
}
