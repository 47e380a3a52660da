package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFiltersBelowMinLevel(t *testing.T) {
	l := New(LevelWarn)
	buf := &bytes.Buffer{}
	l.err = buf
	l.Info("should not appear")
	assert.Empty(t, buf.String())
	l.Warn("should appear")
	assert.Contains(t, buf.String(), "WARN")
}

func TestProgressWritesToOut(t *testing.T) {
	l := New(LevelInfo)
	buf := &bytes.Buffer{}
	l.out = buf
	l.Progress("%d done", 5)
	assert.Contains(t, buf.String(), "5 done")
}

func TestThroughputFormat(t *testing.T) {
	s := Throughput(100, 2*time.Second)
	assert.Contains(t, s, "100 records")
	assert.Contains(t, s, "50.0 rec/s")
}
