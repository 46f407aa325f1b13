package obslog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "eval", LevelWarn)

	l.Debugf("should not appear")
	l.Infof("should not appear either")
	l.Warnf("regex cache evicted %d entries", 3)
	l.Errorf("store unavailable: %s", "timeout")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "[eval]")
	assert.Contains(t, out, "regex cache evicted 3 entries")
	assert.Contains(t, out, "ERROR")
}

func TestWithRetagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "executor", LevelDebug)
	sub := l.With("executor.join")
	sub.Infof("built hash table with %d rows", 5)

	assert.True(t, strings.Contains(buf.String(), "[executor.join]"))
}

func TestNopDiscardsEverything(t *testing.T) {
	l := Nop()
	l.Errorf("this goes nowhere")
}
