package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrNop(t *testing.T) {
	assert.IsType(t, NopLogger{}, OrNop(nil))

	custom := NewSlogLogger(nil)
	assert.Equal(t, custom, OrNop(custom))
}

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(New(&buf, false))

	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("vendor %s repaired", "acme")
	l.Errorf("vendor %s failed", "acme")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "vendor acme repaired")
	assert.Contains(t, out, "vendor acme failed")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
}

func TestSlogLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(New(&buf, true))

	l.Debugf("tier %d selected", 2)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "tier 2 selected")
}
