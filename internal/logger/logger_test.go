package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFacingOutputGoesToStderr(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(false, "", false, &stdout, &stderr)

	l.InfoToUser("info for %s", "user")
	l.WarningToUser("careful")
	l.Success("done")
	l.StatusMessage("status %d", 42)
	l.Error("broke")

	// stdout stays clean: it is reserved for protocol results
	assert.Empty(t, stdout.String())

	out := stderr.String()
	assert.Contains(t, out, "info for user")
	assert.Contains(t, out, "warning: careful")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "status 42")
	assert.Contains(t, out, "error: broke")
}

func TestInternalLoggingDisabled(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(false, "", false, &stdout, &stderr)

	l.Info("internal detail")
	l.Warning("internal warning")

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestWarningShownWhenVerbose(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(false, "", true, &stdout, &stderr)

	l.Warning("verbose warning")
	assert.Contains(t, stderr.String(), "warning: verbose warning")
}

func TestDebugLogFile(t *testing.T) {
	t.Parallel()

	logFile := filepath.Join(t.TempDir(), "logs", "slig.log")

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(true, logFile, false, &stdout, &stderr)

	l.Info("structured record %d", 7)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "structured record 7")
	// zerolog writes JSON lines
	assert.True(t, strings.HasPrefix(strings.TrimSpace(content), "{"))
}

func TestCloseWithoutFile(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(false, "", false, &stdout, &stderr)
	assert.NoError(t, l.Close())
}
