package lock

import (
	"fmt"
	"strings"
	"testing"

	"github.com/slig-dev/slig/internal/constants"
)

// testLogger routes log output into the test log
type testLogger struct{ t *testing.T }

func (l testLogger) Info(format string, args ...interface{})          { l.t.Logf("info: "+format, args...) }
func (l testLogger) Warning(format string, args ...interface{})       { l.t.Logf("warning: "+format, args...) }
func (l testLogger) Error(format string, args ...interface{})         { l.t.Logf("error: "+format, args...) }
func (l testLogger) InfoToUser(format string, args ...interface{})    { l.t.Logf("user: "+format, args...) }
func (l testLogger) WarningToUser(format string, args ...interface{}) { l.t.Logf("user: "+format, args...) }
func (l testLogger) Success(format string, args ...interface{})       { l.t.Logf("user: "+format, args...) }
func (l testLogger) StatusMessage(format string, args ...interface{}) { l.t.Logf("user: "+format, args...) }

// tokenSequence returns a deterministic token source
func tokenSequence(tokens ...string) func() string {
	i := 0
	return func() string {
		token := tokens[i]
		if i < len(tokens)-1 {
			i++
		}
		return token
	}
}

// registryRecord builds a slig.ini with the given "name = kind" declarations
func registryRecord(declarations ...string) string {
	var b strings.Builder
	b.WriteString("[locks]\n")
	for _, decl := range declarations {
		fmt.Fprintf(&b, "%s\n", decl)
	}
	fmt.Fprintf(&b, "\n[metadata]\nversion = %s\n", constants.SchemaVersion)
	return b.String()
}

// newTestManager wires a Manager to a fake transport over the given remote
func newTestManager(t *testing.T, remote *fakeRemote, tokens ...string) (*Manager, *fakeTransport) {
	t.Helper()
	transport := newFakeTransport(t, remote)
	if len(tokens) == 0 {
		return NewManager(transport, testLogger{t}), transport
	}
	return NewManagerWithTokenSource(transport, testLogger{t}, tokenSequence(tokens...)), transport
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// readClaim is the filename of a read claim for assertions
func readClaim(name, token string) string {
	return name + constants.ReadClaimSeparator + token
}
