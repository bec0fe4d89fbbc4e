// Package adapter discovers an invocable DAP adapter binary on the host and
// applies best-effort version heuristics to it. Kept deliberately separate
// from internal/probe (§1: "discovery of the adapter binary on the host... a
// utility that yields an invocable adapter path" is out of the core's
// scope).
package adapter

import (
	"fmt"
	"os/exec"
	"strings"
)

// candidates are the adapter binary names the Python original's test
// helpers probe for, in preference order.
var candidates = []string{"lldb-dap", "lldb-vscode"}

// Discover searches PATH for the first available candidate adapter binary
// and returns its path along with the DAP adapterID it identifies as.
func Discover() (path string, adapterID string, err error) {
	for _, name := range candidates {
		if p, lookErr := exec.LookPath(name); lookErr == nil {
			return p, "lldb", nil
		}
	}
	return "", "", fmt.Errorf("no DAP adapter found in PATH (tried %s)", strings.Join(candidates, ", "))
}
