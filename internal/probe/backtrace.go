package probe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatBacktrace turns a frame sequence into a stable multi-line,
// human-readable call-stack string, innermost frame first and marked with
// "*". Frames without a source location are rendered with just their name.
// Empty input produces the empty string.
func FormatBacktrace(frames []Frame) string {
	if len(frames) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, f := range frames {
		prefix := "  "
		if i == 0 {
			prefix = "* "
		}
		fmt.Fprintf(&sb, "%s#%d: %s", prefix, i, f.Name)
		if f.File != "" {
			fmt.Fprintf(&sb, " at %s:%d", filepath.Base(f.File), f.Line)
		}
		if i != len(frames)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
