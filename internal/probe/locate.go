package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Normalizer resolves "file:line" specs into absolute file paths.
type Normalizer struct {
	repoRoot  string
	sourceMap []string
	cache     *lru.Cache
}

// NewNormalizer builds a Normalizer. sourceMap is a list of absolute source
// paths extracted from the debuggee's debug info, consulted by basename when
// neither an absolute path nor the repo root resolves a spec.
func NewNormalizer(repoRoot string, sourceMap []string) *Normalizer {
	cache, err := lru.New(256)
	if err != nil {
		// lru.New only errors on a non-positive size; 256 is always valid.
		panic(fmt.Sprintf("probe: unexpected lru.New error: %v", err))
	}
	return &Normalizer{repoRoot: repoRoot, sourceMap: sourceMap, cache: cache}
}

// Resolve fills in spec.File and spec.Line. On a location-parse failure it
// returns an error describing it; the caller is expected to log and skip the
// spec rather than treat it as fatal. A spec whose file cannot be resolved by
// any of the three rules keeps its original (unresolved) text and line —
// §4.1: "spec is left with its original location and will likely fail
// registration", not a Resolve-time error.
func (n *Normalizer) Resolve(spec *BreakpointSpec) error {
	file, line, err := splitLocation(spec.Location)
	if err != nil {
		return fmt.Errorf("parse location %q: %w", spec.Location, err)
	}
	spec.Line = line

	if filepath.IsAbs(file) {
		if fileExists(file) {
			spec.File = file
			return nil
		}
	}

	if n.repoRoot != "" {
		candidate := filepath.Join(n.repoRoot, file)
		if fileExists(candidate) {
			spec.File = candidate
			return nil
		}
	}

	base := filepath.Base(file)
	if cached, ok := n.cache.Get(base); ok {
		spec.File = cached.(string)
		return nil
	}
	for _, p := range n.sourceMap {
		if filepath.Base(p) == base {
			n.cache.Add(base, p)
			spec.File = p
			return nil
		}
	}

	spec.File = file
	return nil
}

func splitLocation(location string) (file string, line int, err error) {
	idx := strings.LastIndexByte(location, ':')
	if idx < 0 || idx == len(location)-1 {
		return "", 0, fmt.Errorf("missing \":line\" suffix")
	}
	n, err := strconv.Atoi(location[idx+1:])
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("line suffix %q is not a positive integer", location[idx+1:])
	}
	return location[:idx], n, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
