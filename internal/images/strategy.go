package images

import (
	"fmt"
	"strings"
)

// Strategy selects how image references are resolved. It is always chosen
// by the caller, never detected.
type Strategy string

const (
	StrategyManifest  Strategy = "manifest"
	StrategyDirectory Strategy = "dir"
	StrategyRemote    Strategy = "remote"
	StrategyNone      Strategy = "none"
)

// ParseStrategy parses a strategy name. Empty means none.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StrategyNone, nil
	case "manifest":
		return StrategyManifest, nil
	case "dir", "directory":
		return StrategyDirectory, nil
	case "remote":
		return StrategyRemote, nil
	default:
		return StrategyNone, fmt.Errorf("unknown image strategy %q (want manifest, dir, remote or none)", s)
	}
}
