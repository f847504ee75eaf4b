package mapping

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate converts a date in any recognizable layout to YYYY-MM-DD in
// UTC. Text that cannot be parsed is returned unchanged.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return raw
	}
	return t.UTC().Format(time.DateOnly)
}
