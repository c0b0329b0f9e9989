package token

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseTTL parses positive durations of the form <int><s|m|h|d>, e.g. "15m" or "7d".
func ParseTTL(s string) (time.Duration, error) {
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: duration %q must match <int><s|m|h|d>", model.ErrInvalidFormat, s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %v", model.ErrInvalidFormat, s, err)
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	if n == 0 {
		return 0, fmt.Errorf("%w: duration %q must be positive", model.ErrInvalidFormat, s)
	}
	if n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("%w: duration %q is too long", model.ErrInvalidFormat, s)
	}

	return time.Duration(n) * unit, nil
}
