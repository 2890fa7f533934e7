package suggest

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

//////
// Helper functions.
//////

// mulChecked multiplies two non-negative integers and reports whether the
// product stays within limit.
//
// Returns:
// - T: a*b, or 0 when the product would exceed limit
// - bool: false on overflow
func mulChecked[T constraints.Integer](a, b, limit T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	if a > limit/b {
		return 0, false
	}

	return a * b, true
}

// Algorithm setting keys understood by the samplers. Unknown keys are
// ignored so orchestrators can pass settings meant for other services.
const (
	SettingRandomState = "random_state"
	SettingMaxRetries  = "max_retries"
)

// Settings is the parsed form of a request's algorithm settings.
type Settings struct {
	// Seed for the random sampler, valid when HasSeed is true.
	Seed    int64
	HasSeed bool

	// MaxRetries overrides Config.MaxRetries when HasMaxRetries is true.
	MaxRetries    int
	HasMaxRetries bool
}

// ParseSettings extracts the settings this package understands.
//
// Malformed values fail with ErrInvalidSpec.
func ParseSettings(raw map[string]string) (Settings, error) {
	var s Settings

	if v, ok := raw[SettingRandomState]; ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Settings{}, errors.Wrapf(ErrInvalidSpec, "setting %s=%q is not an integer", SettingRandomState, v)
		}

		s.Seed, s.HasSeed = seed, true
	}

	if v, ok := raw[SettingMaxRetries]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n > math.MaxInt32 {
			return Settings{}, errors.Wrapf(ErrInvalidSpec, "setting %s=%q is not a valid retry count", SettingMaxRetries, v)
		}

		s.MaxRetries, s.HasMaxRetries = n, true
	}

	return s, nil
}

// MergeSettings returns base overlaid with override. Keys present in both
// take the override value; keys only in override are added. Neither input
// is modified.
func MergeSettings(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))

	for k, v := range base {
		merged[k] = v
	}

	for k, v := range override {
		merged[k] = v
	}

	return merged
}
