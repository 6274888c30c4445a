package timing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// microSign is U+00B5, the form time.Duration.String emits.
	microSign = "µ"
	// greekMu is U+03BC; NFKC folds microSign onto it.
	greekMu = "μ"
)

var (
	errNegative  = errors.New("duration is negative")
	errNotFinite = errors.New("duration is not finite")
)

// DurationError reports an elapsed token whose numeric part could not be read.
type DurationError struct {
	Token string
	Err   error
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("invalid duration %q: %v", e.Token, e.Err)
}

func (e *DurationError) Unwrap() error {
	return e.Err
}

// ParseDuration converts an elapsed token such as "450ms", "12µs", "2.5s" or
// "20m47.611789051s" into seconds. Tokens without a recognised unit yield 0.
// On malformed input it returns 0 and a *DurationError.
func ParseDuration(token string) (float64, error) {
	tok := norm.NFKC.String(strings.TrimSpace(token))

	var (
		v   float64
		err error
	)
	switch {
	case strings.Contains(tok, "m") && strings.Contains(tok, "s") && !strings.Contains(tok, "ms"):
		v, err = parseMinutes(tok)
	case strings.Contains(tok, "ms"):
		v, err = parseScaled(tok, "ms", 1e3)
	case strings.Contains(tok, greekMu+"s"):
		v, err = parseScaled(tok, greekMu+"s", 1e6)
	case strings.Contains(tok, "s"):
		v, err = parseScaled(tok, "s", 1)
	default:
		return 0, nil
	}
	if err == nil {
		err = checkRange(v)
	}
	if err != nil {
		return 0, &DurationError{Token: token, Err: err}
	}
	return v, nil
}

// parseMinutes handles the "<minutes>m<seconds>s" shape.
func parseMinutes(tok string) (float64, error) {
	left, right, _ := strings.Cut(tok, "m")
	minutes, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return 0, err
	}
	seconds := 0.0
	if right = strings.TrimSuffix(right, "s"); right != "" {
		if seconds, err = strconv.ParseFloat(right, 64); err != nil {
			return 0, err
		}
	}
	return minutes*60 + seconds, nil
}

func parseScaled(tok, suffix string, divisor float64) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(tok, suffix), 64)
	if err != nil {
		return 0, err
	}
	return f / divisor, nil
}

func checkRange(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errNotFinite
	}
	if v < 0 {
		return errNegative
	}
	return nil
}

// FormatDuration renders seconds in the largest unit that keeps the value
// at or above one: "1m5.50s", "2.50s", "450.00ms" or "12.00µs".
func FormatDuration(seconds float64) string {
	switch {
	case seconds >= 60:
		// Round to centiseconds first so 119.999 prints as 2m0.00s, not 1m60.00s.
		cs := math.Round(seconds * 100)
		minutes := math.Floor(cs / 6000)
		return fmt.Sprintf("%.0fm%.2fs", minutes, (cs-minutes*6000)/100)
	case seconds >= 1:
		return fmt.Sprintf("%.2fs", seconds)
	case seconds >= 0.001:
		return fmt.Sprintf("%.2fms", seconds*1e3)
	default:
		return fmt.Sprintf("%.2f%ss", seconds*1e6, microSign)
	}
}
