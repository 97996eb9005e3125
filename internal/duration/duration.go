// Package duration converts human-entered duration strings to and from signed
// millisecond counts. Two input forms are accepted: compact unit tokens
// ("1d2h30m") and colon-separated "dd:hh:mm:ss" with missing leading fields
// treated as zero. Parsing never fails; malformed tokens contribute zero.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Millisecond counts for each accepted unit.
const (
	Second int64 = 1000
	Minute int64 = 60 * Second
	Hour   int64 = 60 * Minute
	Day    int64 = 24 * Hour
)

var tokenPattern = regexp.MustCompile(`(\d+)([dhms])`)

// Parse returns the non-negative millisecond count for text.
// Compact form: repeated <int><unit> tokens with unit in d/h/m/s; text between
// tokens is ignored and a string with no tokens parses as 0. Colon form:
// "dd:hh:mm:ss" where fewer than four fields are right-aligned (e.g. "5:00"
// means 5 minutes). A malformed numeric field contributes 0.
func Parse(text string) int64 {
	if strings.Contains(text, ":") {
		return parseColon(text)
	}
	var ms int64
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "d":
			ms += v * Day
		case "h":
			ms += v * Hour
		case "m":
			ms += v * Minute
		case "s":
			ms += v * Second
		}
	}
	return ms
}

// ParseSigned behaves like Parse but honors a leading "+" or "-" sign,
// returning a negative count for "-". Unsigned input is returned as-is.
func ParseSigned(text string) int64 {
	if strings.HasPrefix(text, "+") {
		return Parse(text[1:])
	}
	if strings.HasPrefix(text, "-") {
		return -Parse(text[1:])
	}
	return Parse(text)
}

func parseColon(text string) int64 {
	parts := strings.Split(text, ":")
	for len(parts) < 4 {
		parts = append([]string{"0"}, parts...)
	}
	// With more than four fields only the last four count, matching the
	// right-aligned dd:hh:mm:ss layout.
	parts = parts[len(parts)-4:]
	vals := make([]int64, 4)
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || v < 0 {
			continue
		}
		vals[i] = v
	}
	return ((vals[0]*24+vals[1])*3600+vals[2]*60+vals[3]) * Second
}

// Decompose splits ms into whole days, hours (0-23), minutes (0-59), and
// seconds (0-59). Negative input is treated as zero.
func Decompose(ms int64) (days, hours, minutes, seconds int64) {
	if ms < 0 {
		ms = 0
	}
	days = ms / Day
	ms %= Day
	hours = ms / Hour
	ms %= Hour
	minutes = ms / Minute
	ms %= Minute
	seconds = ms / Second
	return days, hours, minutes, seconds
}

// Format renders ms as "{d}d {hh}h {mm}m {ss}s" with two-digit zero padding on
// hours, minutes, and seconds. Sub-second remainders are dropped, so
// Parse(Format(x)) == x for any non-negative whole-second x.
func Format(ms int64) string {
	days, hours, minutes, seconds := Decompose(ms)
	return fmt.Sprintf("%dd %02dh %02dm %02ds", days, hours, minutes, seconds)
}
