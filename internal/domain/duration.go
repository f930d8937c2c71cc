package domain

import (
	"regexp"
	"strconv"
	"time"
)

// Step durations are entered as free text ("10 phút", "1 giờ 30 phút",
// "90 seconds", "1h30m"). Parsing extracts hour/minute/second fragments
// independently; a text with none of them yields a zero duration.
var (
	hourPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:h(?:ours?)?|giờ|tiếng)`)
	minutePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:m(?:in(?:utes?)?)?|phút)`)
	secondPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:s(?:ec(?:onds?)?)?|giây)`)
)

// ParseStepDuration extracts a duration from free-form step text.
/// It never fails: unparseable text is simply a zero duration.
func ParseStepDuration(text string) time.Duration {
	// Minute and second patterns both match a bare trailing "m"/"s", so the
	// hour fragment is removed before the shorter units are scanned, and the
	// minute fragment before seconds. "1h30m" parses as 1h + 30m.
	var d time.Duration

	if m := hourPattern.FindStringSubmatch(text); m != nil {
		d += time.Duration(mustAtoi(m[1])) * time.Hour
		text = hourPattern.ReplaceAllString(text, " ")
	}
	if m := minutePattern.FindStringSubmatch(text); m != nil {
		d += time.Duration(mustAtoi(m[1])) * time.Minute
		text = minutePattern.ReplaceAllString(text, " ")
	}
	if m := secondPattern.FindStringSubmatch(text); m != nil {
		d += time.Duration(mustAtoi(m[1])) * time.Second
	}

	return d
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s) // pattern guarantees digits
	return n
}
