package runner

import (
	"regexp"
	"strconv"
)

// yt-dlp with --newline prints lines like:
//
//	[download]  42.7% of 12.34MiB at 1.20MiB/s ETA 00:07
//
// gytmdl forwards them unchanged. Anything with a trailing percent marker
// is treated as a progress cue.
var progressRe = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)%`)

// ParseProgress extracts an integer percentage from a tool output line.
// Returns false when the line carries no progress cue.
func ParseProgress(line string) (int, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	p := int(f)
	if p < 0 {
		return 0, false
	}
	if p > 100 {
		p = 100
	}
	return p, true
}
