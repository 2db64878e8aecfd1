package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reGrouped = regexp.MustCompile(`^\d{1,3}(?:[,. ]\d{3})+$`)

// ParseCount parses a vote count cell. Thousands separators are accepted and
// dash placeholders count as zero.
func ParseCount(input string) (int, error) {
	s := NormalizeCell(input)
	switch s {
	case "-", "–", "—":
		return 0, nil
	case "":
		return 0, fmt.Errorf("empty count")
	}

	compact := s
	if reGrouped.MatchString(s) {
		compact = strings.NewReplacer(",", "", ".", "", " ", "").Replace(s)
	}
	n, err := strconv.Atoi(compact)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", input)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %q", input)
	}
	return n, nil
}
