package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Ordinal street numbers (1st, 2nd, 3rd, 4th...) stay lower-cased when the
// rest of the address is title-cased.
var ordinalRegex = regexp.MustCompile(`([\d]+st)|([\d]+nd)|([\d]+rd)|([\d]+th)`)

// FormatAddress title-cases an address, leaving ordinal numbers untouched.
func FormatAddress(address string) string {
	matched := ordinalRegex.FindString(address)
	if matched == "" {
		return strings.TrimSpace(title(address))
	}

	parts := strings.Split(address, " ")
	for i, p := range parts {
		if p != matched {
			parts[i] = title(p)
		}
	}
	return strings.Join(parts, " ")
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// PostedDays renders how long ago an ad was posted.
func PostedDays(postedAt time.Time) string {
	days := int(time.Since(postedAt).Hours() / 24)

	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days <= 30:
		return fmt.Sprintf("%d days ago", days)
	default:
		return "Over a month ago"
	}
}
