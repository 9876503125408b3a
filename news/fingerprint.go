package news

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)
	stopwords  = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
		"in": {}, "on": {}, "for": {}, "with": {}, "from": {}, "by": {},
	}
)

// NormalizeTitle lowercases a headline, drops punctuation and stopwords, and
// joins the remaining words with single spaces.
func NormalizeTitle(title string) string {
	text := reNonAlnum.ReplaceAllString(strings.ToLower(title), " ")
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; !stop {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// Fingerprint groups headlines that differ only in case, punctuation or
// stopwords.
func Fingerprint(title string) string {
	sum := sha256.Sum256([]byte(NormalizeTitle(title)))
	return hex.EncodeToString(sum[:])
}
