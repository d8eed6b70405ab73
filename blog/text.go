package blog

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ExcerptLength is the maximum excerpt length in characters, not counting
// the ellipsis appended on truncation.
const ExcerptLength = 160

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugHyphenRe   = regexp.MustCompile(`[\s_]+`)
	slugRepeatRe   = regexp.MustCompile(`-+`)
	slugTrimRe     = regexp.MustCompile(`^-+|-+$`)
	tagRe          = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	trailingWordRe = regexp.MustCompile(`\s+\S*$`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// GenerateID returns a fresh opaque identifier for a new post. IDs are
// random UUIDs; no collision check against existing records is made.
func GenerateID() string {
	return uuid.NewString()
}

// GenerateSlug derives a URL-safe slug from a title and appends a short
// random hex suffix. The suffix is the only collision-avoidance mechanism:
// two posts with the same title still get distinct slugs. A title with no
// usable characters yields just the suffix with a leading hyphen.
func GenerateSlug(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = slugStripRe.ReplaceAllString(base, "")
	base = slugHyphenRe.ReplaceAllString(base, "-")
	base = slugRepeatRe.ReplaceAllString(base, "-")
	base = slugTrimRe.ReplaceAllString(base, "")

	buf := make([]byte, 2)
	rand.Read(buf)
	return base + "-" + hex.EncodeToString(buf)
}

// GenerateExcerpt strips markup from rich HTML content and returns a plain
// text summary of at most max characters. Truncation backs up to the last
// whole word and appends an ellipsis, so the result never ends mid-word.
func GenerateExcerpt(content string, max int) string {
	plain := tagRe.ReplaceAllString(content, " ")
	plain = entityReplacer.Replace(plain)
	plain = whitespaceRe.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if len(runes) <= max {
		return plain
	}
	cut := string(runes[:max])
	return trailingWordRe.ReplaceAllString(cut, "") + "..."
}
