package blog

import (
	"regexp"
	"strings"
	"testing"
)

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestGenerateSlugURLSafe(t *testing.T) {
	titles := []string{
		"Hello, World!",
		"  Leading and trailing  ",
		"under_scores and-hyphens",
		"MiXeD CaSe TiTlE",
		"numbers 123 too",
		"répétition of accents", // non-word runes dropped, not transliterated
	}
	for _, title := range titles {
		slug := GenerateSlug(title)
		if slug == "" {
			t.Errorf("GenerateSlug(%q) returned empty slug", title)
		}
		if !slugRe.MatchString(slug) {
			t.Errorf("GenerateSlug(%q) = %q, not URL-safe", title, slug)
		}
	}
}

func TestGenerateSlugBase(t *testing.T) {
	tests := []struct {
		title string
		base  string
	}{
		{"Hello, World!", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"snake_case_title", "snake-case-title"},
		{"--- dashes ---", "dashes"},
	}
	for _, tt := range tests {
		slug := GenerateSlug(tt.title)
		want := tt.base + "-"
		if !strings.HasPrefix(slug, want) {
			t.Errorf("GenerateSlug(%q) = %q, want prefix %q", tt.title, slug, want)
		}
		suffix := strings.TrimPrefix(slug, want)
		if !regexp.MustCompile(`^[0-9a-f]{4}$`).MatchString(suffix) {
			t.Errorf("GenerateSlug(%q) suffix = %q, want 4 hex chars", tt.title, suffix)
		}
	}
}

func TestGenerateSlugEmptyBase(t *testing.T) {
	// A title with no usable characters must not panic; the slug is just
	// the hyphen-joined suffix.
	slug := GenerateSlug("!!! ??? ...")
	if !regexp.MustCompile(`^-[0-9a-f]{4}$`).MatchString(slug) {
		t.Errorf("GenerateSlug on empty base = %q, want -xxxx", slug)
	}
}

func TestGenerateSlugDistinct(t *testing.T) {
	a := GenerateSlug("Same Title")
	b := GenerateSlug("Same Title")
	if a == b {
		t.Errorf("two slugs for the same title collided: %q", a)
	}
}

func TestGenerateExcerptShortContent(t *testing.T) {
	got := GenerateExcerpt("<p>Hello <strong>there</strong></p>", ExcerptLength)
	if got != "Hello there" {
		t.Errorf("GenerateExcerpt = %q, want %q", got, "Hello there")
	}
}

func TestGenerateExcerptEntities(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a&nbsp;b", "a b"},
		{"fish &amp; chips", "fish & chips"},
		{"1 &lt; 2 &gt; 0", "1 < 2 > 0"},
		{"say &quot;hi&quot;", `say "hi"`},
		{"it&#39;s fine", "it's fine"},
	}
	for _, tt := range tests {
		got := GenerateExcerpt(tt.input, ExcerptLength)
		if got != tt.expected {
			t.Errorf("GenerateExcerpt(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGenerateExcerptCollapsesWhitespace(t *testing.T) {
	got := GenerateExcerpt("<p>one</p>\n\n<p>two   three</p>", ExcerptLength)
	if got != "one two three" {
		t.Errorf("GenerateExcerpt = %q, want %q", got, "one two three")
	}
}

func TestGenerateExcerptTruncatesOnWordBoundary(t *testing.T) {
	content := "<p>" + strings.Repeat("lorem ipsum dolor sit amet ", 20) + "</p>"
	got := GenerateExcerpt(content, ExcerptLength)

	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated excerpt %q does not end with ellipsis", got)
	}
	if len([]rune(got)) > ExcerptLength+3 {
		t.Errorf("excerpt length %d exceeds %d", len([]rune(got)), ExcerptLength+3)
	}
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("excerpt %q contains markup", got)
	}

	body := strings.TrimSuffix(got, "...")
	if strings.HasSuffix(body, " ") {
		t.Errorf("excerpt %q has dangling whitespace before ellipsis", got)
	}
	words := strings.Fields(body)
	last := words[len(words)-1]
	switch last {
	case "lorem", "ipsum", "dolor", "sit", "amet":
	default:
		t.Errorf("excerpt ends mid-word: %q", last)
	}
}

func TestGenerateExcerptExactFit(t *testing.T) {
	content := strings.Repeat("a", ExcerptLength)
	got := GenerateExcerpt(content, ExcerptLength)
	if got != content {
		t.Errorf("content exactly at the cap should pass through untouched")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("GenerateID returned empty string")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("GenerateID produced duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}
