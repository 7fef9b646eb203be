package slugify

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, drop anything
// outside word characters/whitespace/hyphens, collapse separator runs into
// a single hyphen, trim hyphens at the ends.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Oracle reports which record currently owns a slug, if any.
type Oracle func(ctx context.Context, slug string) (ownerID string, found bool, err error)

// Resolve probes the oracle with the base slug and numeric-suffixed
// variants (-1, -2, ...) until it finds one that is free or already owned
// by the record being saved. The probe-then-write gap is not locked; a
// unique index on the slug field is the backstop for concurrent saves.
func Resolve(ctx context.Context, title, selfID string, lookup Oracle) (string, error) {
	base := Slugify(title)
	candidate := base
	for n := 1; ; n++ {
		owner, found, err := lookup(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !found || owner == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
