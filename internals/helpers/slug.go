package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-], strips diacritics and caps the length
// (default 100). Empty input yields "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// EnsureUniqueSlug appends -2, -3, ... until table.column has no live match.
func EnsureUniqueSlug(ctx context.Context, db *gorm.DB, table, column, deletedColumn, base string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = 100
	}
	slug := base
	for i := 2; i < 100; i++ {
		var n int64
		q := db.WithContext(ctx).Table(table).Where(column+" = ?", slug)
		if deletedColumn != "" {
			q = q.Where(deletedColumn + " IS NULL")
		}
		if err := q.Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > maxLen {
			trimmed = strings.Trim(trimmed[:maxLen-len(suffix)], "-")
		}
		slug = trimmed + suffix
	}
	return "", fmt.Errorf("could not find a free slug for %q", base)
}
