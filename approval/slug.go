// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/worldstaffingawards/wsa2026/store"
)

const maxSlugBytes = 80

// Letters that carry no combining mark under NFD, so accent stripping
// leaves them alone.
var translit = map[rune]string{
	'ł': "l", 'đ': "d", 'ð': "d", 'ø': "o", 'ħ': "h", 'ı': "i",
	'ŀ': "l", 'þ': "th", 'ß': "ss", 'æ': "ae", 'œ': "oe", '&': "and",

	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh",
	'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya", 'є': "ye", 'і': "i", 'ґ': "g",
}

// foldAccents strips combining marks: "Čapek" becomes "Capek".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify turns a display name into a lowercase, hyphen-separated path
// segment. Latin and Cyrillic names are transliterated to ASCII; letters
// from other scripts are kept as they are. Returns "nominee" when nothing
// usable is left.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	write := func(s string) {
		if s == "" {
			return
		}
		if dash && b.Len() > 0 {
			b.WriteByte('-')
		}
		b.WriteString(s)
		dash = false
	}

	for _, r := range strings.ToLower(foldAccents(name)) {
		if f, ok := translit[r]; ok {
			write(f)
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			write(string(r))
			continue
		}
		if r == '\'' || r == '’' {
			continue
		}
		dash = true
	}

	slug := truncate(b.String(), maxSlugBytes)
	if slug == "" {
		return "nominee"
	}
	return slug
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimRight(s[:cut], "-")
}

// uniqueSlug returns base, or base-2, base-3 and so on until one is free.
func uniqueSlug(ctx context.Context, st *store.Store, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		taken, err := st.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}
