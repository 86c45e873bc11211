package httpclient

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SnakeCase converts a camelCase key to its wire form.
//
// Each uppercase letter starts a new word. A run of uppercase letters is kept
// together as one word, except that its last letter starts the next word when
// a lowercase letter follows it:
//
//	totalValue     -> total_value
//	logoURL        -> logo_url
//	myURLProperty  -> my_url_property
//	institution_id -> institution_id
func SnakeCase(key string) string {
	runes := []rune(key)
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && startsWord(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// startsWord reports whether the uppercase rune at i opens a new word.
func startsWord(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// CamelCase converts a snake_case wire key to its in-memory form. Keys without
// an inner underscore are returned unchanged, so camelCase keys sent by the
// backend pass through. Leading and trailing underscores are preserved.
//
//	subscription_status -> subscriptionStatus
//	refreshToken        -> refreshToken
//	_private_key_       -> _privateKey_
//
// A segment that starts with a digit has no case to mark its boundary, so
// address_2 becomes address2 and SnakeCase leaves address2 as it is. Such
// keys decode fine but are sent back without the underscore.
func CamelCase(key string) string {
	if key == "" {
		return key
	}
	first := strings.IndexFunc(key, func(r rune) bool { return r != '_' })
	if first < 0 {
		return key
	}
	last := strings.LastIndexFunc(key, func(r rune) bool { return r != '_' })
	_, size := utf8.DecodeRuneInString(key[last:])
	core := key[first : last+size]

	parts := strings.FieldsFunc(core, func(r rune) bool { return r == '_' })
	if len(parts) == 1 {
		return key
	}

	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(key[:first])
	b.WriteString(strings.ToLower(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(capitalize(p))
	}
	b.WriteString(key[last+size:])
	return b.String()
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
