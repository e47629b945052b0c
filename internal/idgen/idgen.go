// Package idgen provides short, URL-safe unique ID generation backed by nanoid,
// and the random-suffixed slugs that address projects in mock URLs.
package idgen

import (
	"fmt"
	"strings"
	"unicode"

	nanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Prefixes for each entity kind.
const (
	ProjectPrefix  = "prj-"
	ResourcePrefix = "res-"
	EndpointPrefix = "ep-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// SlugSuffixLength is the number of random hex characters appended to a slug.
const SlugSuffixLength = 8

const hexAlphabet = "0123456789abcdef"

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// ProjectID returns a new project id.
func ProjectID() (string, error) { return GenerateWithPrefix(ProjectPrefix) }

// ResourceID returns a new resource id.
func ResourceID() (string, error) { return GenerateWithPrefix(ResourcePrefix) }

// EndpointID returns a new endpoint id.
func EndpointID() (string, error) { return GenerateWithPrefix(EndpointPrefix) }

// Slug returns Slugify(name) followed by "-" and SlugSuffixLength random hex
// characters. A name with no usable characters yields just the suffix.
func Slug(name string) (string, error) {
	suffix, err := nanoid.Generate(hexAlphabet, SlugSuffixLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	base := Slugify(name)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// Slugify lower-cases s, strips diacritics and collapses every run of
// characters outside [a-z0-9] into a single "-". Leading and trailing dashes
// are trimmed.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
