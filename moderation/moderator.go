// Package moderation masks blocklisted terms in outgoing message text.
package moderation

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

//go:embed blocklist.txt
var blocklistFile []byte

// Moderator runs an Aho-Corasick automaton over a normalized view of the
// text and masks every match in the original, preserving length and spacing.
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the automaton from the given terms. Terms are
// normalized the same way as input text so that spacing, punctuation and
// common leet substitutions cannot defeat the blocklist.
func NewModerator(terms []string, mask rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(terms))
	for _, term := range terms {
		if normalized := normalize([]rune(term)); len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, mask: mask}, nil
}

// Default builds a moderator from the embedded blocklist.
func Default(mask rune) (*Moderator, error) {
	var terms []string
	scanner := bufio.NewScanner(bytes.NewReader(blocklistFile))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewModerator(terms, mask)
}

// Censor returns text with every blocklisted span replaced by the mask rune.
// Clean text is returned unchanged, without allocation.
func (m *Moderator) Censor(text string) string {
	origRunes := []rune(text)
	searchable, origIdx := normalizeWithIndex(origRunes)
	if len(searchable) == 0 {
		return text
	}

	spans := m.matcher.MultiPatternSearch(searchable, false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Map normalized positions back to the original rune range.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.mask
		}
	}
	return string(origRunes)
}

// normalizeWithIndex produces the searchable form of the text plus, for each
// searchable rune, the index of the rune it came from.
func normalizeWithIndex(origRunes []rune) ([]rune, []int) {
	searchable := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))
	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		searchable = append(searchable, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return searchable, origIdx
}

func normalize(input []rune) []rune {
	out, _ := normalizeWithIndex(input)
	return out
}

// simplifyRune maps common leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
