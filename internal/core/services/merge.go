package services

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// qualifierTokens are preparation-state words providers append to a
// canonical food name ("Apple, raw"). They do not change which food the
// record describes, so they are left out of the dedup key.
var qualifierTokens = map[string]bool{
	"raw": true,
}

// DedupKey returns the normalized (name, brand) identity used to collapse
// the same food reported by several sources. Both parts are lowercased,
// stripped of diacritics and reduced to their letters and digits.
func DedupKey(f domain.Food) string {
	return normalizeKeyPart(f.Name, true) + "|" + normalizeKeyPart(f.BrandName, false)
}

func normalizeKeyPart(s string, dropQualifiers bool) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, tok := range tokens {
		if dropQualifiers && qualifierTokens[tok] {
			continue
		}
		b.WriteString(tok)
	}
	if b.Len() == 0 {
		// A name made only of qualifiers keeps them.
		return strings.Join(tokens, "")
	}
	return b.String()
}

// mergeResults orders foods by source priority, keeps the first record for
// each dedup key and truncates to limit. Records from the same source keep
// their relative order.
func mergeResults(foods []domain.Food, limit int) []domain.Food {
	ordered := make([]domain.Food, len(foods))
	copy(ordered, foods)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source.Priority() < ordered[j].Source.Priority()
	})

	seen := make(map[string]bool, len(ordered))
	merged := make([]domain.Food, 0, len(ordered))
	for _, f := range ordered {
		key := DedupKey(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, f)
		if limit > 0 && len(merged) == limit {
			break
		}
	}
	return merged
}
