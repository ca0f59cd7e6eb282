package analytics

import (
	"sort"
	"strings"

	"github.com/guttosm/nfsindex/internal/domain/models"
)

// FilterByTrim returns the listings whose trim matches trim, ignoring case and
// surrounding whitespace. An empty trim returns listings unchanged. Listings
// without a trim never match a non-empty filter.
func FilterByTrim(listings []models.Listing, trim string) []models.Listing {
	want := normalizeTrim(trim)
	if want == "" {
		return listings
	}
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Trim != nil && normalizeTrim(*l.Trim) == want {
			out = append(out, l)
		}
	}
	return out
}

// Trims returns the distinct non-empty trims present in listings, sorted.
// Spellings that differ only in case collapse to the lexically smallest one.
func Trims(listings []models.Listing) []string {
	seen := make(map[string]string)
	for _, l := range listings {
		if l.Trim == nil {
			continue
		}
		key := normalizeTrim(*l.Trim)
		if key == "" {
			continue
		}
		spelling := strings.TrimSpace(*l.Trim)
		if cur, ok := seen[key]; !ok || spelling < cur {
			seen[key] = spelling
		}
	}
	out := make([]string, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func normalizeTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
