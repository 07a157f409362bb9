// Package matcher pairs source products with platform products by SKU.
// It is pure: no I/O, deterministic for a given input snapshot.
package matcher

import (
	"strings"

	"pricesync/internal/platforms"
	"pricesync/internal/streetpricer"
)

// MatchedPair links a source product to the platform unit carrying the
// same SKU. Confidence is 1.0 for exact SKU matches; the field exists so
// fuzzy strategies can be added without changing the result shape.
type MatchedPair struct {
	Source     streetpricer.SourceProduct
	Platform   platforms.PlatformProduct
	Confidence float64
}

type Result struct {
	Matched  []MatchedPair
	Unlisted []streetpricer.SourceProduct
}

// MatchProducts pairs catalogues by SKU equality, case-insensitive and
// trimmed. Source products without a platform counterpart land in
// Unlisted. If the platform reports the same SKU twice the first
// occurrence wins; later ones are ignored. Known limitation: duplicate
// platform SKUs therefore never produce two pairs.
func MatchProducts(sourceProducts []streetpricer.SourceProduct, platformProducts []platforms.PlatformProduct) Result {
	bySKU := make(map[string]platforms.PlatformProduct, len(platformProducts))
	for _, p := range platformProducts {
		key := normalizeSKU(p.SKU)
		if key == "" {
			continue
		}
		if _, seen := bySKU[key]; seen {
			continue
		}
		bySKU[key] = p
	}

	var result Result
	for _, s := range sourceProducts {
		key := normalizeSKU(s.SKU)
		p, ok := bySKU[key]
		if key == "" || !ok {
			result.Unlisted = append(result.Unlisted, s)
			continue
		}
		result.Matched = append(result.Matched, MatchedPair{
			Source:     s,
			Platform:   p,
			Confidence: 1.0,
		})
	}

	return result
}

func normalizeSKU(sku string) string {
	return strings.ToLower(strings.TrimSpace(sku))
}
