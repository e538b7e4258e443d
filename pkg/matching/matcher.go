// Package matching implements brand attribution for shop listings: deciding
// which known tea chain, if any, a raw place name returned by an upstream
// search belongs to. Every function is total over its inputs; malformed or
// empty names score zero, they never error, so a single bad record cannot
// abort a batch import.
package matching

import (
	"strings"

	"github.com/Ramsey-B/matcha/pkg/models"
)

// Config contains tunables for the matcher
type Config struct {
	// FuzzyThreshold is the minimum 0-100 token-set score accepted when no
	// containment check fires. Applied uniformly to targeted and discovery
	// imports.
	FuzzyThreshold int
}

// DefaultConfig returns default matcher configuration
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: 85,
	}
}

// Matcher scores shop names against brands
type Matcher struct {
	registry *AliasRegistry
	scorer   *Scorer
	config   Config
}

// NewMatcher creates a Matcher over the given alias registry
func NewMatcher(registry *AliasRegistry, config Config) *Matcher {
	if registry == nil {
		registry = NewAliasRegistry(nil)
	}
	if config.FuzzyThreshold <= 0 {
		config.FuzzyThreshold = DefaultConfig().FuzzyThreshold
	}
	return &Matcher{
		registry: registry,
		scorer:   NewScorer(),
		config:   config,
	}
}

// Confidence scores how certain we are that shopName belongs to brand,
// in [0.0, 1.0]. 1.0 means an exact, localized or alias containment hit;
// fractional values come from the fuzzy fallback; 0.0 means no match.
func (m *Matcher) Confidence(shopName string, brand models.Brand) float64 {
	var nameZH string
	if brand.NameZH != nil {
		nameZH = *brand.NameZH
	}
	return m.ConfidenceWithAliases(shopName, brand.Name, nameZH, nil)
}

// ConfidenceWithAliases is the full decision procedure. Checks run in order
// and the first hit wins:
//
//  1. empty shop or brand name scores 0.0
//  2. case-folded brand name contained in the case-folded shop name: 1.0
//  3. localized name contained literally in the original shop name: 1.0
//     (non-Latin scripts have no case folding, so this check is script-literal)
//  4. any alias, case-folded, contained in the case-folded shop name: 1.0
//  5. token-set score at or above the fuzzy threshold: score/100, else 0.0
//
// A nil aliases argument falls back to the registry; a non-nil (even empty)
// slice overrides it, so callers with fresher alias data than the compiled
// table can supply their own.
func (m *Matcher) ConfidenceWithAliases(shopName, brandName, brandNameZH string, aliases []string) float64 {
	if shopName == "" || brandName == "" {
		return 0.0
	}

	shopLower := strings.ToLower(shopName)
	brandLower := strings.ToLower(brandName)

	if strings.Contains(shopLower, brandLower) {
		return 1.0
	}

	if brandNameZH != "" && strings.Contains(shopName, brandNameZH) {
		return 1.0
	}

	if aliases == nil {
		aliases = m.registry.AliasesFor(brandName)
	}
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		if strings.Contains(shopLower, strings.ToLower(alias)) {
			return 1.0
		}
	}

	score := m.scorer.TokenSetRatio(brandName, shopName)
	if score >= m.config.FuzzyThreshold {
		return float64(score) / 100.0
	}

	return 0.0
}

// BrandScorer is the matching surface BestMatch needs. Matcher satisfies it.
type BrandScorer interface {
	Confidence(shopName string, brand models.Brand) float64
}

// BestMatch scans candidates in order, keeps the first highest-confidence
// brand, and returns the moment any candidate scores a perfect 1.0 without
// evaluating the rest. An empty candidate list, or one where nothing scores
// above zero, yields (nil, 0.0).
func BestMatch(scorer BrandScorer, shopName string, candidates []models.Brand) (*models.Brand, float64) {
	var best *models.Brand
	bestConfidence := 0.0

	for i := range candidates {
		confidence := scorer.Confidence(shopName, candidates[i])
		if confidence > bestConfidence {
			bestConfidence = confidence
			best = &candidates[i]
			if confidence >= 1.0 {
				return best, bestConfidence
			}
		}
	}

	return best, bestConfidence
}

// Best is BestMatch over this matcher
func (m *Matcher) Best(shopName string, candidates []models.Brand) (*models.Brand, float64) {
	return BestMatch(m, shopName, candidates)
}
