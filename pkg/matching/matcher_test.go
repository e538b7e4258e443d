package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/matcha/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestMatcher_Confidence(t *testing.T) {
	matcher := NewMatcher(DefaultAliasRegistry(), DefaultConfig())

	t.Run("empty inputs score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, matcher.ConfidenceWithAliases("", "Boba Guys", "", nil))
		assert.Equal(t, 0.0, matcher.ConfidenceWithAliases("Boba Guys - Union Square", "", "", nil))
		assert.Equal(t, 0.0, matcher.ConfidenceWithAliases("", "", "", nil))
	})

	t.Run("canonical containment is case insensitive", func(t *testing.T) {
		assert.Equal(t, 1.0, matcher.Confidence("Boba Guys - Union Square", models.Brand{Name: "Boba Guys"}))
		assert.Equal(t, 1.0, matcher.Confidence("BOBA GUYS union square", models.Brand{Name: "boba guys"}))
	})

	t.Run("localized name matches script-literal", func(t *testing.T) {
		brand := models.Brand{Name: "Gong Cha", NameZH: strPtr("貢茶")}
		assert.Equal(t, 1.0, matcher.Confidence("Gong Cha SF Downtown", brand))
		assert.Equal(t, 1.0, matcher.Confidence("貢茶 信義店", brand))
	})

	t.Run("alias containment via registry", func(t *testing.T) {
		// "50 Lan" comes from the registry entry for 50嵐
		assert.Equal(t, 1.0, matcher.Confidence("50 Lan Teahouse", models.Brand{Name: "50嵐"}))
	})

	t.Run("explicit aliases override the registry", func(t *testing.T) {
		aliases := []string{"50 Lan", "50嵐", "五十嵐"}
		assert.Equal(t, 1.0, matcher.ConfidenceWithAliases("50 Lan Teahouse", "50嵐", "", aliases))

		// an explicit empty list disables alias matching entirely
		assert.Equal(t, 0.0, matcher.ConfidenceWithAliases("50 Lan Teahouse", "50嵐", "", []string{}))
	})

	t.Run("typo below threshold does not match", func(t *testing.T) {
		// token-set score is 53, well under the 85 threshold
		assert.Equal(t, 0.0, matcher.Confidence("Bobba Guyz Cafe", models.Brand{Name: "Boba Guys"}))
	})

	t.Run("fuzzy hit above threshold scales to confidence", func(t *testing.T) {
		// aliases disabled so the fuzzy branch is the one deciding
		confidence := matcher.ConfidenceWithAliases("Share Tea", "Sharetea", "", []string{})
		assert.InDelta(t, 0.89, confidence, 0.001)
	})

	t.Run("the alleyway diner hits canonical containment", func(t *testing.T) {
		// "the alley" is a literal substring of "the alleyway diner", so
		// containment fires at 1.0 before the fuzzy branch (which would have
		// scored 50 and rejected). Known false-positive shape; pinned here so
		// any change to the decision order shows up.
		assert.Equal(t, 1.0, matcher.Confidence("The Alleyway Diner", models.Brand{Name: "The Alley"}))
		assert.Equal(t, 50, NewScorer().TokenSetRatio("The Alleyway Diner", "The Alley"))
	})

	t.Run("unrelated brand scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, matcher.Confidence("Boba Guys - Union Square", models.Brand{Name: "The Alley"}))
	})
}

type countingScorer struct {
	calls   int
	results []float64
}

func (c *countingScorer) Confidence(shopName string, brand models.Brand) float64 {
	result := c.results[c.calls]
	c.calls++
	return result
}

func TestBestMatch(t *testing.T) {
	brands := []models.Brand{
		{ID: "1", Name: "Kung Fu Tea"},
		{ID: "2", Name: "Gong Cha"},
		{ID: "3", Name: "Tiger Sugar"},
	}

	t.Run("empty candidate list", func(t *testing.T) {
		matcher := NewMatcher(DefaultAliasRegistry(), DefaultConfig())
		brand, confidence := matcher.Best("Gong Cha SF", nil)
		assert.Nil(t, brand)
		assert.Equal(t, 0.0, confidence)
	})

	t.Run("no candidate above zero", func(t *testing.T) {
		scorer := &countingScorer{results: []float64{0, 0, 0}}
		brand, confidence := BestMatch(scorer, "Totally Unrelated", brands)
		assert.Nil(t, brand)
		assert.Equal(t, 0.0, confidence)
		assert.Equal(t, 3, scorer.calls)
	})

	t.Run("keeps the highest confidence seen", func(t *testing.T) {
		scorer := &countingScorer{results: []float64{0.85, 0.92, 0.9}}
		brand, confidence := BestMatch(scorer, "shop", brands)
		require.NotNil(t, brand)
		assert.Equal(t, "2", brand.ID)
		assert.Equal(t, 0.92, confidence)
	})

	t.Run("first seen wins a tie", func(t *testing.T) {
		scorer := &countingScorer{results: []float64{0.9, 0.9, 0.9}}
		brand, _ := BestMatch(scorer, "shop", brands)
		require.NotNil(t, brand)
		assert.Equal(t, "1", brand.ID)
	})

	t.Run("short-circuits on a perfect match", func(t *testing.T) {
		scorer := &countingScorer{results: []float64{1.0, 0.5, 0.5}}
		brand, confidence := BestMatch(scorer, "shop", brands)
		require.NotNil(t, brand)
		assert.Equal(t, "1", brand.ID)
		assert.Equal(t, 1.0, confidence)
		assert.Equal(t, 1, scorer.calls)
	})

	t.Run("end to end against the real matcher", func(t *testing.T) {
		matcher := NewMatcher(DefaultAliasRegistry(), DefaultConfig())
		brand, confidence := matcher.Best("Tiger Sugar - Chinatown", brands)
		require.NotNil(t, brand)
		assert.Equal(t, "Tiger Sugar", brand.Name)
		assert.Equal(t, 1.0, confidence)
	})
}
