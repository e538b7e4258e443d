package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, "boba guys union square", NormalizeName("Boba Guys - Union Square"))
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "gong cha", NormalizeName("  Gong \t Cha  "))
	})

	t.Run("keeps non-latin scripts", func(t *testing.T) {
		assert.Equal(t, "貢茶 gong cha", NormalizeName("貢茶 (Gong Cha)!"))
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Equal(t, "", NormalizeName(""))
		assert.Equal(t, "", NormalizeName("  --  "))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{"Boba Guys - Union Square", "50嵐 (內湖店)", "  KOI Thé  ", ""}
		for _, input := range inputs {
			once := NormalizeName(input)
			assert.Equal(t, once, NormalizeName(once))
		}
	})
}

func TestScorer_TokenSetRatio(t *testing.T) {
	scorer := NewScorer()

	t.Run("token subset scores 100", func(t *testing.T) {
		assert.Equal(t, 100, scorer.TokenSetRatio("Boba Guys - Union Square", "Boba Guys"))
		assert.Equal(t, 100, scorer.TokenSetRatio("Gong Cha SF Downtown", "Gong Cha"))
		assert.Equal(t, 100, scorer.TokenSetRatio("Tiger Sugar Taipei", "Tiger Sugar"))
	})

	t.Run("identical strings score 100", func(t *testing.T) {
		assert.Equal(t, 100, scorer.TokenSetRatio("Happy Lemon", "Happy Lemon"))
	})

	t.Run("empty input scores 0", func(t *testing.T) {
		assert.Equal(t, 0, scorer.TokenSetRatio("", "Boba Guys"))
		assert.Equal(t, 0, scorer.TokenSetRatio("Boba Guys", ""))
		assert.Equal(t, 0, scorer.TokenSetRatio("", ""))
		assert.Equal(t, 0, scorer.TokenSetRatio("--", "Boba Guys"))
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"Boba Guys", "Bobba Guyz Cafe"},
			{"The Alley", "The Alleyway Diner"},
			{"Sharetea", "Share Tea"},
			{"貢茶", "Gong Cha"},
		}
		for _, pair := range pairs {
			assert.Equal(t, scorer.TokenSetRatio(pair[0], pair[1]), scorer.TokenSetRatio(pair[1], pair[0]))
		}
	})

	t.Run("near-miss spellings stay low", func(t *testing.T) {
		assert.Equal(t, 53, scorer.TokenSetRatio("Bobba Guyz Cafe", "Boba Guys"))
		assert.Equal(t, 50, scorer.TokenSetRatio("The Alleyway Diner", "The Alley"))
	})

	t.Run("close spellings score high", func(t *testing.T) {
		assert.Equal(t, 89, scorer.TokenSetRatio("Share Tea", "Sharetea"))
	})

	t.Run("shared generic tokens are not enough", func(t *testing.T) {
		assert.Equal(t, 38, scorer.TokenSetRatio("Bubble Tea House", "Milk Tea Bar"))
	})
}
