package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaidTier(t *testing.T) {
	for _, name := range []string{"mild", "moderate", "explicit"} {
		tier, ok := ParsePaidTier(name)
		assert.True(t, ok, name)
		assert.True(t, tier.Paid())
	}

	for _, name := range []string{"none", "", "MILD", "premium"} {
		_, ok := ParsePaidTier(name)
		assert.False(t, ok, name)
	}
}

func TestTierPolicyTable(t *testing.T) {
	assert.Equal(t, 120, TierMild.MaxTokens())
	assert.Equal(t, 250, TierModerate.MaxTokens())
	assert.Equal(t, 400, TierExplicit.MaxTokens())
	assert.Equal(t, 0, TierNone.MaxTokens())

	assert.Equal(t, 2, TierMild.Price())
	assert.Equal(t, 8, TierModerate.Price())
	assert.Equal(t, 15, TierExplicit.Price())

	assert.False(t, TierMild.AllowsImages())
	assert.True(t, TierModerate.AllowsImages())
	assert.True(t, TierExplicit.AllowsImages())
	assert.False(t, TierNone.AllowsImages())
}

func TestExtractDisplayName(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"i'm Marcus", "Marcus"},
		{"call me Steve!", "Steve"},
		{"my name is ben", ""}, // not capitalized
		{"hello there", ""},    // no trigger phrase
		{"i'm Jo", ""},         // too short
		{"My name is Alexander.", "Alexander"},
		{"The timing is off, Bob", "The"}, // "timing" trips the trigger: approximate on purpose
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, extractDisplayName(tc.message), tc.message)
	}
}
