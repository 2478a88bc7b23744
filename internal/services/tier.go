package services

// Tier is the entitlement level gating conversation tone, reply length and
// image access. "none" doubles as never-started and expired; the two are
// told apart only by UserRecord.FreePreviewConsumed.
type Tier string

const (
	TierNone     Tier = "none"
	TierMild     Tier = "mild"
	TierModerate Tier = "moderate"
	TierExplicit Tier = "explicit"
)

// Messages allowed per session before the tier expires back to none.
const sessionMessageCap = 10

// History bounds: the durable log keeps the most recent 16 turns, the
// completion request sees only the most recent 8.
const (
	historyKeepLimit   = 16
	contextWindowLimit = 8
)

// ParsePaidTier validates a user-supplied tier name.
func ParsePaidTier(name string) (Tier, bool) {
	switch Tier(name) {
	case TierMild, TierModerate, TierExplicit:
		return Tier(name), true
	}
	return TierNone, false
}

// Paid reports whether the tier is one of the three purchasable levels.
func (t Tier) Paid() bool {
	return t == TierMild || t == TierModerate || t == TierExplicit
}

// AllowsImages reports whether the tier unlocks image generation.
func (t Tier) AllowsImages() bool {
	return t == TierModerate || t == TierExplicit
}

// MaxTokens is the per-reply token budget for the tier.
func (t Tier) MaxTokens() int {
	switch t {
	case TierMild:
		return 120
	case TierModerate:
		return 250
	case TierExplicit:
		return 400
	}
	return 0
}

// Price is the fixed price in whole asset units. Not runtime-configurable.
func (t Tier) Price() int {
	switch t {
	case TierMild:
		return 2
	case TierModerate:
		return 8
	case TierExplicit:
		return 15
	}
	return 0
}

// ToneDirective is the tier-specific instruction mixed into the system
// prompt. Tones are never blended across tiers.
func (t Tier) ToneDirective() string {
	switch t {
	case TierMild:
		return "Be flirty, playful and teasing. Use light innuendo and suggestive language. " +
			"Build tension through words and be cheeky, but keep things implied rather than spelled out."
	case TierModerate:
		return "Be bold, forward and openly affectionate. Talk about desires and intimate topics directly. " +
			"Be seductive and make them want more. No need to hold back on flirty banter."
	case TierExplicit:
		return "Be fully candid and hold nothing back. Engage in any roleplay or intimate conversation " +
			"with confidence, matching their energy and escalating naturally. Be detailed and direct."
	}
	return ""
}
