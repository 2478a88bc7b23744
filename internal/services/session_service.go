package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"amora_go_backend/internal/keylock"
	"amora_go_backend/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const completionTemperature = 0.85

// ErrImageLocked marks an image request from a tier without image access.
var ErrImageLocked = errors.New("image generation is locked for the current tier")

// Introduction phrases that trigger the display-name scan. Substring match,
// approximate by design: a capitalized sentence starter after "im" will
// happily be adopted as a name. The value is only ever used in prompt copy.
var introPhrases = []string{"i'm", "im", "my name is", "call me"}

var styleRules = "IMPORTANT RULES:\n" +
	"- Text like a real girlfriend would - casual, natural, authentic\n" +
	"- Use varied sentence lengths. Mix short and long. Keep it conversational.\n" +
	"- Show personality and emotion. React genuinely to what they say.\n" +
	"- Ask questions to keep conversation flowing but don't overdo it\n" +
	"- Use emojis naturally but sparingly (1-3 per message max)\n" +
	"- Remember context from earlier in conversation\n" +
	"- Be spontaneous - don't follow a formula\n" +
	"- Don't be repetitive. Vary your responses and reactions.\n" +
	"- Match their vibe - if they're brief, be brief. If detailed, engage more."

// SessionService is the policy layer: it decides tier transitions, applies
// the free-preview-once rule, enforces the per-session message cap, builds
// the system instruction and maintains the bounded history.
//
// Per-user state goes through a keyed lock so that duplicate deliveries for
// the same user cannot race the read-modify-write, while different users
// stay fully concurrent. The completion call itself runs with no lock held:
// state is snapshotted, the provider is called, and the result is committed
// in a second short critical section.
type SessionService struct {
	users      UserStore
	completion CompletionProvider
	images     ImageGenerator
	locks      *keylock.KeyLock
	notifier   TierNotifier
	log        zerolog.Logger
}

// NewSessionService wires the policy layer. The keyed lock is shared with
// the payment workflow so a confirm cannot race a turn's commit for the
// same user.
func NewSessionService(users UserStore, completion CompletionProvider, images ImageGenerator, notifier TierNotifier, locks *keylock.KeyLock, log zerolog.Logger) *SessionService {
	return &SessionService{
		users:      users,
		completion: completion,
		images:     images,
		locks:      locks,
		notifier:   notifier,
		log:        log,
	}
}

// HandleTurn runs one chat turn. The returned string is always safe to
// relay to the user: replies, upsells and provider apologies all come back
// as text. The error is non-nil only for persistence faults.
func (s *SessionService) HandleTurn(ctx context.Context, userID, message string) (string, error) {
	s.locks.Lock(userID)

	record, err := s.users.GetByUserID(userID)
	if err != nil {
		s.locks.Unlock(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return noProfileReply, nil
		}
		return "", err
	}
	if record.Profile == "" {
		s.locks.Unlock(userID)
		return noProfileReply, nil
	}

	tier := Tier(record.Tier)
	mutated := false

	if tier == TierNone {
		if record.FreePreviewConsumed {
			// Never-started and expired collapse into the same upsell.
			s.locks.Unlock(userID)
			return pickReply(upsellTeases), nil
		}
		tier = TierMild
		record.Tier = string(TierMild)
		record.MessageCount = 0
		record.FreePreviewConsumed = true
		mutated = true
		s.log.Info().Str("userID", userID).Msg("Free preview started")
	}

	if record.DisplayName == "" {
		if name := extractDisplayName(message); name != "" {
			record.DisplayName = name
			mutated = true
		}
	}

	system := buildSystemInstruction(record, tier)
	visible := visibleWindow(record.Turns())

	if mutated {
		if err := s.users.Save(record); err != nil {
			s.locks.Unlock(userID)
			return "", err
		}
	}
	s.locks.Unlock(userID)

	request := append(visible, models.ChatTurn{Role: "user", Text: message})
	reply, err := s.completion.Complete(ctx, system, request, tier.MaxTokens(), completionTemperature)
	if err != nil {
		var failure *CompletionFailure
		if errors.As(err, &failure) {
			// Failed turns leave history and count untouched.
			return failure.Message, nil
		}
		return "", err
	}

	return s.commitTurn(userID, message, reply)
}

// commitTurn re-reads the record and applies the turn: history append,
// 16-entry truncation, count increment, and the cap-triggered downgrade.
func (s *SessionService) commitTurn(userID, message, reply string) (string, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	record, err := s.users.GetByUserID(userID)
	if err != nil {
		return "", err
	}

	// A duplicate delivery may have expired the session between the
	// snapshot and this commit. The count stays zero while the tier is
	// none: deliver the reply with the expiry note and leave the record
	// untouched.
	if Tier(record.Tier) == TierNone {
		return reply + pickReply(expirySuffixes), nil
	}

	turns := append(record.Turns(),
		models.ChatTurn{Role: "user", Text: message},
		models.ChatTurn{Role: "assistant", Text: reply},
	)
	if len(turns) > historyKeepLimit {
		turns = turns[len(turns)-historyKeepLimit:]
	}
	record.SetTurns(turns)
	record.MessageCount++

	expired := record.MessageCount >= sessionMessageCap
	if expired {
		record.Tier = string(TierNone)
		record.MessageCount = 0
	}

	if err := s.users.Save(record); err != nil {
		return "", err
	}

	if expired {
		s.log.Info().Str("userID", userID).Msg("Session message cap reached, tier expired")
		s.notifier.Publish("tier_update_"+userID, string(TierNone))
		return reply + pickReply(expirySuffixes), nil
	}
	return reply, nil
}

// HandleImageRequest generates an image for MODERATE and EXPLICIT tiers.
// Returns the image URL and an in-character caption.
func (s *SessionService) HandleImageRequest(ctx context.Context, userID, prompt string) (string, string, error) {
	s.locks.Lock(userID)
	record, err := s.users.GetByUserID(userID)
	s.locks.Unlock(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrImageLocked
		}
		return "", "", err
	}
	if !Tier(record.Tier).AllowsImages() {
		return "", "", ErrImageLocked
	}

	fullPrompt := "beautiful woman, " + record.Profile + " " + prompt +
		", realistic, detailed, high quality, photorealistic, professional photography"

	url, err := s.images.GenerateImage(ctx, fullPrompt)
	if err != nil {
		s.log.Error().Err(err).Str("userID", userID).Msg("Image generation failed")
		return "", "", err
	}
	if url == "" {
		return "", "", nil
	}
	return url, pickReply(imageCaptions), nil
}

func buildSystemInstruction(record *models.UserRecord, tier Tier) string {
	partner := "You're talking to your boyfriend"
	if record.DisplayName != "" {
		partner = "You're talking to " + record.DisplayName
	}

	var b strings.Builder
	b.WriteString(record.Profile)
	b.WriteString("\n\nYour name is ")
	b.WriteString(record.CompanionName)
	b.WriteString(". ")
	b.WriteString(partner)
	b.WriteString(".\n\n")
	b.WriteString(tier.ToneDirective())
	b.WriteString("\n\n")
	b.WriteString(styleRules)
	return b.String()
}

func visibleWindow(turns []models.ChatTurn) []models.ChatTurn {
	if len(turns) > contextWindowLimit {
		return turns[len(turns)-contextWindowLimit:]
	}
	return turns
}

// extractDisplayName applies the best-effort introduction heuristic: on a
// trigger phrase, adopt the first capitalized token longer than two runes.
// It is an enrichment, not a parser.
func extractDisplayName(message string) string {
	lower := strings.ToLower(message)
	triggered := false
	for _, phrase := range introPhrases {
		if strings.Contains(lower, phrase) {
			triggered = true
			break
		}
	}
	if !triggered {
		return ""
	}

	for _, token := range strings.Fields(message) {
		token = strings.Trim(token, ".,!?")
		runes := []rune(token)
		if len(runes) > 2 && unicode.IsUpper(runes[0]) {
			return token
		}
	}
	return ""
}
