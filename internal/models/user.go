package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// ChatTurn is one entry of the stored conversation, oldest first.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"content"`
}

// UserRecord is the durable per-user entitlement row. It is created empty on
// the first onboarding entry and mutated for the rest of the user's
// lifetime; it is never deleted. A reset clears the profile fields but keeps
// the row and FreePreviewConsumed.
type UserRecord struct {
	gorm.Model
	UserID              string `gorm:"uniqueIndex;not null"`
	Tier                string `gorm:"default:none"`
	FreePreviewConsumed bool   `gorm:"default:false"`
	Profile             string
	History             []byte `gorm:"default:'[]'"` // JSON-encoded []ChatTurn
	MessageCount        int    `gorm:"default:0"`
	DisplayName         string
	CompanionName       string
}

// Turns decodes the stored history. A corrupt or empty column decodes to an
// empty slice rather than failing the turn.
func (u *UserRecord) Turns() []ChatTurn {
	var turns []ChatTurn
	if len(u.History) == 0 {
		return turns
	}
	if err := json.Unmarshal(u.History, &turns); err != nil {
		return nil
	}
	return turns
}

// SetTurns encodes and stores the history.
func (u *UserRecord) SetTurns(turns []ChatTurn) {
	if turns == nil {
		turns = []ChatTurn{}
	}
	encoded, err := json.Marshal(turns)
	if err != nil {
		encoded = []byte("[]")
	}
	u.History = encoded
}
