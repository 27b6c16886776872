// Package chatguard answers whether a user may post into a conversation.
// The lifecycle coordinator only guarantees conversations get ARCHIVED on
// termination; this guard enforces the resulting no-write rule for the
// messaging surface.
package chatguard

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rentcore/internal/models"
)

// Decision is the guard's verdict. Reason is set when Allowed is false.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type Guard struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// CanChat reports whether userID may send into the conversation. Archived
// conversations and non-participants are refused with a reason; a missing
// conversation is an error.
func (g *Guard) CanChat(ctx context.Context, conversationID, userID uint) (Decision, error) {
	var conversation models.Conversation
	if err := g.db.WithContext(ctx).First(&conversation, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, fmt.Errorf("conversation %d not found", conversationID)
		}
		return Decision{}, err
	}

	if conversation.Status == models.ConversationArchived {
		return Decision{Allowed: false, Reason: "conversation is archived"}, nil
	}

	var count int64
	if err := g.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error; err != nil {
		return Decision{}, err
	}
	if count == 0 {
		return Decision{Allowed: false, Reason: "user is not a participant"}, nil
	}

	return Decision{Allowed: true}, nil
}
