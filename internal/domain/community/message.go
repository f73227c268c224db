package community

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// MaxMessageLength bounds a chat line in runes
const MaxMessageLength = 2000

// Message is an append-only chat line scoped to a storefront
type Message struct {
	ID          uuid.UUID
	CommunityID uuid.UUID
	AuthorID    uuid.UUID
	Content     string
	CreatedAt   time.Time
}

// NewMessage validates and creates a message
func NewMessage(communityID, authorID uuid.UUID, content string) (*Message, error) {
	if communityID == uuid.Nil || authorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Community and author IDs are required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message content cannot exceed 2000 characters")
	}
	return &Message{
		ID:          uuid.New(),
		CommunityID: communityID,
		AuthorID:    authorID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// MessageRepository stores message history per storefront
type MessageRepository interface {
	Append(ctx context.Context, msg *Message) error

	// ListByCommunity returns up to limit most recent messages, oldest first.
	// limit <= 0 returns the whole history.
	ListByCommunity(ctx context.Context, communityID uuid.UUID, limit int) ([]*Message, error)

	// Last returns the most recent message, or nil when the storefront has none
	Last(ctx context.Context, communityID uuid.UUID) (*Message, error)
}
