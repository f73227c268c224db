package chatstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
	"go.uber.org/zap"
)

// MessageRepository implements community.MessageRepository on Badger.
//
// Keys have the form "msg:{community_id}:{unix_nano, 19 digits}:{message_id}",
// so a prefix scan over one storefront yields its messages in time order and
// two messages in the same nanosecond keep distinct keys.
type MessageRepository struct {
	db     *badger.DB
	logger *zap.Logger
}

// NewMessageRepository creates a new Badger-backed message repository
func NewMessageRepository(db *badger.DB, logger *zap.Logger) *MessageRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageRepository{db: db, logger: logger}
}

type storedMessage struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Content     string    `json:"content"`
	CreatedAt   int64     `json:"created_at"`
}

// Append stores a message
func (r *MessageRepository) Append(ctx context.Context, msg *community.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(storedMessage{
		ID:          msg.ID,
		CommunityID: msg.CommunityID,
		AuthorID:    msg.AuthorID,
		Content:     msg.Content,
		CreatedAt:   msg.CreatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(msg), value)
	})
}

// ListByCommunity returns up to limit most recent messages, oldest first.
// A non-positive limit returns the whole history.
func (r *MessageRepository) ListByCommunity(ctx context.Context, communityID uuid.UUID, limit int) ([]*community.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := communityPrefix(communityID)
	messages := make([]*community.Message, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Newest first; 0xff sorts after every digit
		for it.Seek(append(slices.Clone(prefix), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			var stored storedMessage
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &stored)
			}); err != nil {
				return fmt.Errorf("failed to decode message %s: %w", it.Item().Key(), err)
			}
			messages = append(messages, stored.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(messages)
	return messages, nil
}

// Last returns the most recent message, or nil when the storefront has none
func (r *MessageRepository) Last(ctx context.Context, communityID uuid.UUID) (*community.Message, error) {
	messages, err := r.ListByCommunity(ctx, communityID, 1)
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return messages[0], nil
}

func (s storedMessage) toDomain() *community.Message {
	return &community.Message{
		ID:          s.ID,
		CommunityID: s.CommunityID,
		AuthorID:    s.AuthorID,
		Content:     s.Content,
		CreatedAt:   time.Unix(0, s.CreatedAt).UTC(),
	}
}

func communityPrefix(communityID uuid.UUID) []byte {
	return []byte("msg:" + communityID.String() + ":")
}

func messageKey(msg *community.Message) []byte {
	return fmt.Appendf(communityPrefix(msg.CommunityID), "%019d:%s", msg.CreatedAt.UnixNano(), msg.ID)
}

var _ community.MessageRepository = (*MessageRepository)(nil)
