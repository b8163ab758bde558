package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

// MessageRepository implements ports.MessageRepository using MongoDB.
type MessageRepository struct {
	col *mongo.Collection
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

var _ ports.MessageRepository = (*MessageRepository)(nil)

type messageDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ContactRequestID string             `bson:"contact_request_id"`
	SenderID         string             `bson:"sender_id"`
	SenderName       string             `bson:"sender_name"`
	SenderRole       string             `bson:"sender_role"`
	Message          string             `bson:"message"`
	CreatedAt        time.Time          `bson:"created_at"`
	ReadAt           *time.Time         `bson:"read_at,omitempty"`
}

// Create appends a message to its thread.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, messageDoc{
		ContactRequestID: m.ContactRequestID,
		SenderID:         m.SenderID,
		SenderName:       m.SenderName,
		SenderRole:       string(m.SenderRole),
		Message:          m.Text,
		CreatedAt:        m.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// ListByContactRequest returns the thread oldest first. ObjectIDs break ties
// between messages stored within the same millisecond.
func (r *MessageRepository) ListByContactRequest(ctx context.Context, contactRequestID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"contact_request_id": contactRequestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Message{}
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msg := &domain.Message{
			ID:               doc.ID.Hex(),
			ContactRequestID: doc.ContactRequestID,
			SenderID:         doc.SenderID,
			SenderName:       doc.SenderName,
			SenderRole:       domain.Role(doc.SenderRole),
			Text:             doc.Message,
			CreatedAt:        doc.CreatedAt.UTC(),
			ReadAt:           doc.ReadAt,
		}
		out = append(out, msg)
	}
	return out, cur.Err()
}

// MarkRead sets read_at on a single message.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	oid, err := objectID(id, domain.ErrMessageNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"read_at": at.UTC()}})
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
