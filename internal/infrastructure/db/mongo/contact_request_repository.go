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

type ContactRequestRepository struct {
	col *mongo.Collection
}

func NewContactRequestRepository(db *mongo.Database) *ContactRequestRepository {
	return &ContactRequestRepository{col: db.Collection(collectionContactRequests)}
}

var _ ports.ContactRequestRepository = (*ContactRequestRepository)(nil)

type contactRequestDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ClientID     string             `bson:"client_id"`
	ClientName   string             `bson:"client_name"`
	ProviderID   string             `bson:"provider_id"`
	ProviderName string             `bson:"provider_name"`
	Message      string             `bson:"message"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	ApprovedAt   *time.Time         `bson:"approved_at"`
}

func (d *contactRequestDoc) toDomain() *domain.ContactRequest {
	r := &domain.ContactRequest{
		ID:           d.ID.Hex(),
		ClientID:     d.ClientID,
		ClientName:   d.ClientName,
		ProviderID:   d.ProviderID,
		ProviderName: d.ProviderName,
		Message:      d.Message,
		Status:       domain.RequestStatus(d.Status),
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.ApprovedAt != nil {
		t := d.ApprovedAt.UTC()
		r.ApprovedAt = &t
	}
	return r
}

// Create inserts a new contact request and assigns its id.
func (r *ContactRequestRepository) Create(ctx context.Context, req *domain.ContactRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := contactRequestDoc{
		ClientID:     req.ClientID,
		ClientName:   req.ClientName,
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		Message:      req.Message,
		Status:       string(req.Status),
		CreatedAt:    req.CreatedAt.UTC(),
		ApprovedAt:   req.ApprovedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert contact request: %w", err)
	}
	req.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ContactRequestRepository) FindByID(ctx context.Context, id string) (*domain.ContactRequest, error) {
	oid, err := objectID(id, domain.ErrContactRequestNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc contactRequestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrContactRequestNotFound
		}
		return nil, fmt.Errorf("find contact request: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching requests ordered descending on the filter's sort field.
func (r *ContactRequestRepository) List(ctx context.Context, f ports.ContactRequestFilter) ([]*domain.ContactRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.ProviderID != "" {
		filter["provider_id"] = f.ProviderID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = ports.SortByCreatedAt
	}
	opts := options.Find().SetSort(bson.D{{Key: string(sortBy), Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.ContactRequest{}
	for cur.Next(ctx) {
		var doc contactRequestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode contact request: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

// UpdateStatus writes status and approved_at. A nil approvedAt stores null.
func (r *ContactRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, approvedAt *time.Time) error {
	oid, err := objectID(id, domain.ErrContactRequestNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var approved interface{}
	if approvedAt != nil {
		approved = approvedAt.UTC()
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":      string(status),
		"approved_at": approved,
	}})
	if err != nil {
		return fmt.Errorf("update contact request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContactRequestNotFound
	}
	return nil
}
