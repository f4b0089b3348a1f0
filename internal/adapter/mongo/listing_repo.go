package mongo

import (
	"context"
	"fmt"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// listingFields is the descriptor table of filterable listing fields.
// Anything absent here is silently ignored by BuildMatch.
var listingFields = append([]repository.Field{
	{Name: "id", Kind: repository.KindID},
	{Name: "itemName", Kind: repository.KindString},
	{Name: "userName", Kind: repository.KindString},
	{Name: "email", Kind: repository.KindString},
	{Name: "state", Kind: repository.KindString},
}, repository.AuditFields...)

// ListingRepository serves one listing collection; offers and wanted share
// the shape and differ only by collection name.
type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database, collectionName string) *ListingRepository {
	return &ListingRepository{collection: db.Collection(collectionName)}
}

func (r *ListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	res, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return "", fmt.Errorf("failed to insert listing into %s: %w", r.collection.Name(), err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *ListingRepository) Find(ctx context.Context, criteria repository.Criteria) ([]entity.Listing, error) {
	var listings []entity.Listing
	if err := aggregateMatch(ctx, r.collection, listingFields, criteria, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *ListingRepository) ChangeState(ctx context.Context, ids []string, state entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	return changeItemState(ctx, r.collection, ids, state, actorID)
}

func (r *ListingRepository) DeleteMatching(ctx context.Context, filter repository.PruneFilter) (int64, error) {
	return deleteItemsMatching(ctx, r.collection, filter)
}
