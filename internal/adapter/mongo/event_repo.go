package mongo

import (
	"context"
	"fmt"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var eventFields = append([]repository.Field{
	{Name: "id", Kind: repository.KindID},
	{Name: "eventName", Kind: repository.KindString},
	{Name: "contactInfo", Kind: repository.KindString},
	{Name: "email", Kind: repository.KindString},
	{Name: "state", Kind: repository.KindString},
}, repository.AuditFields...)

type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{collection: db.Collection(CollectionEvents)}
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (string, error) {
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *EventRepository) Find(ctx context.Context, criteria repository.Criteria) ([]entity.Event, error) {
	var events []entity.Event
	if err := aggregateMatch(ctx, r.collection, eventFields, criteria, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ChangeState(ctx context.Context, ids []string, state entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	return changeItemState(ctx, r.collection, ids, state, actorID)
}

func (r *EventRepository) DeleteMatching(ctx context.Context, filter repository.PruneFilter) (int64, error) {
	return deleteItemsMatching(ctx, r.collection, filter)
}
