package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var subscriptionFields = append([]repository.Field{
	{Name: "id", Kind: repository.KindID},
	{Name: "date", Kind: repository.KindDate},
	{Name: "state", Kind: repository.KindString},
}, repository.AuditFields...)

type SubscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{collection: db.Collection(CollectionSubscriptions)}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) (string, error) {
	res, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return "", fmt.Errorf("failed to insert subscription: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *SubscriptionRepository) Find(ctx context.Context, criteria repository.Criteria) ([]entity.Subscription, error) {
	var subs []entity.Subscription
	if err := aggregateMatch(ctx, r.collection, subscriptionFields, criteria, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) DeleteByState(ctx context.Context, state entity.SubscriptionState) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"state": state})
	if err != nil {
		return 0, fmt.Errorf("failed to delete subscriptions in state %s: %w", state, err)
	}
	return res.DeletedCount, nil
}

func (r *SubscriptionRepository) UpdateState(ctx context.Context, id, actorID string, state entity.SubscriptionState, errMsg string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid subscription id %q: %w", id, repository.ErrNotFound)
	}

	set := bson.M{
		"state":       state,
		"updatedBy":   actorID,
		"updatedDate": time.Now().UTC(),
	}
	if errMsg != "" {
		set["error"] = errMsg
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return repository.ErrNotAcked
	}
	if err != nil {
		return fmt.Errorf("failed to update subscription state: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
