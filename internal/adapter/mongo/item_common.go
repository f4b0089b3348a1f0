package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeItemState bulk-overwrites the state of every item in the id set.
// Missing ids only lower MatchedCount; they are not an error.
func changeItemState(ctx context.Context, collection *mongo.Collection, ids []string, state entity.ItemState, actorID string) (repository.ChangeStateResult, error) {
	result := repository.ChangeStateResult{Requested: int64(len(ids))}
	if len(ids) == 0 {
		return result, nil
	}

	filter := bson.M{"_id": bson.M{"$in": toObjectIDs(ids)}}
	update := bson.M{"$set": bson.M{
		"state":       state,
		"updatedBy":   actorID,
		"updatedDate": time.Now().UTC(),
	}}

	res, err := collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return result, fmt.Errorf("failed to change item state in %s: %w", collection.Name(), err)
	}
	result.Matched = res.MatchedCount
	return result, nil
}

// deleteItemsMatching removes items by id membership or state membership,
// whichever branches of the filter are populated. An empty filter deletes
// nothing.
func deleteItemsMatching(ctx context.Context, collection *mongo.Collection, filter repository.PruneFilter) (int64, error) {
	var branches []bson.M
	if len(filter.IDs) > 0 {
		branches = append(branches, bson.M{"_id": bson.M{"$in": toObjectIDs(filter.IDs)}})
	}
	if len(filter.States) > 0 {
		branches = append(branches, bson.M{"state": bson.M{"$in": filter.States}})
	}
	if len(branches) == 0 {
		return 0, nil
	}

	res, err := collection.DeleteMany(ctx, bson.M{"$or": branches})
	if err != nil {
		return 0, fmt.Errorf("failed to delete items from %s: %w", collection.Name(), err)
	}
	return res.DeletedCount, nil
}

func aggregateMatch(ctx context.Context, collection *mongo.Collection, fields []repository.Field, criteria repository.Criteria, out any) error {
	match, err := BuildMatch(fields, criteria)
	if err != nil {
		return err
	}

	pipeline := append([]bson.M{{"$match": match}}, trimStages()...)
	cursor, err := collection.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s results: %w", collection.Name(), err)
	}
	return nil
}
