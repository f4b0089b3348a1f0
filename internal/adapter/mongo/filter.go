package mongo

import (
	"github.com/swapshop/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildMatch translates sparse request criteria into a single $match filter.
// Only fields named in the descriptor table are considered; criteria entries
// without a descriptor never reach the query. Date bounds are exclusive on
// both sides ($lt/$gt), which the dispatcher's eligibility window relies on.
func BuildMatch(fields []repository.Field, criteria repository.Criteria) (bson.M, error) {
	var clauses []bson.M

	for _, field := range fields {
		raw, ok := criteria[field.Name]
		if !ok || raw == nil {
			continue
		}

		target := field.MatchName
		if target == "" {
			target = field.Name
		}
		if field.Name == "id" {
			target = "_id"
		}

		switch field.Kind {
		case repository.KindString:
			values, ok := stringSet(raw)
			if !ok {
				continue
			}
			clauses = append(clauses, bson.M{target: bson.M{"$in": values}})
		case repository.KindBool:
			value, ok := raw.(bool)
			if !ok {
				continue
			}
			clauses = append(clauses, bson.M{target: value})
		case repository.KindID:
			values, ok := stringSet(raw)
			if !ok {
				continue
			}
			clauses = append(clauses, bson.M{target: bson.M{"$in": toObjectIDs(values)}})
		case repository.KindDate:
			rng, ok := raw.(repository.DateRange)
			if !ok {
				continue
			}
			clause, ok := dateClause(target, rng)
			if !ok {
				continue
			}
			clauses = append(clauses, clause)
		default:
			return nil, &repository.UnsupportedFilterKindError{Kind: field.Kind}
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, nil
	case 1:
		return clauses[0], nil
	default:
		return bson.M{"$and": clauses}, nil
	}
}

func dateClause(target string, rng repository.DateRange) (bson.M, bool) {
	var parts []bson.M
	if rng.Before != nil {
		parts = append(parts, bson.M{target: bson.M{"$lt": *rng.Before}})
	}
	if rng.After != nil {
		parts = append(parts, bson.M{target: bson.M{"$gt": *rng.After}})
	}
	switch len(parts) {
	case 0:
		return nil, false
	case 1:
		return parts[0], true
	default:
		return bson.M{"$and": parts}, true
	}
}

// stringSet wraps a scalar into a singleton set.
func stringSet(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	default:
		return nil, false
	}
}

// toObjectIDs converts hex ids to the storage-native id type. Malformed ids
// are dropped; a request for only bad ids yields an $in that matches nothing.
func toObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, objID)
	}
	return out
}

// trimStages relabels the native _id as a plain string id in results.
func trimStages() []bson.M {
	return []bson.M{
		{"$addFields": bson.M{"id": bson.M{"$convert": bson.M{"input": "$_id", "to": "string"}}}},
		{"$project": bson.M{"_id": 0}},
	}
}
