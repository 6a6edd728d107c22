package mongostore

import (
	"fmt"
	"regexp"

	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var operators = map[store.Op]string{
	store.OpEq:  "$eq",
	store.OpNeq: "$ne",
	store.OpGt:  "$gt",
	store.OpGte: "$gte",
	store.OpLt:  "$lt",
	store.OpLte: "$lte",
}

func fieldName(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

func toDocument(f store.Filter) (bson.M, error) {
	if f == nil {
		return bson.M{}, nil
	}
	switch node := f.(type) {
	case store.Cond:
		name := fieldName(node.Field)
		if node.Op == store.OpContains {
			value, _ := node.Value.(string)
			return bson.M{name: primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}}, nil
		}
		op, ok := operators[node.Op]
		if !ok {
			return nil, fmt.Errorf("%w: operator %q", store.ErrInvalid, node.Op)
		}
		return bson.M{name: bson.M{op: node.Value}}, nil
	case store.Group:
		key := "$and"
		if node.Kind == store.GroupOr {
			key = "$or"
		}
		children := make(bson.A, 0, len(node.Filters))
		for _, child := range node.Filters {
			doc, err := toDocument(child)
			if err != nil {
				return nil, err
			}
			children = append(children, doc)
		}
		return bson.M{key: children}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported filter %T", store.ErrInvalid, f)
	}
}

func toSort(specs []string) bson.D {
	sort := bson.D{}
	for _, spec := range specs {
		field, desc := store.SortField(spec)
		dir := 1
		if desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: fieldName(field), Value: dir})
	}
	return sort
}
