package mongodb

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classpoint/school-backend/internal/storage"
)

// buildFilter translates generic list filters into a Mongo filter
// document. Comparison values that parse as numbers are compared
// numerically, everything else as strings.
func buildFilter(q storage.ListQuery) bson.M {
	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case storage.OpEq:
			if len(f.Values) > 0 {
				filter[f.Field] = coerce(f.Values[0])
			}
		case storage.OpIn:
			vals := make([]interface{}, 0, len(f.Values))
			for _, v := range f.Values {
				vals = append(vals, coerce(v))
			}
			filter[f.Field] = bson.M{"$in": vals}
		case storage.OpGt, storage.OpGte, storage.OpLt, storage.OpLte:
			if len(f.Values) == 0 {
				continue
			}
			cond, ok := filter[f.Field].(bson.M)
			if !ok {
				cond = bson.M{}
			}
			cond["$"+f.Op] = coerce(f.Values[0])
			filter[f.Field] = cond
		}
	}
	return filter
}

// buildFindOptions translates sort / projection / pagination.
func buildFindOptions(q storage.ListQuery) *options.FindOptions {
	opts := options.Find().
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))

	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, key := range q.Sort {
			order := 1
			if len(key) > 0 && key[0] == '-' {
				order = -1
				key = key[1:]
			}
			sort = append(sort, bson.E{Key: key, Value: order})
		}
		opts.SetSort(sort)
	}

	if len(q.Select) > 0 {
		projection := bson.M{}
		for _, field := range q.Select {
			projection[field] = 1
		}
		opts.SetProjection(projection)
	}

	return opts
}

func coerce(v string) interface{} {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if v == "true" {
		return true
	}
	if v == "false" {
		return false
	}
	return v
}
