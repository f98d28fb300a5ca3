package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinichub/clinic-api/internal/core/ports"
)

// Collection names for the clinical records.
const (
	CollectionAppointments   = "appointments"
	CollectionPrescriptions  = "prescriptions"
	CollectionMedicalRecords = "medical_records"
	CollectionStock          = "stock"
	CollectionBilling        = "billing"
)

// RecordRepository is the MongoDB implementation of ports.Repository[T]. T's
// bson field names are the names used in filters and updates.
type RecordRepository[T any] struct {
	col    *mongo.Collection
	entity string
}

func NewRecordRepository[T any](db *mongo.Database, collection, entity string) *RecordRepository[T] {
	return &RecordRepository[T]{col: db.Collection(collection), entity: entity}
}

func (r *RecordRepository[T]) Create(ctx context.Context, rec *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rec)
	return translateError(r.entity, "insert", err)
}

func (r *RecordRepository[T]) Get(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec T
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, translateError(r.entity, "find", err)
	}
	return &rec, nil
}

func (r *RecordRepository[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec T
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)}, opts).Decode(&rec)
	if err != nil {
		return nil, translateError(r.entity, "update", err)
	}
	return &rec, nil
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(r.entity, "delete", err)
	}
	if res.DeletedCount == 0 {
		return translateError(r.entity, "delete", mongo.ErrNoDocuments)
	}
	return nil
}

// List returns a page of records and the total number of matches. A zero
// Limit returns every match.
func (r *RecordRepository[T]) List(ctx context.Context, f ports.Filter) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError(r.entity, "count", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateError(r.entity, "list", err)
	}
	items := []*T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, translateError(r.entity, "list", err)
	}
	return items, total, nil
}

func (r *RecordRepository[T]) Count(ctx context.Context, f ports.Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, buildFilter(f))
	if err != nil {
		return 0, translateError(r.entity, "count", err)
	}
	return n, nil
}

// EnsureIndexes indexes the given fields in ascending order.
func (r *RecordRepository[T]) EnsureIndexes(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := make([]mongo.IndexModel, len(fields))
	for i, f := range fields {
		indexes[i] = mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}}
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildFilter(f ports.Filter) bson.M {
	filter := bson.M{}
	for k, v := range f.Equals {
		filter[k] = v
	}
	if f.DateField != "" {
		rng := bson.M{}
		if !f.From.IsZero() {
			rng["$gte"] = f.From
		}
		if !f.To.IsZero() {
			rng["$lt"] = f.To
		}
		if len(rng) > 0 {
			filter[f.DateField] = rng
		}
	}
	return filter
}
