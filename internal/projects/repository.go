package projects

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Project) error
	Update(ctx context.Context, id string, set bson.M) (Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListPublic(ctx context.Context, filter PublicListFilter) ([]Project, error)
	GetPublishedBySlug(ctx context.Context, slug string) (Project, error)
	ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error)
	CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Project) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}

	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListPublic(ctx context.Context, filter PublicListFilter) ([]Project, error) {
	query := bson.M{"is_published": true}
	if filter.Sector != "" {
		query["sector"] = filter.Sector
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "created_at", Value: -1},
		})

	return r.find(ctx, query, opts)
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	var item Project
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&item); err != nil {
		return Project{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error) {
	query := bson.M{}
	if filter.Sector != "" {
		query["sector"] = filter.Sector
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "created_at", Value: -1},
		}).
		SetLimit(limit).
		SetSkip(offset)

	return r.find(ctx, query, opts)
}

func (r *MongoRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	query := bson.M{}
	if filter.Sector != "" {
		query["sector"] = filter.Sector
	}
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Project, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	for cursor.Next(ctx) {
		var item Project
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
