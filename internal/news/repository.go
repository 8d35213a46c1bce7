package news

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Post) error
	Update(ctx context.Context, id string, set bson.M) (Post, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (Post, error)
	ListPublished(ctx context.Context, limit, offset int64) ([]Post, error)
	CountPublished(ctx context.Context) (int64, error)
	GetPublishedBySlug(ctx context.Context, slug string) (Post, error)
	ListAdmin(ctx context.Context, limit, offset int64) ([]Post, error)
	CountAdmin(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Post) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}

	var updated Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Post{}, err
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

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Post, error) {
	var item Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Post{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListPublished(ctx context.Context, limit, offset int64) ([]Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	return r.find(ctx, bson.M{"is_published": true}, opts)
}

func (r *MongoRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"is_published": true})
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	var item Post
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&item); err != nil {
		return Post{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListAdmin(ctx context.Context, limit, offset int64) ([]Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) CountAdmin(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Post, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Post, 0)
	for cursor.Next(ctx) {
		var item Post
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
