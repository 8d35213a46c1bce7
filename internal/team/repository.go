package team

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Member) error
	Update(ctx context.Context, id string, set bson.M) (Member, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListVisible(ctx context.Context) ([]Member, error)
	ListAdmin(ctx context.Context) ([]Member, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Member) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Member, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}

	var updated Member
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Member{}, err
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

func (r *MongoRepository) ListVisible(ctx context.Context) ([]Member, error) {
	return r.find(ctx, bson.M{"is_visible": true})
}

func (r *MongoRepository) ListAdmin(ctx context.Context) ([]Member, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, query bson.M) ([]Member, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "name", Value: 1},
		})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Member, 0)
	for cursor.Next(ctx) {
		var item Member
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
