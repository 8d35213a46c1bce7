package db

import (
	"context"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Users               *mongo.Collection
	AvailabilityWindows *mongo.Collection
	Bookings            *mongo.Collection
	Leads               *mongo.Collection
	Projects            *mongo.Collection
	TeamMembers         *mongo.Collection
	NewsPosts           *mongo.Collection
	Documents           *mongo.Collection
	SiteSections        *mongo.Collection
	EmailTemplates      *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Users:               db.Collection("users"),
		AvailabilityWindows: db.Collection("availability_windows"),
		Bookings:            db.Collection("bookings"),
		Leads:               db.Collection("leads"),
		Projects:            db.Collection("projects"),
		TeamMembers:         db.Collection("team_members"),
		NewsPosts:           db.Collection("news_posts"),
		Documents:           db.Collection("documents"),
		SiteSections:        db.Collection("site_sections"),
		EmailTemplates:      db.Collection("email_templates"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	// A slot may be reserved at most once while the booking is alive.
	// Cancelled bookings are excluded so the slot frees up without a
	// physical delete.
	_, err = cols.Bookings.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}},
				}),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.AvailabilityWindows.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "dayOfWeek", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Projects.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.NewsPosts.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.SiteSections.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.EmailTemplates.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	return nil
}
