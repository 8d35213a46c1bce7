package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/config"
	"github.com/mkof14/digital-invest-sub001/internal/db"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/roles"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the database with the first super_admin account, the default
// consultation windows and the site section toggles. Safe to run more than
// once: everything is upserted or skipped when present.
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("seed: config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("seed: mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Error("seed: index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seedAdmin(ctx, cols, log); err != nil {
		log.Error("seed: admin failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedWindows(ctx, cols, cfg.Timezone, log); err != nil {
		log.Error("seed: windows failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedSections(ctx, cols, cfg.Timezone, log); err != nil {
		log.Error("seed: sections failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seed: done")
}

func seedAdmin(ctx context.Context, cols *db.Collections, log *slog.Logger) error {
	username := os.Getenv("SEED_ADMIN_USERNAME")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Info("seed: SEED_ADMIN_USERNAME/SEED_ADMIN_PASSWORD not set, skipping admin")
		return nil
	}

	count, err := cols.Users.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("seed: admin already exists", slog.String("username", username))
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     username,
		Email:        os.Getenv("SEED_ADMIN_EMAIL"),
		PasswordHash: hash,
		Role:         roles.SuperAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := cols.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Info("seed: admin already exists", slog.String("username", username))
			return nil
		}
		return err
	}

	log.Info("seed: admin created", slog.String("username", username))
	return nil
}

func seedWindows(ctx context.Context, cols *db.Collections, loc *time.Location, log *slog.Logger) error {
	count, err := cols.AvailabilityWindows.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("seed: windows already present, skipping")
		return nil
	}

	now := time.Now().In(loc)
	docs := make([]interface{}, 0, 10)
	// Weekday mornings and afternoons, Monday through Friday.
	for day := 1; day <= 5; day++ {
		docs = append(docs,
			models.AvailabilityWindow{
				ID:        primitive.NewObjectID().Hex(),
				DayOfWeek: day,
				StartTime: "09:00",
				EndTime:   "12:00",
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
			models.AvailabilityWindow{
				ID:        primitive.NewObjectID().Hex(),
				DayOfWeek: day,
				StartTime: "14:00",
				EndTime:   "17:00",
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
		)
	}

	if _, err := cols.AvailabilityWindows.InsertMany(ctx, docs); err != nil {
		return err
	}
	log.Info("seed: windows created", slog.Int("count", len(docs)))
	return nil
}

func seedSections(ctx context.Context, cols *db.Collections, loc *time.Location, log *slog.Logger) error {
	sections := []struct {
		key   string
		label string
		order int
	}{
		{"projects", "Portfolio", 1},
		{"team", "Team", 2},
		{"news", "News", 3},
		{"documents", "Investor Documents", 4},
		{"consultation", "Book a Consultation", 5},
		{"contact", "Contact", 6},
	}

	now := time.Now().In(loc)
	for _, sec := range sections {
		opts := options.Update().SetUpsert(true)
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":       primitive.NewObjectID().Hex(),
				"key":       sec.key,
				"label":     sec.label,
				"isVisible": true,
				"sortOrder": sec.order,
				"updatedAt": now,
			},
		}
		if _, err := cols.SiteSections.UpdateOne(ctx, bson.M{"key": sec.key}, update, opts); err != nil {
			return err
		}
	}

	log.Info("seed: sections ensured", slog.Int("count", len(sections)))
	return nil
}
