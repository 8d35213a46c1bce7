package notifications

import (
	"context"

	"github.com/mkof14/digital-invest-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTemplateSource reads admin-managed template overrides from the
// email_templates collection.
type MongoTemplateSource struct {
	col *mongo.Collection
}

func NewMongoTemplateSource(col *mongo.Collection) *MongoTemplateSource {
	if col == nil {
		return nil
	}
	return &MongoTemplateSource{col: col}
}

func (s *MongoTemplateSource) Lookup(ctx context.Context, name string) (string, string, bool, error) {
	var tmpl models.EmailTemplate
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&tmpl)
	if err == mongo.ErrNoDocuments {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return tmpl.Subject, tmpl.HTMLBody, true, nil
}
