package db

import (
	"context"
	"fmt"
	"time"

	"deliciasmz/models"
	"deliciasmz/samples"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seed copies the sample recipes into an empty recipes collection, credited
// to the official profile. It reports how many recipes were written.
func (m *Mongo) Seed(ctx context.Context) (int, error) {
	n, err := m.RecipeCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, classify(fmt.Errorf("count recipes: %w", err))
	}
	if n > 0 {
		m.log.Info("Recipes collection not empty, skipping seed")
		return 0, nil
	}

	author := samples.Author
	_, err = m.ProfileCollection.UpdateOne(ctx,
		bson.M{"_id": author.ID},
		bson.M{"$setOnInsert": bson.M{
			"email":      author.ID + "@deliciasmz.local",
			"full_name":  author.Name,
			"avatar_url": author.Avatar,
			"confirmed":  true,
			"created_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return 0, classify(fmt.Errorf("upsert official profile: %w", err))
	}

	list := samples.Recipes()
	docs := make([]interface{}, 0, len(list))
	now := time.Now().UTC()
	for i, r := range list {
		docs = append(docs, models.RecipeRow{
			ID:           primitive.NewObjectID(),
			UserID:       author.ID,
			RecipeFields: models.FieldsOf(r),
			// keep the sample order when sorted newest first
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		})
	}
	if _, err := m.RecipeCollection.InsertMany(ctx, docs); err != nil {
		return 0, classify(fmt.Errorf("insert samples: %w", err))
	}
	m.log.Info("Seeded sample recipes")
	return len(docs), nil
}
