package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deliciasmz/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateProfile stores a new profile. A taken email yields ErrDuplicate.
func (m *Mongo) CreateProfile(ctx context.Context, p models.Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if _, err := m.ProfileCollection.InsertOne(ctx, p); err != nil {
		return classify(fmt.Errorf("insert profile: %w", err))
	}
	return nil
}

func (m *Mongo) ProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	return m.findProfile(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (m *Mongo) Profile(ctx context.Context, id string) (models.Profile, error) {
	return m.findProfile(ctx, bson.M{"_id": id})
}

func (m *Mongo) ConfirmProfile(ctx context.Context, id string) error {
	res, err := m.ProfileCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"confirmed": true}})
	if err != nil {
		return classify(fmt.Errorf("confirm profile: %w", err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("confirm profile %s: %w", id, ErrNotFound)
	}
	return nil
}

func (m *Mongo) findProfile(ctx context.Context, filter bson.M) (models.Profile, error) {
	var p models.Profile
	err := m.ProfileCollection.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, classify(fmt.Errorf("find profile: %w", err))
	}
	return p, nil
}
