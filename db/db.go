package db

import (
	"context"
	"fmt"
	"time"

	"deliciasmz/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo is the remote backend. Its collections mirror the recipes,
// profiles, likes, comments and replies tables.
type Mongo struct {
	Client             *mongo.Client
	RecipeCollection   *mongo.Collection
	ProfileCollection  *mongo.Collection
	LikeCollection     *mongo.Collection
	CommentsCollection *mongo.Collection
	RepliesCollection  *mongo.Collection

	log *zap.Logger
}

// Connect dials MongoDB and pings it. An unreachable server is reported as
// storage.ErrUnavailable so callers can switch to demo mode.
func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*Mongo, error) {
	if uri == "" {
		return nil, ErrUnconfigured
	}
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, classify(fmt.Errorf("connect: %w", err))
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, classify(fmt.Errorf("ping: %w", err))
	}
	return New(client, database, log), nil
}

// New wires the collections of an already connected client.
func New(client *mongo.Client, database string, log *zap.Logger) *Mongo {
	if database == "" {
		database = "deliciasmz"
	}
	d := client.Database(database)
	return &Mongo{
		Client:             client,
		RecipeCollection:   d.Collection("recipes"),
		ProfileCollection:  d.Collection("profiles"),
		LikeCollection:     d.Collection("likes"),
		CommentsCollection: d.Collection("comments"),
		RepliesCollection:  d.Collection("replies"),
		log:                logging.OrNop(log),
	}
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the uniqueness and join indexes the backend relies on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	type index struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}
	indexes := []index{
		{m.LikeCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recipe_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{m.ProfileCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{m.RecipeCollection, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}},
		{m.CommentsCollection, mongo.IndexModel{Keys: bson.D{{Key: "recipe_id", Value: 1}, {Key: "created_at", Value: 1}}}},
		{m.RepliesCollection, mongo.IndexModel{Keys: bson.D{{Key: "comment_id", Value: 1}, {Key: "created_at", Value: 1}}}},
	}
	for _, s := range indexes {
		if _, err := s.coll.Indexes().CreateOne(ctx, s.model); err != nil {
			return classify(fmt.Errorf("create index on %s: %w", s.coll.Name(), err))
		}
	}
	m.log.Debug("Indexes ensured")
	return nil
}
