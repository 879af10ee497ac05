package db

import (
	"context"
	"fmt"
	"time"

	"deliciasmz/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

func profileLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         "profiles",
		"localField":   "user_id",
		"foreignField": "_id",
		"pipeline":     bson.A{bson.M{"$project": bson.M{"full_name": 1, "avatar_url": 1}}},
		"as":           "profiles",
	}}}
}

// recipesPipeline joins every recipe with its author, likes, comments and
// the replies of each comment. Recipes come newest first, comments and
// replies in insertion order.
func recipesPipeline() mongo.Pipeline {
	replies := bson.A{
		bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$comment_id", "$$cid"}}}},
		bson.M{"$sort": bson.M{"created_at": 1}},
		profileLookup(),
	}
	comments := bson.A{
		bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$recipe_id", "$$rid"}}}},
		bson.M{"$sort": bson.M{"created_at": 1}},
		profileLookup(),
		bson.M{"$lookup": bson.M{
			"from":     "replies",
			"let":      bson.M{"cid": "$_id"},
			"pipeline": replies,
			"as":       "replies",
		}},
	}
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		profileLookup(),
		{{Key: "$lookup", Value: bson.M{
			"from":         "likes",
			"localField":   "_id",
			"foreignField": "recipe_id",
			"as":           "likes",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":     "comments",
			"let":      bson.M{"rid": "$_id"},
			"pipeline": comments,
			"as":       "comments",
		}}},
	}
}

func (m *Mongo) FetchRecipes(ctx context.Context) ([]models.RecipeRow, error) {
	cursor, err := m.RecipeCollection.Aggregate(ctx, recipesPipeline())
	if err != nil {
		return nil, classify(fmt.Errorf("fetch recipes: %w", err))
	}
	defer cursor.Close(ctx)

	var rows []models.RecipeRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, classify(fmt.Errorf("decode recipes: %w", err))
	}
	return rows, nil
}

func (m *Mongo) InsertRecipe(ctx context.Context, ownerID string, fields models.RecipeFields) (string, error) {
	row := models.RecipeRow{
		ID:           primitive.NewObjectID(),
		UserID:       ownerID,
		RecipeFields: fields,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := m.RecipeCollection.InsertOne(ctx, row); err != nil {
		return "", classify(fmt.Errorf("insert recipe: %w", err))
	}
	return row.ID.Hex(), nil
}

// UpdateRecipe sets the editable fields only; user_id and created_at are
// never part of the update.
func (m *Mongo) UpdateRecipe(ctx context.Context, id string, fields models.RecipeFields) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.RecipeCollection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return classify(fmt.Errorf("update recipe: %w", err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteRecipe removes the recipe together with its likes, comments and
// the replies under those comments.
func (m *Mongo) DeleteRecipe(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	var commentIDs []primitive.ObjectID
	cursor, err := m.CommentsCollection.Find(ctx, bson.M{"recipe_id": oid},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return classify(fmt.Errorf("find comments: %w", err))
	}
	var found []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &found); err != nil {
		return classify(fmt.Errorf("decode comments: %w", err))
	}
	for _, c := range found {
		commentIDs = append(commentIDs, c.ID)
	}

	if len(commentIDs) > 0 {
		if _, err := m.RepliesCollection.DeleteMany(ctx, bson.M{"comment_id": bson.M{"$in": commentIDs}}); err != nil {
			return classify(fmt.Errorf("delete replies: %w", err))
		}
	}
	if _, err := m.CommentsCollection.DeleteMany(ctx, bson.M{"recipe_id": oid}); err != nil {
		return classify(fmt.Errorf("delete comments: %w", err))
	}
	if _, err := m.LikeCollection.DeleteMany(ctx, bson.M{"recipe_id": oid}); err != nil {
		return classify(fmt.Errorf("delete likes: %w", err))
	}
	if _, err := m.RecipeCollection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return classify(fmt.Errorf("delete recipe: %w", err))
	}
	return nil
}

// ToggleLike decides on the server: an existing (user, recipe) row is
// deleted, otherwise one is upserted. The unique index keeps a concurrent
// double toggle from creating duplicates.
func (m *Mongo) ToggleLike(ctx context.Context, recipeID, userID string) (bool, error) {
	oid, err := objectID(recipeID)
	if err != nil {
		return false, err
	}
	filter := bson.M{"user_id": userID, "recipe_id": oid}

	res, err := m.LikeCollection.DeleteOne(ctx, filter)
	if err != nil {
		return false, classify(fmt.Errorf("unlike: %w", err))
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = m.LikeCollection.UpdateOne(ctx, filter,
		bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, classify(fmt.Errorf("like: %w", err))
	}
	return true, nil
}

func (m *Mongo) InsertComment(ctx context.Context, recipeID, userID, text string) (models.CommentRow, error) {
	oid, err := objectID(recipeID)
	if err != nil {
		return models.CommentRow{}, err
	}
	row := models.CommentRow{
		ID:        primitive.NewObjectID(),
		RecipeID:  oid,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := m.CommentsCollection.InsertOne(ctx, row); err != nil {
		return models.CommentRow{}, classify(fmt.Errorf("insert comment: %w", err))
	}
	row.Profiles = m.profileRefs(ctx, userID)
	return row, nil
}

func (m *Mongo) InsertReply(ctx context.Context, commentID, userID, text string) (models.ReplyRow, error) {
	oid, err := objectID(commentID)
	if err != nil {
		return models.ReplyRow{}, err
	}
	row := models.ReplyRow{
		ID:        primitive.NewObjectID(),
		CommentID: oid,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := m.RepliesCollection.InsertOne(ctx, row); err != nil {
		return models.ReplyRow{}, classify(fmt.Errorf("insert reply: %w", err))
	}
	row.Profiles = m.profileRefs(ctx, userID)
	return row, nil
}

func (m *Mongo) profileRefs(ctx context.Context, userID string) []models.ProfileRef {
	var ref models.ProfileRef
	err := m.ProfileCollection.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"full_name": 1, "avatar_url": 1})).Decode(&ref)
	if err != nil {
		return nil
	}
	return []models.ProfileRef{ref}
}
