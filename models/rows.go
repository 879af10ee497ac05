package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipeFields is the editable part of a recipes row. Updates send exactly
// these fields; the owner is only written on insert.
type RecipeFields struct {
	Title        string   `bson:"title"`
	Description  string   `bson:"description"`
	Image        string   `bson:"image"`
	Category     string   `bson:"category"`
	PrepTime     string   `bson:"prep_time"`
	Servings     int      `bson:"servings"`
	Ingredients  []string `bson:"ingredients"`
	Instructions []string `bson:"instructions"`
}

// ProfileRef is the slice of a profiles row joined onto other rows.
type ProfileRef struct {
	FullName  string `bson:"full_name"`
	AvatarURL string `bson:"avatar_url,omitempty"`
}

type LikeRow struct {
	UserID   string             `bson:"user_id"`
	RecipeID primitive.ObjectID `bson:"recipe_id"`
}

type ReplyRow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CommentID primitive.ObjectID `bson:"comment_id"`
	UserID    string             `bson:"user_id"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
	Profiles  []ProfileRef       `bson:"profiles,omitempty"`
}

type CommentRow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	RecipeID  primitive.ObjectID `bson:"recipe_id"`
	UserID    string             `bson:"user_id"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
	Profiles  []ProfileRef       `bson:"profiles,omitempty"`
	Replies   []ReplyRow         `bson:"replies,omitempty"`
}

// RecipeRow is one recipes document with its joins resolved.
type RecipeRow struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	RecipeFields `bson:",inline"`
	CreatedAt    time.Time    `bson:"created_at"`
	Profiles     []ProfileRef `bson:"profiles,omitempty"`
	Likes        []LikeRow    `bson:"likes,omitempty"`
	Comments     []CommentRow `bson:"comments,omitempty"`
}

// Profile is the identity record behind a signed-in user.
type Profile struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	FullName     string    `bson:"full_name"`
	AvatarURL    string    `bson:"avatar_url,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	Confirmed    bool      `bson:"confirmed"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (p Profile) User() User {
	return User{ID: p.ID, Name: p.FullName, Avatar: p.AvatarURL}
}

// FieldsOf extracts the persisted editable fields of a recipe.
func FieldsOf(r Recipe) RecipeFields {
	return RecipeFields{
		Title:        r.Title,
		Description:  r.Description,
		Image:        r.Image,
		Category:     r.Category,
		PrepTime:     r.PrepTime,
		Servings:     r.Servings,
		Ingredients:  CleanLines(r.Ingredients),
		Instructions: CleanLines(r.Instructions),
	}
}
