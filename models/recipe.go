package models

import (
	"strconv"
	"strings"
	"time"
)

// GuestID is the user ID carried by read-only visitor sessions.
const GuestID = "guest"

// TimeLayout is the wire format of every createdAt field.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var Categories = []string{
	"Pratos Principais",
	"Sobremesas",
	"Petiscos",
	"Bebidas",
	"Vegetariano",
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Reply struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type Comment struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"createdAt"`
	Replies   []Reply `json:"replies"`
}

type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Author       User      `json:"author"`
	LikedBy      []string  `json:"likedBy"`
	Category     string    `json:"category"`
	PrepTime     string    `json:"prepTime"`
	Servings     int       `json:"servings"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Comments     []Comment `json:"comments"`

	// IsNew marks a draft that has never been persisted.
	IsNew bool `json:"isNew,omitempty"`
}

// IsAnonymous reports whether id belongs to a visitor or to nobody.
func IsAnonymous(id string) bool {
	return id == "" || id == GuestID
}

// Now formats the current instant the way createdAt fields are stored.
func Now() string {
	return FormatTime(time.Now())
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NewID returns a time-derived identifier for locally created entities.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// NewRecipe builds an unpersisted draft owned by author.
func NewRecipe(author User) Recipe {
	r := Recipe{
		ID:       NewID(),
		Author:   author,
		PrepTime: "N/A",
		Servings: 2,
		IsNew:    true,
	}
	r.Normalize()
	return r
}

// Normalize replaces nil slices with empty ones so every list field is
// always iterable and encodes as [].
func (r *Recipe) Normalize() {
	if r.LikedBy == nil {
		r.LikedBy = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Comments == nil {
		r.Comments = []Comment{}
	}
	for i := range r.Comments {
		if r.Comments[i].Replies == nil {
			r.Comments[i].Replies = []Reply{}
		}
	}
}

// HasLiked reports whether userID is in the likedBy set.
func (r Recipe) HasLiked(userID string) bool {
	for _, id := range r.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate it freely.
func (r Recipe) Clone() Recipe {
	out := r
	out.LikedBy = append([]string{}, r.LikedBy...)
	out.Ingredients = append([]string{}, r.Ingredients...)
	out.Instructions = append([]string{}, r.Instructions...)
	out.Comments = make([]Comment, len(r.Comments))
	for i, c := range r.Comments {
		c.Replies = append([]Reply{}, c.Replies...)
		out.Comments[i] = c
	}
	return out
}

// CleanLines trims every line and drops the empty ones.
func CleanLines(lines []string) []string {
	out := []string{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitLines turns a multi-line form field into cleaned lines.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return CleanLines(strings.Split(s, "\n"))
}
