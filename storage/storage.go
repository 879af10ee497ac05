// Package storage persists the recipe collection and its social state.
//
// Two adapters implement Storage: Local keeps the whole collection in a
// key-value store, Remote talks to the document backend. Callers pick one per
// session. Mutations only report success or a failure kind; the current state
// is always observed through GetRecipes.
package storage

import (
	"context"
	"errors"
	"fmt"

	"deliciasmz/models"
)

type Storage interface {
	// GetRecipes never fails the caller: when nothing better is available
	// it returns the sample collection.
	GetRecipes(ctx context.Context) ([]models.Recipe, error)
	SaveRecipe(ctx context.Context, recipe models.Recipe, userID string) error
	DeleteRecipe(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, recipeID, userID string) error
	// AddComment returns the stored comment, or nil when nothing was written.
	AddComment(ctx context.Context, recipeID, text string, user models.User) (*models.Comment, error)
	// AddReply returns the stored reply, or nil when nothing was written.
	AddReply(ctx context.Context, recipeID, commentID, text string, user models.User) (*models.Reply, error)
	GetFavorites(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, recipeID string) ([]string, error)
}

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeRemote:
		return Mode(s), nil
	case "":
		return ModeLocal, nil
	}
	return "", fmt.Errorf("unknown storage mode %q", s)
}

var (
	// ErrUnavailable marks a backend that is unreachable, unconfigured or
	// missing its collections.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrUnconfigured is the ErrUnavailable raised when no backend was set up.
	ErrUnconfigured = fmt.Errorf("%w: not configured", ErrUnavailable)
	// ErrDemoMode means a write was accepted but could not be persisted.
	ErrDemoMode = errors.New("demo mode: change not persisted")
)

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
