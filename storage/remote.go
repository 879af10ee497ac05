package storage

import (
	"context"
	"errors"
	"fmt"

	"deliciasmz/logging"
	"deliciasmz/metrics"
	"deliciasmz/models"
	"deliciasmz/samples"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Backend is the document store behind Remote. Implementations wrap
// connectivity and missing-collection failures in ErrUnavailable.
type Backend interface {
	// FetchRecipes returns every recipe with author, likes, comments and
	// replies joined, newest first.
	FetchRecipes(ctx context.Context) ([]models.RecipeRow, error)
	InsertRecipe(ctx context.Context, ownerID string, fields models.RecipeFields) (string, error)
	UpdateRecipe(ctx context.Context, id string, fields models.RecipeFields) error
	DeleteRecipe(ctx context.Context, id string) error
	// ToggleLike removes the (user, recipe) like if it exists and creates it
	// otherwise, atomically on the server. It reports the resulting state.
	ToggleLike(ctx context.Context, recipeID, userID string) (bool, error)
	InsertComment(ctx context.Context, recipeID, userID, text string) (models.CommentRow, error)
	InsertReply(ctx context.Context, commentID, userID, text string) (models.ReplyRow, error)
}

// IsRecordID reports whether id has the shape of a backend-issued ID.
func IsRecordID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Remote persists through a Backend. A nil backend behaves as permanently
// unreachable.
type Remote struct {
	backend   Backend
	favorites *Favorites
	log       *zap.Logger
}

func NewRemote(backend Backend, favorites *Favorites, log *zap.Logger) *Remote {
	return &Remote{backend: backend, favorites: favorites, log: logging.OrNop(log)}
}

func (r *Remote) GetRecipes(ctx context.Context) ([]models.Recipe, error) {
	if r.backend == nil {
		return samples.Recipes(), nil
	}
	rows, err := r.backend.FetchRecipes(ctx)
	if err != nil {
		if IsUnavailable(err) {
			r.log.Warn("Backend unavailable, serving sample recipes (demo mode)", zap.Error(err))
		} else {
			r.log.Error("Fetching recipes failed, serving sample recipes", zap.Error(err))
		}
		metrics.DemoFallbacks.WithLabelValues("get_recipes").Inc()
		return samples.Recipes(), nil
	}
	if len(rows) == 0 {
		return samples.Recipes(), nil
	}

	out := make([]models.Recipe, len(rows))
	for i, row := range rows {
		out[i] = RecipeFromRow(row)
	}
	return out, nil
}

// SaveRecipe inserts drafts and recipes whose ID the backend never issued,
// owned by userID; everything else is updated in place. The update payload
// never carries the owner, the server checks it against the stored row.
func (r *Remote) SaveRecipe(ctx context.Context, recipe models.Recipe, userID string) error {
	if models.IsAnonymous(userID) {
		return nil
	}
	if r.backend == nil {
		return r.writeFailed("save_recipe", ErrUnconfigured)
	}

	fields := models.FieldsOf(recipe)
	var err error
	if recipe.IsNew || !IsRecordID(recipe.ID) {
		_, err = r.backend.InsertRecipe(ctx, userID, fields)
	} else {
		err = r.backend.UpdateRecipe(ctx, recipe.ID, fields)
	}
	if err != nil {
		return r.writeFailed("save_recipe", err)
	}
	return nil
}

// DeleteRecipe is best effort: an unreachable backend is only logged.
func (r *Remote) DeleteRecipe(ctx context.Context, id string) error {
	if samples.IsSample(id) {
		return nil
	}
	if r.backend == nil {
		r.log.Debug("Delete skipped, backend not configured", zap.String("recipe", id))
		return nil
	}
	if err := r.backend.DeleteRecipe(ctx, id); err != nil {
		if IsUnavailable(err) {
			r.log.Warn("Delete dropped, backend unavailable", zap.String("recipe", id), zap.Error(err))
			metrics.DemoFallbacks.WithLabelValues("delete_recipe").Inc()
			return nil
		}
		r.log.Error("Deleting recipe failed", zap.String("recipe", id), zap.Error(err))
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	return nil
}

func (r *Remote) ToggleLike(ctx context.Context, recipeID, userID string) error {
	if samples.IsSample(recipeID) || models.IsAnonymous(userID) {
		return nil
	}
	if r.backend == nil {
		return r.writeFailed("toggle_like", ErrUnconfigured)
	}
	if _, err := r.backend.ToggleLike(ctx, recipeID, userID); err != nil {
		return r.writeFailed("toggle_like", err)
	}
	return nil
}

func (r *Remote) AddComment(ctx context.Context, recipeID, text string, user models.User) (*models.Comment, error) {
	if samples.IsSample(recipeID) || models.IsAnonymous(user.ID) {
		return nil, nil
	}
	if r.backend == nil {
		return nil, r.writeFailed("add_comment", ErrUnconfigured)
	}
	row, err := r.backend.InsertComment(ctx, recipeID, user.ID, text)
	if err != nil {
		return nil, r.writeFailed("add_comment", err)
	}
	c := commentFromRow(row)
	if c.UserName == unknownUser {
		c.UserName = user.Name
	}
	return &c, nil
}

func (r *Remote) AddReply(ctx context.Context, recipeID, commentID, text string, user models.User) (*models.Reply, error) {
	if samples.IsSample(recipeID) || models.IsAnonymous(user.ID) {
		return nil, nil
	}
	if r.backend == nil {
		return nil, r.writeFailed("add_reply", ErrUnconfigured)
	}
	row, err := r.backend.InsertReply(ctx, commentID, user.ID, text)
	if err != nil {
		return nil, r.writeFailed("add_reply", err)
	}
	reply := replyFromRow(row)
	if reply.UserName == unknownUser {
		reply.UserName = user.Name
	}
	return &reply, nil
}

func (r *Remote) GetFavorites(ctx context.Context) ([]string, error) {
	return r.favorites.List(ctx)
}

func (r *Remote) ToggleFavorite(ctx context.Context, recipeID string) ([]string, error) {
	return r.favorites.Toggle(ctx, recipeID)
}

// writeFailed turns a backend write error into ErrDemoMode when the backend
// is unavailable, and into a wrapped error otherwise.
func (r *Remote) writeFailed(op string, err error) error {
	if IsUnavailable(err) {
		r.log.Warn("Write not persisted (demo mode)", zap.String("op", op), zap.Error(err))
		metrics.DemoFallbacks.WithLabelValues(op).Inc()
		return fmt.Errorf("%s: %w", op, errors.Join(ErrDemoMode, err))
	}
	r.log.Error("Backend write failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
