package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"deliciasmz/kv"
	"deliciasmz/logging"
	"deliciasmz/models"
	"deliciasmz/samples"

	"go.uber.org/zap"
)

// Local keeps the full collection as one JSON document in a kv.Store.
// Every mutation re-reads the collection, changes a copy and writes the
// whole thing back.
type Local struct {
	store     kv.Store
	favorites *Favorites
	log       *zap.Logger
	mu        sync.Mutex
}

func NewLocal(store kv.Store, favorites *Favorites, log *zap.Logger) *Local {
	return &Local{store: store, favorites: favorites, log: logging.OrNop(log)}
}

// GetRecipes seeds the sample set on first use. Unreadable data yields the
// sample set without overwriting what is stored.
func (l *Local) GetRecipes(ctx context.Context) ([]models.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx), nil
}

func (l *Local) SaveRecipe(ctx context.Context, recipe models.Recipe, _ string) error {
	recipe = recipe.Clone()
	recipe.Ingredients = models.CleanLines(recipe.Ingredients)
	recipe.Instructions = models.CleanLines(recipe.Instructions)
	recipe.IsNew = false
	recipe.Normalize()

	return l.mutate(ctx, func(list []models.Recipe) []models.Recipe {
		for i := range list {
			if list[i].ID == recipe.ID {
				list[i] = recipe
				return list
			}
		}
		return append([]models.Recipe{recipe}, list...)
	})
}

func (l *Local) DeleteRecipe(ctx context.Context, id string) error {
	return l.mutate(ctx, func(list []models.Recipe) []models.Recipe {
		out := list[:0]
		for _, r := range list {
			if r.ID != id {
				out = append(out, r)
			}
		}
		return out
	})
}

func (l *Local) ToggleLike(ctx context.Context, recipeID, userID string) error {
	return l.mutate(ctx, func(list []models.Recipe) []models.Recipe {
		for i := range list {
			if list[i].ID != recipeID {
				continue
			}
			if list[i].HasLiked(userID) {
				kept := make([]string, 0, len(list[i].LikedBy))
				for _, id := range list[i].LikedBy {
					if id != userID {
						kept = append(kept, id)
					}
				}
				list[i].LikedBy = kept
			} else {
				list[i].LikedBy = append(list[i].LikedBy, userID)
			}
			break
		}
		return list
	})
}

func (l *Local) AddComment(ctx context.Context, recipeID, text string, user models.User) (*models.Comment, error) {
	var added *models.Comment
	err := l.mutate(ctx, func(list []models.Recipe) []models.Recipe {
		for i := range list {
			if list[i].ID != recipeID {
				continue
			}
			c := models.Comment{
				ID:        models.NewID(),
				UserID:    user.ID,
				UserName:  user.Name,
				Text:      text,
				CreatedAt: models.Now(),
				Replies:   []models.Reply{},
			}
			list[i].Comments = append(list[i].Comments, c)
			added = &c
			break
		}
		return list
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (l *Local) AddReply(ctx context.Context, recipeID, commentID, text string, user models.User) (*models.Reply, error) {
	var added *models.Reply
	err := l.mutate(ctx, func(list []models.Recipe) []models.Recipe {
		for i := range list {
			if list[i].ID != recipeID {
				continue
			}
			for j := range list[i].Comments {
				if list[i].Comments[j].ID != commentID {
					continue
				}
				r := models.Reply{
					ID:        models.NewID(),
					UserID:    user.ID,
					UserName:  user.Name,
					Text:      text,
					CreatedAt: models.Now(),
				}
				list[i].Comments[j].Replies = append(list[i].Comments[j].Replies, r)
				added = &r
				break
			}
			break
		}
		return list
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (l *Local) GetFavorites(ctx context.Context) ([]string, error) {
	return l.favorites.List(ctx)
}

func (l *Local) ToggleFavorite(ctx context.Context, recipeID string) ([]string, error) {
	return l.favorites.Toggle(ctx, recipeID)
}

func (l *Local) mutate(ctx context.Context, fn func([]models.Recipe) []models.Recipe) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persist(ctx, fn(l.load(ctx)))
}

func (l *Local) load(ctx context.Context) []models.Recipe {
	raw, ok, err := l.store.Get(ctx, RecipesKey)
	if err != nil {
		l.log.Warn("Reading local recipes failed, using samples", zap.Error(err))
		return samples.Recipes()
	}
	if !ok {
		seed := samples.Recipes()
		if err := l.persist(ctx, seed); err != nil {
			l.log.Warn("Seeding local recipes failed", zap.Error(err))
		}
		return seed
	}

	var list []models.Recipe
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		l.log.Error("Stored recipes are corrupt, using samples", zap.Error(err))
		return samples.Recipes()
	}
	for i := range list {
		list[i].Normalize()
	}
	if list == nil {
		list = []models.Recipe{}
	}
	return list
}

func (l *Local) persist(ctx context.Context, list []models.Recipe) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, RecipesKey, string(raw), 0); err != nil {
		return fmt.Errorf("save local recipes: %w", err)
	}
	return nil
}
