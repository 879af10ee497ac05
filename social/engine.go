// Package social runs the like, comment, reply and recipe mutations of a
// session against a storage.Storage and hands back a freshly reloaded
// collection after every change.
package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"deliciasmz/kv"
	"deliciasmz/logging"
	"deliciasmz/metrics"
	"deliciasmz/models"
	"deliciasmz/samples"
	"deliciasmz/storage"

	"go.uber.org/zap"
)

var (
	ErrGuest       = errors.New("guest sessions are read-only")
	ErrNotSignedIn = errors.New("not signed in")
	ErrForbidden   = errors.New("only the author or an admin may change this recipe")
	ErrEmptyText   = errors.New("text is empty")
	ErrNoTitle     = errors.New("recipe title is empty")
	ErrNotFound    = errors.New("recipe not found")
)

const DefaultTimeout = 10 * time.Second

// Actor is whoever performs a mutation.
type Actor struct {
	User  models.User
	Guest bool
	Admin bool
}

func (a Actor) canWrite() error {
	if a.Guest || a.User.ID == models.GuestID {
		return ErrGuest
	}
	if a.User.ID == "" {
		return ErrNotSignedIn
	}
	return nil
}

func (a Actor) owns(r models.Recipe) bool {
	return a.Admin || r.Author.ID == a.User.ID
}

type Options struct {
	// Timeout bounds each storage command. Zero means DefaultTimeout.
	Timeout time.Duration
	// Devices holds per-device favorites. When nil every device shares the
	// favorites of the wrapped storage.
	Devices kv.Store
	Log     *zap.Logger
}

type Engine struct {
	store   storage.Storage
	timeout time.Duration
	devices kv.Store
	log     *zap.Logger

	// device ID -> *storage.Favorites
	perDevice sync.Map
}

func NewEngine(store storage.Storage, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Engine{
		store:   store,
		timeout: opts.Timeout,
		devices: opts.Devices,
		log:     logging.OrNop(opts.Log),
	}
}

// Reload is the only way to observe the collection.
func (e *Engine) Reload(ctx context.Context) ([]models.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	list, err := e.store.GetRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	return list, nil
}

func (e *Engine) Recipe(ctx context.Context, id string) (models.Recipe, error) {
	list, err := e.Reload(ctx)
	if err != nil {
		return models.Recipe{}, err
	}
	r, ok := find(list, id)
	if !ok {
		return models.Recipe{}, ErrNotFound
	}
	return r, nil
}

// Save publishes a draft or edits an existing recipe. Edits keep the stored
// author, likes and comments; only the editable fields change.
func (e *Engine) Save(ctx context.Context, actor Actor, recipe models.Recipe) ([]models.Recipe, error) {
	if err := actor.canWrite(); err != nil {
		return nil, err
	}
	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		return nil, ErrNoTitle
	}
	if strings.TrimSpace(recipe.Image) == "" {
		recipe.Image = samples.RandomFallbackImage()
	}

	existing, found := models.Recipe{}, false
	if !recipe.IsNew && recipe.ID != "" {
		list, err := e.Reload(ctx)
		if err != nil {
			return nil, err
		}
		existing, found = find(list, recipe.ID)
	}
	if found {
		if !actor.owns(existing) {
			return nil, ErrForbidden
		}
		recipe.Author = existing.Author
		recipe.LikedBy = existing.LikedBy
		recipe.Comments = existing.Comments
	} else {
		if recipe.ID == "" {
			recipe.ID = models.NewID()
		}
		recipe.IsNew = true
		recipe.Author = actor.User
		recipe.LikedBy = nil
		recipe.Comments = nil
	}
	recipe.Normalize()

	ownerID := actor.User.ID
	if found {
		ownerID = existing.Author.ID
	}
	err := e.run(ctx, func(ctx context.Context) error {
		return e.store.SaveRecipe(ctx, recipe, ownerID)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecipesSaved.Inc()
	e.log.Info("Recipe saved", zap.String("recipe", recipe.ID), zap.Bool("new", !found), zap.String("user", actor.User.ID))
	return e.Reload(ctx)
}

// Delete removes a recipe the actor owns. Deleting a recipe that is already
// gone succeeds.
func (e *Engine) Delete(ctx context.Context, actor Actor, id string) ([]models.Recipe, error) {
	if err := actor.canWrite(); err != nil {
		return nil, err
	}
	list, err := e.Reload(ctx)
	if err != nil {
		return nil, err
	}
	existing, ok := find(list, id)
	if !ok {
		return list, nil
	}
	if !actor.owns(existing) {
		return nil, ErrForbidden
	}
	if err := e.run(ctx, func(ctx context.Context) error {
		return e.store.DeleteRecipe(ctx, id)
	}); err != nil {
		return nil, err
	}
	metrics.RecipesDeleted.Inc()
	e.log.Info("Recipe deleted", zap.String("recipe", id), zap.String("user", actor.User.ID))
	return e.Reload(ctx)
}

func (e *Engine) ToggleLike(ctx context.Context, actor Actor, recipeID string) ([]models.Recipe, error) {
	if err := actor.canWrite(); err != nil {
		return nil, err
	}
	if err := e.run(ctx, func(ctx context.Context) error {
		return e.store.ToggleLike(ctx, recipeID, actor.User.ID)
	}); err != nil {
		return nil, err
	}
	metrics.LikesToggled.Inc()
	return e.Reload(ctx)
}

func (e *Engine) AddComment(ctx context.Context, actor Actor, recipeID, text string) ([]models.Recipe, error) {
	if err := actor.canWrite(); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	var created *models.Comment
	if err := e.run(ctx, func(ctx context.Context) (err error) {
		created, err = e.store.AddComment(ctx, recipeID, text, actor.User)
		return err
	}); err != nil {
		return nil, err
	}
	if created != nil {
		metrics.Comments.Inc()
		e.log.Debug("Comment added", zap.String("recipe", recipeID), zap.String("comment", created.ID))
	}
	return e.Reload(ctx)
}

func (e *Engine) AddReply(ctx context.Context, actor Actor, recipeID, commentID, text string) ([]models.Recipe, error) {
	if err := actor.canWrite(); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	var created *models.Reply
	if err := e.run(ctx, func(ctx context.Context) (err error) {
		created, err = e.store.AddReply(ctx, recipeID, commentID, text, actor.User)
		return err
	}); err != nil {
		return nil, err
	}
	if created != nil {
		metrics.Replies.Inc()
		e.log.Debug("Reply added", zap.String("comment", commentID), zap.String("reply", created.ID))
	}
	return e.Reload(ctx)
}

// Favorites lists the favorite recipe IDs of a device. Favorites never
// trigger a reload.
func (e *Engine) Favorites(ctx context.Context, deviceID string) ([]string, error) {
	if f := e.deviceFavorites(deviceID); f != nil {
		return f.List(ctx)
	}
	return e.store.GetFavorites(ctx)
}

func (e *Engine) ToggleFavorite(ctx context.Context, deviceID, recipeID string) ([]string, error) {
	var (
		favs []string
		err  error
	)
	if f := e.deviceFavorites(deviceID); f != nil {
		favs, err = f.Toggle(ctx, recipeID)
	} else {
		favs, err = e.store.ToggleFavorite(ctx, recipeID)
	}
	if err != nil {
		return nil, err
	}
	metrics.FavoritesToggled.Inc()
	return favs, nil
}

func (e *Engine) deviceFavorites(deviceID string) *storage.Favorites {
	if e.devices == nil || deviceID == "" {
		return nil
	}
	if f, ok := e.perDevice.Load(deviceID); ok {
		return f.(*storage.Favorites)
	}
	f, _ := e.perDevice.LoadOrStore(deviceID, storage.NewFavorites(e.devices, deviceID, e.log))
	return f.(*storage.Favorites)
}

// run executes one storage command under the engine timeout. The command
// is not aborted mid-write; the timeout is cooperative through ctx.
func (e *Engine) run(ctx context.Context, cmd func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	if err := cmd(ctx); err != nil {
		if errors.Is(err, storage.ErrDemoMode) {
			e.log.Warn("Change kept in demo mode only", zap.Error(err))
		}
		return err
	}
	return nil
}

func find(list []models.Recipe, id string) (models.Recipe, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return models.Recipe{}, false
}

// ActorFrom turns an issued session into the actor of a mutation.
func ActorFrom(s models.Session) Actor {
	return Actor{User: s.User, Guest: s.Guest, Admin: s.Admin && s.SignedIn()}
}
