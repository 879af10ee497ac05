package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"deliciasmz/kv"
	"deliciasmz/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBackend struct {
	rows     []models.RecipeRow
	err      error
	inserted []models.RecipeFields
	owners   []string
	updated  map[string]models.RecipeFields
	deleted  []string
	likes    map[string]bool
	comments []models.CommentRow
	replies  []models.ReplyRow
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{updated: map[string]models.RecipeFields{}, likes: map[string]bool{}}
}

func (f *fakeBackend) FetchRecipes(context.Context) ([]models.RecipeRow, error) {
	return f.rows, f.err
}

func (f *fakeBackend) InsertRecipe(_ context.Context, owner string, fields models.RecipeFields) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.owners = append(f.owners, owner)
	f.inserted = append(f.inserted, fields)
	return primitive.NewObjectID().Hex(), nil
}

func (f *fakeBackend) UpdateRecipe(_ context.Context, id string, fields models.RecipeFields) error {
	if f.err != nil {
		return f.err
	}
	f.updated[id] = fields
	return nil
}

func (f *fakeBackend) DeleteRecipe(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ToggleLike(_ context.Context, recipeID, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := recipeID + "/" + userID
	f.likes[key] = !f.likes[key]
	return f.likes[key], nil
}

func (f *fakeBackend) InsertComment(_ context.Context, recipeID, userID, text string) (models.CommentRow, error) {
	if f.err != nil {
		return models.CommentRow{}, f.err
	}
	rid, _ := primitive.ObjectIDFromHex(recipeID)
	row := models.CommentRow{ID: primitive.NewObjectID(), RecipeID: rid, UserID: userID, Text: text, CreatedAt: time.Now()}
	f.comments = append(f.comments, row)
	return row, nil
}

func (f *fakeBackend) InsertReply(_ context.Context, commentID, userID, text string) (models.ReplyRow, error) {
	if f.err != nil {
		return models.ReplyRow{}, f.err
	}
	cid, _ := primitive.ObjectIDFromHex(commentID)
	row := models.ReplyRow{ID: primitive.NewObjectID(), CommentID: cid, UserID: userID, Text: text, CreatedAt: time.Now()}
	f.replies = append(f.replies, row)
	return row, nil
}

func newRemote(b Backend) *Remote {
	mem := kv.NewMemory()
	return NewRemote(b, NewFavorites(mem, "device-1", nil), nil)
}

var errOffline = fmt.Errorf("%w: connection refused", ErrUnavailable)

func TestRemoteGetRecipesFallsBackOnDisconnection(t *testing.T) {
	backend := newFakeBackend()
	backend.err = errOffline

	list, err := newRemote(backend).GetRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "Matapa com Caranguejo", list[0].Title)
}

func TestRemoteGetRecipesFallsBackOnUnexpectedErrorAndNilBackend(t *testing.T) {
	backend := newFakeBackend()
	backend.err = errors.New("boom")

	list, err := newRemote(backend).GetRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 5)

	list, err = newRemote(nil).GetRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestRemoteGetRecipesMapsRows(t *testing.T) {
	rid := primitive.NewObjectID()
	cid := primitive.NewObjectID()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	backend := newFakeBackend()
	backend.rows = []models.RecipeRow{{
		ID:           rid,
		UserID:       "u1",
		RecipeFields: models.RecipeFields{Title: "Chamuças", Servings: 4},
		Profiles:     []models.ProfileRef{{FullName: "Ana", AvatarURL: "a.png"}},
		Likes:        []models.LikeRow{{UserID: "u2"}, {UserID: "u2"}, {UserID: "u3"}},
		Comments: []models.CommentRow{{
			ID: cid, UserID: "u2", Text: "Bom", CreatedAt: created,
			Replies: []models.ReplyRow{{ID: primitive.NewObjectID(), UserID: "u1", Text: "Obrigada", CreatedAt: created}},
		}},
	}}

	list, err := newRemote(backend).GetRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	r := list[0]
	assert.Equal(t, rid.Hex(), r.ID)
	assert.Equal(t, models.User{ID: "u1", Name: "Ana", Avatar: "a.png"}, r.Author)
	assert.Equal(t, []string{"u2", "u3"}, r.LikedBy)
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Instructions)
	require.Len(t, r.Comments, 1)
	assert.Equal(t, unknownUser, r.Comments[0].UserName)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", r.Comments[0].CreatedAt)
	require.Len(t, r.Comments[0].Replies, 1)
	assert.Equal(t, "Obrigada", r.Comments[0].Replies[0].Text)
}

func TestRemoteSaveRecipeUpdateVersusInsert(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	remote := newRemote(backend)

	existing := primitive.NewObjectID().Hex()
	require.NoError(t, remote.SaveRecipe(ctx, models.Recipe{ID: existing, Title: "Editada"}, "u1"))
	assert.Contains(t, backend.updated, existing)
	assert.Empty(t, backend.inserted)

	require.NoError(t, remote.SaveRecipe(ctx, models.Recipe{ID: "1712345678901", Title: "Nova"}, "u1"))
	require.Len(t, backend.inserted, 1)
	assert.Equal(t, []string{"u1"}, backend.owners)

	draft := models.NewRecipe(models.User{ID: "u2"})
	draft.ID = primitive.NewObjectID().Hex()
	require.NoError(t, remote.SaveRecipe(ctx, draft, "u2"))
	assert.Len(t, backend.inserted, 2, "drafts are inserted even with a record-shaped ID")
}

func TestRemoteSaveRecipeFiltersEmptyLines(t *testing.T) {
	backend := newFakeBackend()
	recipe := models.Recipe{ID: "draft", Ingredients: []string{"a", " ", ""}, Instructions: []string{"", "b"}}
	require.NoError(t, newRemote(backend).SaveRecipe(context.Background(), recipe, "u1"))
	require.Len(t, backend.inserted, 1)
	assert.Equal(t, []string{"a"}, backend.inserted[0].Ingredients)
	assert.Equal(t, []string{"b"}, backend.inserted[0].Instructions)
}

func TestRemoteGuestAndSampleGuards(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	remote := newRemote(backend)
	guest := models.User{ID: models.GuestID, Name: "Visitante"}

	require.NoError(t, remote.SaveRecipe(ctx, models.Recipe{ID: "x"}, models.GuestID))
	require.NoError(t, remote.DeleteRecipe(ctx, "rec_001"))
	require.NoError(t, remote.ToggleLike(ctx, "rec_001", "u1"))
	require.NoError(t, remote.ToggleLike(ctx, primitive.NewObjectID().Hex(), models.GuestID))
	c, err := remote.AddComment(ctx, primitive.NewObjectID().Hex(), "oi", guest)
	require.NoError(t, err)
	assert.Nil(t, c)
	r, err := remote.AddReply(ctx, "rec_002", primitive.NewObjectID().Hex(), "oi", models.User{ID: "u1"})
	require.NoError(t, err)
	assert.Nil(t, r)

	assert.Empty(t, backend.inserted)
	assert.Empty(t, backend.deleted)
	assert.Empty(t, backend.likes)
	assert.Empty(t, backend.comments)
	assert.Empty(t, backend.replies)
}

func TestRemoteWritesSurfaceDemoModeConsistently(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.err = errOffline
	remote := newRemote(backend)
	user := models.User{ID: "u1", Name: "Ana"}
	rid := primitive.NewObjectID().Hex()

	assert.ErrorIs(t, remote.SaveRecipe(ctx, models.Recipe{ID: "draft"}, "u1"), ErrDemoMode)
	assert.ErrorIs(t, remote.ToggleLike(ctx, rid, "u1"), ErrDemoMode)
	_, err := remote.AddComment(ctx, rid, "oi", user)
	assert.ErrorIs(t, err, ErrDemoMode)
	_, err = remote.AddReply(ctx, rid, primitive.NewObjectID().Hex(), "oi", user)
	assert.ErrorIs(t, err, ErrDemoMode)

	assert.NoError(t, remote.DeleteRecipe(ctx, rid), "deletes are best effort")
}

func TestRemoteUnexpectedErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.err = errors.New("permission denied for table recipes")
	remote := newRemote(backend)

	err := remote.SaveRecipe(ctx, models.Recipe{ID: "draft"}, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDemoMode)
	assert.Contains(t, err.Error(), "permission denied")

	assert.Error(t, remote.DeleteRecipe(ctx, primitive.NewObjectID().Hex()))
}

func TestRemoteUnconfiguredWritesAreDemoMode(t *testing.T) {
	remote := newRemote(nil)
	err := remote.SaveRecipe(context.Background(), models.Recipe{ID: "x"}, "u1")
	assert.ErrorIs(t, err, ErrDemoMode)
	assert.ErrorIs(t, err, ErrUnconfigured)
}

func TestRemoteCommentAndReply(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	remote := newRemote(backend)
	rid := primitive.NewObjectID().Hex()

	c, err := remote.AddComment(ctx, rid, "Delicioso!", models.User{ID: "u1", Name: "Ana"})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ana", c.UserName)
	assert.True(t, IsRecordID(c.ID))

	r, err := remote.AddReply(ctx, rid, c.ID, "Obrigado!", models.User{ID: "u2", Name: "Zé"})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "Obrigado!", r.Text)
	require.Len(t, backend.replies, 1)
	assert.Equal(t, c.ID, backend.replies[0].CommentID.Hex())
}

func TestRemoteToggleLikeDelegatesToBackend(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	remote := newRemote(backend)
	rid := primitive.NewObjectID().Hex()

	require.NoError(t, remote.ToggleLike(ctx, rid, "u1"))
	assert.True(t, backend.likes[rid+"/u1"])
	require.NoError(t, remote.ToggleLike(ctx, rid, "u1"))
	assert.False(t, backend.likes[rid+"/u1"])
}

func TestRemoteFavoritesStayLocal(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	remote := newRemote(backend)

	favs, err := remote.ToggleFavorite(ctx, "rec_005")
	require.NoError(t, err)
	assert.Equal(t, []string{"rec_005"}, favs)
	favs, err = remote.GetFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rec_005"}, favs)
	assert.Empty(t, backend.inserted)
}

func TestIsRecordID(t *testing.T) {
	assert.True(t, IsRecordID("65f1a2b3c4d5e6f708091a2b"))
	assert.False(t, IsRecordID("rec_001"))
	assert.False(t, IsRecordID("1712345678901"))
	assert.False(t, IsRecordID("65f1a2b3c4d5e6f708091a2"))
}
