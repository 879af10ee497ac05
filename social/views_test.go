package social

import (
	"testing"

	"deliciasmz/models"
	"deliciasmz/samples"

	"github.com/stretchr/testify/assert"
)

func TestFilterByCategory(t *testing.T) {
	list := samples.Recipes()
	assert.Len(t, FilterByCategory(list, ""), len(list))
	for _, r := range FilterByCategory(list, "Sobremesas") {
		assert.Equal(t, "Sobremesas", r.Category)
	}
	assert.Empty(t, FilterByCategory(list, "Inexistente"))
	assert.NotNil(t, FilterByCategory(list, "Inexistente"))
}

func TestFavoriteRecipesSkipsStaleIDs(t *testing.T) {
	list := samples.Recipes()
	got := FavoriteRecipes(list, []string{"rec_002", "deleted-id"})
	assert.Len(t, got, 1)
	assert.Equal(t, "rec_002", got[0].ID)
}

func TestCommentsNewestFirst(t *testing.T) {
	r := models.Recipe{Comments: []models.Comment{
		{ID: "old", CreatedAt: "2024-01-01T10:00:00.000Z"},
		{ID: "new", CreatedAt: "2024-03-01T10:00:00.000Z"},
		{ID: "mid", CreatedAt: "2024-02-01T10:00:00.000Z"},
	}}
	got := CommentsNewestFirst(r)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
	assert.Equal(t, "old", r.Comments[0].ID, "input untouched")
}

func TestPopularAndCounts(t *testing.T) {
	list := []models.Recipe{
		{ID: "a", Category: "Petiscos", LikedBy: []string{"x"}},
		{ID: "b", Category: "Petiscos", LikedBy: []string{"x", "y", "z"}},
		{ID: "c", Category: "Bebidas", LikedBy: []string{}},
	}
	top := Popular(list, 2)
	assert.Equal(t, []string{"b", "a"}, []string{top[0].ID, top[1].ID})

	counts := CategoryCounts(list)
	assert.Equal(t, 2, counts["Petiscos"])
	assert.Equal(t, 1, counts["Bebidas"])
	assert.Equal(t, 0, counts["Sobremesas"])
}
