package recipes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"deliciasmz/kv"
	"deliciasmz/models"
	"deliciasmz/social"
	"deliciasmz/storage"
	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = models.Session{Token: "t-ana", User: models.User{ID: "u-ana", Name: "Ana"}}

func newRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	mem := kv.NewMemory()
	local := storage.NewLocal(mem, storage.NewFavorites(mem, "", nil), nil)
	h := &Handler{Engine: social.NewEngine(local, social.Options{Devices: mem})}

	as := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			switch r.Header.Get("X-Test-User") {
			case "ana":
				r = r.WithContext(utils.WithSession(r.Context(), ana))
			case "guest":
				r = r.WithContext(utils.WithSession(r.Context(), models.Session{User: models.User{ID: models.GuestID}, Guest: true}))
			}
			if d := r.Header.Get("X-Device-ID"); d != "" {
				r = r.WithContext(utils.WithDeviceID(r.Context(), d))
			}
			next(w, r, ps)
		}
	}

	router := httprouter.New()
	router.GET("/api/v1/recipes", as(h.GetRecipes))
	router.GET("/api/v1/recipes/categories", as(h.GetCategories))
	router.GET("/api/v1/recipes/recipe/:id", as(h.GetRecipe))
	router.POST("/api/v1/recipes", as(h.CreateRecipe))
	router.PUT("/api/v1/recipes/recipe/:id", as(h.UpdateRecipe))
	router.DELETE("/api/v1/recipes/recipe/:id", as(h.DeleteRecipe))
	router.POST("/api/v1/recipes/recipe/:id/like", as(h.ToggleLike))
	router.POST("/api/v1/recipes/recipe/:id/comments", as(h.AddComment))
	router.POST("/api/v1/recipes/recipe/:id/comments/:commentid/replies", as(h.AddReply))
	router.GET("/api/v1/favorites", as(h.GetFavorites))
	router.PUT("/api/v1/favorites/:id", as(h.ToggleFavorite))
	return router
}

func do(t *testing.T, router http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "phone")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []models.Recipe {
	t.Helper()
	var list []models.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list), rec.Body.String())
	return list
}

func TestListAndFilter(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/recipes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 5)

	rec = do(t, router, http.MethodGet, "/api/v1/recipes?category=Petiscos", "", "")
	for _, r := range decodeList(t, rec) {
		assert.Equal(t, "Petiscos", r.Category)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/recipes/recipe/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/recipes/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Pratos Principais"`)
}

func TestCreateEditDelete(t *testing.T) {
	router := newRouter(t)

	body := `{"title":"Bolo de Coco","category":"Sobremesas","ingredients":["coco","","açúcar"],"instructions":["misturar"]}`
	rec := do(t, router, http.MethodPost, "/api/v1/recipes", "guest", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/recipes", "ana", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeList(t, rec)[0]
	assert.Equal(t, "Bolo de Coco", created.Title)
	assert.Equal(t, "u-ana", created.Author.ID)
	assert.Equal(t, []string{"coco", "açúcar"}, created.Ingredients)
	assert.Equal(t, "N/A", created.PrepTime)
	assert.Equal(t, 2, created.Servings)

	rec = do(t, router, http.MethodPut, "/api/v1/recipes/recipe/"+created.ID, "ana",
		`{"title":"Bolo de Coco Fofo","category":"Sobremesas","servings":8}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decodeList(t, rec)
	assert.Len(t, list, 6)
	assert.Equal(t, "Bolo de Coco Fofo", list[0].Title)
	assert.Equal(t, 8, list[0].Servings)

	rec = do(t, router, http.MethodPut, "/api/v1/recipes/recipe/rec_001", "ana", `{"title":"Hack"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/recipes/recipe/"+created.ID, "ana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 5)
}

func TestSocialEndpoints(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/recipes/recipe/rec_001/like", "ana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var liked models.Recipe
	for _, r := range decodeList(t, rec) {
		if r.ID == "rec_001" {
			liked = r
		}
	}
	assert.Equal(t, []string{"u-ana"}, liked.LikedBy)

	rec = do(t, router, http.MethodPost, "/api/v1/recipes/recipe/rec_001/comments", "ana", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/recipes/recipe/rec_001/comments", "ana", `{"text":"Muito bom"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/recipes/recipe/rec_001", "", "")
	var got models.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Comments, 1)
	commentID := got.Comments[0].ID

	rec = do(t, router, http.MethodPost, "/api/v1/recipes/recipe/rec_001/comments/"+commentID+"/replies", "ana", `{"text":"Obrigada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/recipes/recipe/rec_001/like", "guest", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Modo Visitante")
}

func TestFavoritesEndpoints(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPut, "/api/v1/favorites/rec_002", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ids":["rec_002"]}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/favorites", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		IDs     []string        `json:"ids"`
		Recipes []models.Recipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"rec_002"}, out.IDs)
	require.Len(t, out.Recipes, 1)
	assert.Equal(t, "rec_002", out.Recipes[0].ID)
}
