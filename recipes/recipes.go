package recipes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"deliciasmz/logging"
	"deliciasmz/models"
	"deliciasmz/social"
	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const maxFormSize = 10 << 20

type Handler struct {
	Engine   *social.Engine
	Uploader *utils.Uploader
	Log      *zap.Logger
}

type recipeInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Category     string   `json:"category"`
	PrepTime     string   `json:"prepTime"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

type textInput struct {
	Text string `json:"text"`
}

func actor(r *http.Request) social.Actor {
	sess, _ := utils.SessionFromContext(r.Context())
	return social.ActorFrom(sess)
}

// Get all recipes
func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.Engine.Reload(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, social.FilterByCategory(list, r.URL.Query().Get("category")))
}

// Get one recipe
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipe, err := h.Engine.Recipe(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	recipe.Comments = social.CommentsNewestFirst(recipe)
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// Create
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a := actor(r)
	draft := models.NewRecipe(a.User)
	if !h.decodeRecipe(w, r, &draft) {
		return
	}
	list, err := h.Engine.Save(r.Context(), a, draft)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, list)
}

// Update
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	existing, err := h.Engine.Recipe(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	if !h.decodeRecipe(w, r, &existing) {
		return
	}
	existing.IsNew = false
	list, err := h.Engine.Save(r.Context(), actor(r), existing)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// Delete
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	list, err := h.Engine.Delete(r.Context(), actor(r), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	list, err := h.Engine.ToggleLike(r.Context(), actor(r), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in textInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	list, err := h.Engine.AddComment(r.Context(), actor(r), ps.ByName("id"), in.Text)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, list)
}

func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in textInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	list, err := h.Engine.AddReply(r.Context(), actor(r), ps.ByName("id"), ps.ByName("commentid"), in.Text)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, list)
}

// GetCategories lists the known categories with their recipe counts.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.Engine.Reload(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	counts := social.CategoryCounts(list)
	out := make([]utils.M, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, utils.M{"name": c, "count": counts[c]})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ids, err := h.Engine.Favorites(r.Context(), utils.DeviceID(r.Context()))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	list, err := h.Engine.Reload(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ids": ids, "recipes": social.FavoriteRecipes(list, ids)})
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ids, err := h.Engine.ToggleFavorite(r.Context(), utils.DeviceID(r.Context()), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ids": ids})
}

// decodeRecipe applies a JSON or multipart body onto dst. Multipart bodies
// may carry the image as a file under "image".
func (h *Handler) decodeRecipe(w http.ResponseWriter, r *http.Request, dst *models.Recipe) bool {
	var in recipeInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormSize); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
			return false
		}
		in = recipeInput{
			Title:        r.FormValue("title"),
			Description:  r.FormValue("description"),
			Image:        r.FormValue("image"),
			Category:     r.FormValue("category"),
			PrepTime:     r.FormValue("prepTime"),
			Ingredients:  models.SplitLines(r.FormValue("ingredients")),
			Instructions: models.SplitLines(r.FormValue("instructions")),
		}
		in.Servings, _ = strconv.Atoi(r.FormValue("servings"))
		if files := r.MultipartForm.File["image"]; len(files) > 0 && h.Uploader != nil {
			file, err := files[0].Open()
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Error reading file")
				return false
			}
			defer file.Close()
			url, err := h.Uploader.SaveFile(file, files[0])
			if err != nil {
				logging.OrNop(h.Log).Warn("Recipe image rejected", zap.Error(err))
				utils.RespondWithError(w, http.StatusBadRequest, "Error saving file")
				return false
			}
			in.Image = url
		}
	} else if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	dst.Title = in.Title
	dst.Description = in.Description
	if strings.TrimSpace(in.Image) != "" {
		dst.Image = in.Image
	}
	dst.Category = in.Category
	if strings.TrimSpace(in.PrepTime) != "" {
		dst.PrepTime = in.PrepTime
	}
	if in.Servings > 0 {
		dst.Servings = in.Servings
	}
	dst.Ingredients = models.CleanLines(in.Ingredients)
	dst.Instructions = models.CleanLines(in.Instructions)
	return true
}
