package home

import (
	"context"
	"net/http"
	"strings"

	"deliciasmz/models"
	"deliciasmz/social"
	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
)

const popularCount = 4

type Handler struct {
	Engine *social.Engine
}

// GetHomeContent handles all of the landing page endpoints under /home/:apiRoute
func (h *Handler) GetHomeContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	apiRoute := strings.ToLower(ps.ByName("apiRoute"))

	var (
		data interface{}
		err  error
	)

	switch apiRoute {
	case "categories":
		data, err = h.getCategories(r.Context())
	case "popular":
		data, err = h.getPopular(r.Context())
	case "latest":
		data, err = h.getLatest(r.Context())
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Invalid API route")
		return
	}

	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// getCategories returns every category with its recipe count
func (h *Handler) getCategories(ctx context.Context) ([]utils.M, error) {
	list, err := h.Engine.Reload(ctx)
	if err != nil {
		return nil, err
	}
	counts := social.CategoryCounts(list)
	out := make([]utils.M, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, utils.M{"name": c, "count": counts[c]})
	}
	return out, nil
}

// getPopular returns the most liked recipes
func (h *Handler) getPopular(ctx context.Context) ([]models.Recipe, error) {
	list, err := h.Engine.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return social.Popular(list, popularCount), nil
}

func (h *Handler) getLatest(ctx context.Context) ([]models.Recipe, error) {
	list, err := h.Engine.Reload(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > popularCount {
		list = list[:popularCount]
	}
	return list, nil
}
