package chef

import (
	"encoding/json"
	"net/http"
	"strings"

	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
)

func (c *Chef) RecipeHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Ingredients string `json:"ingredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Ingredients) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Informe os ingredientes.")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"text": c.RecipeFromIngredients(r.Context(), in.Ingredients)})
}

func (c *Chef) TipHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Informe o nome do prato.")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"text": c.Tip(r.Context(), in.Title)})
}
