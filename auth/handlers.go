package auth

import (
	"encoding/json"
	"net/http"

	"deliciasmz/models"
	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (s *Service) RegisterHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	reg, err := s.Register(r.Context(), in.Email, in.Password, in.FullName)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, reg)
}

func (s *Service) ConfirmHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.Confirm(r.Context(), in.Token); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "E-mail confirmado. Já pode entrar."})
}

func (s *Service) LoginHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess, err := s.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

func (s *Service) GuestHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, err := s.Guest()
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"session": sess, "message": MsgGuestWelcome})
}

// LogoutHandler expects an authenticated request.
func (s *Service) LogoutHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := utils.SessionFromContext(r.Context())
	if !ok {
		utils.RespondWithErr(w, ErrInvalidToken)
		return
	}
	if err := s.SignOut(r.Context(), sess.Token); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminHandler toggles admin mode: {"enable": true, "password": "..."}
// elevates, {"enable": false} drops back to a regular session.
func (s *Service) AdminHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := utils.SessionFromContext(r.Context())
	if !ok {
		utils.RespondWithErr(w, ErrInvalidToken)
		return
	}
	var in struct {
		Enable   bool   `json:"enable"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		next models.Session
		err  error
		msg  string
	)
	if in.Enable {
		next, err = s.ElevateAdmin(r.Context(), sess, in.Password)
		msg = MsgAdminOn
	} else {
		next, err = s.DropAdmin(r.Context(), sess)
	}
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"session": next, "message": msg})
}
