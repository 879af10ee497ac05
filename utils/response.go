package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"deliciasmz/social"
	"deliciasmz/storage"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

type M map[string]interface{}

// userError is implemented by errors that know their status and the message
// shown to the user.
type userError interface {
	HTTPStatus() int
	UserMessage() string
}

// ErrorStatus maps an error to its HTTP status and user-facing message.
func ErrorStatus(err error) (int, string) {
	var ue userError
	switch {
	case errors.As(err, &ue):
		return ue.HTTPStatus(), ue.UserMessage()
	case errors.Is(err, social.ErrGuest):
		return http.StatusForbidden, "Modo Visitante: Faça login para continuar."
	case errors.Is(err, social.ErrNotSignedIn):
		return http.StatusUnauthorized, "Faça login para continuar."
	case errors.Is(err, social.ErrForbidden):
		return http.StatusForbidden, "Você só pode editar suas próprias receitas."
	case errors.Is(err, social.ErrEmptyText):
		return http.StatusBadRequest, "Escreva alguma coisa antes de enviar."
	case errors.Is(err, social.ErrNoTitle):
		return http.StatusBadRequest, "A receita precisa de um título."
	case errors.Is(err, social.ErrNotFound):
		return http.StatusNotFound, "Receita não encontrada."
	case errors.Is(err, storage.ErrDemoMode), storage.IsUnavailable(err):
		return http.StatusServiceUnavailable, "Modo demonstração: a alteração não foi guardada."
	}
	return http.StatusInternalServerError, "Ocorreu um erro. Tente novamente."
}

// RespondWithErr writes err as a JSON error using ErrorStatus.
func RespondWithErr(w http.ResponseWriter, err error) {
	code, msg := ErrorStatus(err)
	RespondWithError(w, code, msg)
}
