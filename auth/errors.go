package auth

import "net/http"

// Error is an identity failure carrying the message shown to the user.
type Error struct {
	status int
	msg    string
}

func (e *Error) Error() string       { return e.msg }
func (e *Error) HTTPStatus() int     { return e.status }
func (e *Error) UserMessage() string { return e.msg }

var (
	ErrUserExists         = &Error{http.StatusConflict, "Este usuário já existe. O e-mail informado já está cadastrado."}
	ErrInvalidCredentials = &Error{http.StatusUnauthorized, "E-mail ou senha incorretos."}
	ErrNotConfirmed       = &Error{http.StatusForbidden, "Por favor, confirme seu e-mail antes de entrar."}
	ErrInvalidEmail       = &Error{http.StatusBadRequest, "Informe um e-mail válido."}
	ErrWeakPassword       = &Error{http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres."}
	ErrInvalidToken       = &Error{http.StatusUnauthorized, "Sessão inválida ou expirada. Entre novamente."}
	ErrGuestNotAllowed    = &Error{http.StatusForbidden, "Modo Visitante: Ação não permitida."}
	ErrBadAdminSecret     = &Error{http.StatusForbidden, "Senha de administrador incorreta."}
	ErrAdminDisabled      = &Error{http.StatusForbidden, "Modo admin não configurado."}
)

// Messages shown on success.
const (
	MsgRegistered   = "Conta criada com sucesso! Por favor, verifique seu e-mail para confirmar antes de entrar."
	MsgGuestWelcome = "Você entrou como visitante. Explore à vontade!"
	MsgAdminOn      = "Modo Admin Ativado!"
)
