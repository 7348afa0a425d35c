// Package auth implements the mock authentication state machine, its persisted store
// and the user repositories it authenticates against.
package auth

import "errors"

// StorageKey is the client storage key holding the signed-in user.
const StorageKey = "user"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
)

// User is the public user record. It never carries the password.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// State is the auth session. IsAuthenticated is derived from User.
type State struct {
	User            *User `json:"user"`
	IsLoading       bool  `json:"is_loading"`
	IsAuthenticated bool  `json:"is_authenticated"`
}

// Action is one of the auth transitions below.
type Action interface {
	Name() string
	isAction()
}

type (
	LoginStart      struct{}
	LoginSuccess    struct{ User User }
	LoginError      struct{}
	Logout          struct{}
	RegisterStart   struct{}
	RegisterSuccess struct{ User User }
	RegisterError   struct{}
	// LoadUser sets the user restored from storage; nil means anonymous.
	LoadUser struct{ User *User }
)

func (LoginStart) Name() string      { return "LOGIN_START" }
func (LoginSuccess) Name() string    { return "LOGIN_SUCCESS" }
func (LoginError) Name() string      { return "LOGIN_ERROR" }
func (Logout) Name() string          { return "LOGOUT" }
func (RegisterStart) Name() string   { return "REGISTER_START" }
func (RegisterSuccess) Name() string { return "REGISTER_SUCCESS" }
func (RegisterError) Name() string   { return "REGISTER_ERROR" }
func (LoadUser) Name() string        { return "LOAD_USER" }

func (LoginStart) isAction()      {}
func (LoginSuccess) isAction()    {}
func (LoginError) isAction()      {}
func (Logout) isAction()          {}
func (RegisterStart) isAction()   {}
func (RegisterSuccess) isAction() {}
func (RegisterError) isAction()   {}
func (LoadUser) isAction()        {}
