package auth

import "context"

// UserRepository is the credential store the auth Store checks against.
type UserRepository interface {
	// Authenticate returns the user whose email and password match exactly.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// Create adds a user with a freshly generated id.
	// Returns ErrUserAlreadyExists if the email is taken.
	Create(ctx context.Context, name, email, password string) (*User, error)
}

// DemoUser is the account every repository is seeded with.
var DemoUser = User{ID: "1", Name: "Usuario Demo", Email: "demo@tiendaonline.com"}

// DemoPassword is the password of DemoUser.
const DemoPassword = "demo123"
