package events

import (
	"encoding/json"
	"time"

	"github.com/santiago072004/Tienda/pkg/messaging"
)

type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (e UserRegisteredEvent) Subject() string {
	return messaging.UsersRegisteredSubject
}

func (e UserRegisteredEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
