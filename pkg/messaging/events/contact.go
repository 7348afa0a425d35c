package events

import (
	"encoding/json"
	"time"

	"github.com/santiago072004/Tienda/pkg/messaging"
)

type ContactSubmittedEvent struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Topic       string    `json:"subject"`
	Reason      string    `json:"reason,omitempty"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (e ContactSubmittedEvent) Subject() string {
	return messaging.ContactSubmittedSubject
}

func (e ContactSubmittedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
