// Package contact validates and submits messages from the storefront contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/santiago072004/Tienda/pkg/messaging"
	"github.com/santiago072004/Tienda/pkg/messaging/events"
)

// DefaultLatency is the simulated time it takes to send a message.
const DefaultLatency = 2 * time.Second

const (
	MsgMissingFields = "Por favor completa todos los campos obligatorios"
	MsgInvalidEmail  = "Por favor ingresa un email válido"
	MsgInvalidReason = "Por favor selecciona un motivo válido"
)

// Message is a contact form submission. Phone and Reason are optional.
type Message struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,contains=@"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required"`
	Reason  string `json:"reason"  validate:"omitempty,oneof=general support order help"`
	Message string `json:"message" validate:"required"`
}

// ValidationError carries the single message shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Service struct {
	validate  *validator.Validate
	publisher messaging.Publisher
	logger    *slog.Logger
	latency   time.Duration
}

func NewService(validate *validator.Validate, publisher messaging.Publisher, logger *slog.Logger, latency time.Duration) *Service {
	return &Service{
		validate:  validate,
		publisher: publisher,
		logger:    logger.With("component", "contact"),
		latency:   latency,
	}
}

// Validate returns a *ValidationError describing the first problem found, or nil.
// Missing fields are reported before a malformed email or reason.
func (s *Service) Validate(msg Message) error {
	err := s.validate.Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate contact message: %w", err)
	}

	result := ""
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			return &ValidationError{Message: MsgMissingFields}
		case "contains":
			result = MsgInvalidEmail
		case "oneof":
			if result == "" {
				result = MsgInvalidReason
			}
		}
	}
	if result == "" {
		result = MsgMissingFields
	}
	return &ValidationError{Message: result}
}

// Submit validates msg, waits for the simulated send and publishes it.
// Nothing is published when validation fails or ctx is cancelled first.
func (s *Service) Submit(ctx context.Context, msg Message) error {
	if err := s.Validate(msg); err != nil {
		return err
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	event := events.ContactSubmittedEvent{
		Name:        msg.Name,
		Email:       msg.Email,
		Phone:       msg.Phone,
		Topic:       msg.Subject,
		Reason:      msg.Reason,
		Message:     msg.Message,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish contact message: %w", err)
	}
	s.logger.InfoContext(ctx, "Contact message submitted", "reason", msg.Reason)
	return nil
}
