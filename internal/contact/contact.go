// Package contact forwards the public contact form to the academic team's mailbox.
package contact

import (
	"context"
	"errors"

	apperrors "laptoploan/pkg/errors"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/model"
	"laptoploan/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

// Forwarder queues a contact message for delivery and reports whether it was accepted.
type Forwarder interface {
	ContactMessage(req *model.ContactRequest) bool
}

type Service struct {
	forwarder Forwarder
	validate  *validator.Validate
	log       *logger.Logger
}

func NewService(forwarder Forwarder, log *logger.Logger) *Service {
	return &Service{
		forwarder: forwarder,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       log,
	}
}

func (s *Service) Send(ctx context.Context, req *model.ContactRequest) error {
	req.Name = sanitizer.SanitizeName(req.Name)
	req.Email = sanitizer.SanitizeEmail(req.Email)
	req.Message = sanitizer.SanitizeFreeText(req.Message)

	if err := s.validate.StructCtx(ctx, req); err != nil {
		key := locale.KeyContactMissingFields
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) == 1 && fieldErrs[0].Tag() == "email" {
			key = locale.KeyContactInvalidEmail
		}
		return apperrors.Validation("contact form validation failed", map[string]any{
			"form": model.FormError{Name: req.Name, Email: req.Email},
		}).WithKey(key)
	}

	if !s.forwarder.ContactMessage(req) {
		s.log.Warn("Contact message not queued", "from", req.Email)
		return apperrors.Unavailable("mail delivery")
	}

	s.log.Info("Contact message queued", "from", req.Email)
	return nil
}
