// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the store layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventline/registration/internal/captcha"
	"github.com/eventline/registration/internal/model"
	"github.com/eventline/registration/internal/store"
)

// ErrBadEmail is returned when the submitted email fails the format check.
var ErrBadEmail = errors.New("email address is not valid")

// ErrBadCaptcha is returned when captcha verification fails.
var ErrBadCaptcha = errors.New("captcha verification failed")

// RegistrationService orchestrates the idempotent registration flow.
type RegistrationService struct {
	store   store.Store
	captcha captcha.Validator // nil when enforcement is disabled
}

// NewRegistrationService constructs a RegistrationService. Pass a nil
// validator to disable captcha enforcement.
func NewRegistrationService(st store.Store, v captcha.Validator) *RegistrationService {
	return &RegistrationService{store: st, captcha: v}
}

// Register returns the registration for an email, creating it on first call.
// isNew reports whether this call created the record; repeat calls for the
// same email return the stored record unchanged with isNew false.
//
// Validation failures (ErrBadEmail, ErrBadCaptcha) are rejected before any
// store access, so a rejected request has no side effects.
func (s *RegistrationService) Register(ctx context.Context, email, token string) (*model.Registration, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !isValidEmail(email) {
		return nil, false, ErrBadEmail
	}
	if s.captcha != nil && !s.captcha.Verify(ctx, token) {
		return nil, false, ErrBadCaptcha
	}

	reg, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return reg, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("look up registration: %w", err)
	}

	reg, err = s.store.Create(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("create registration: %w", err)
	}
	return reg, true, nil
}

// isValidEmail does a basic structural check: one @, non-empty local part,
// and a dot somewhere in the domain.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
