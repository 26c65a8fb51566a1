package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eventline/registration/internal/model"
)

// SampleTicketNumber is the fixed ticket number handed out in sample mode.
const SampleTicketNumber = 1101

// SampleStore is the no-backend variant used when neither Redis nor Postgres
// is configured. Nothing is persisted: every lookup reports a hit with the
// fixed ticket number and a freshly generated id.
type SampleStore struct{}

// NewSampleStore constructs a SampleStore.
func NewSampleStore() *SampleStore {
	return &SampleStore{}
}

func sampleRegistration(email string) *model.Registration {
	return &model.Registration{
		ID:           uuid.New().String(),
		Email:        email,
		TicketNumber: SampleTicketNumber,
		CreatedAt:    time.Now().UTC().UnixMilli(),
	}
}

// FindByEmail always succeeds so demo requests return HTTP 200.
func (s *SampleStore) FindByEmail(_ context.Context, email string) (*model.Registration, error) {
	return sampleRegistration(email), nil
}

// Create mirrors FindByEmail; it exists to satisfy the Store interface but
// is unreachable in practice since lookups never miss.
func (s *SampleStore) Create(_ context.Context, email string) (*model.Registration, error) {
	return sampleRegistration(email), nil
}
