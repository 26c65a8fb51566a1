package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveID_DeterministicPerEmail(t *testing.T) {
	a := DeriveID("test@example.com")
	b := DeriveID("test@example.com")
	require.Equal(t, a, b)
	require.Len(t, a, 64) // hex-encoded sha256
}

func TestDeriveID_DistinctEmailsDistinctIDs(t *testing.T) {
	require.NotEqual(t, DeriveID("a@example.com"), DeriveID("b@example.com"))
}

func TestSampleStore_FixedTicketFreshID(t *testing.T) {
	s := NewSampleStore()
	ctx := context.Background()

	first, err := s.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(SampleTicketNumber), first.TicketNumber)
	require.Equal(t, "test@example.com", first.Email)
	require.NotEmpty(t, first.ID)
	require.NotZero(t, first.CreatedAt)

	again, err := s.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(SampleTicketNumber), again.TicketNumber)
	require.NotEqual(t, first.ID, again.ID)
}

func TestSampleStore_LookupsNeverMiss(t *testing.T) {
	s := NewSampleStore()

	reg, err := s.FindByEmail(context.Background(), "anyone@example.com")
	require.NoError(t, err)
	require.NotNil(t, reg)
}
