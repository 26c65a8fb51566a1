package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventline/registration/internal/model"
)

// counterKey is the global sequence. INCR is atomic at the store level,
// which is what makes ticket numbers strictly increasing and gap-free.
const counterKey = "count"

// RedisStore keeps each registration in a hash keyed by the derived id.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// DeriveID maps a normalized email to a stable registration id, so lookups
// need no prior round trip to the store.
func DeriveID(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

func registrationKey(id string) string {
	return "registration:" + id
}

// FindByEmail derives the id from the email and checks the hash for a
// ticketNumber field; a record without one has not been registered.
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*model.Registration, error) {
	id := DeriveID(email)
	fields, err := s.client.HGetAll(ctx, registrationKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get registration %s: %w", id, err)
	}
	if fields["ticketNumber"] == "" {
		return nil, ErrNotFound
	}

	ticket, err := strconv.ParseInt(fields["ticketNumber"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse ticketNumber for %s: %w", id, err)
	}
	createdAt, err := strconv.ParseInt(fields["createdAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse createdAt for %s: %w", id, err)
	}

	return &model.Registration{
		ID:           id,
		Email:        fields["email"],
		TicketNumber: ticket,
		CreatedAt:    createdAt,
		Name:         fields["name"],
		Username:     fields["username"],
	}, nil
}

// Create claims the next ticket number via INCR and writes the record fields.
func (s *RedisStore) Create(ctx context.Context, email string) (*model.Registration, error) {
	ticket, err := s.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("increment ticket counter: %w", err)
	}

	reg := &model.Registration{
		ID:           DeriveID(email),
		Email:        email,
		TicketNumber: ticket,
		CreatedAt:    time.Now().UTC().UnixMilli(),
	}
	err = s.client.HSet(ctx, registrationKey(reg.ID),
		"id", reg.ID,
		"email", reg.Email,
		"ticketNumber", reg.TicketNumber,
		"createdAt", reg.CreatedAt,
	).Err()
	if err != nil {
		return nil, fmt.Errorf("store registration %s: %w", reg.ID, err)
	}
	return reg, nil
}
