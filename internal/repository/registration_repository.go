package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// DefaultStoreKey is the key the record list is stored under when none is configured.
const DefaultStoreKey = "dtf_registrations"

// KeyValueStore is a durable byte store addressed by key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Name() string
	Close() error
}

// RegistrationRepository persists the whole ordered record list as a single
// JSON array under one key.
type RegistrationRepository struct {
	store KeyValueStore
	key   string
}

// NewRegistrationRepository constructs the repository; an empty key uses DefaultStoreKey.
func NewRegistrationRepository(store KeyValueStore, key string) *RegistrationRepository {
	if key == "" {
		key = DefaultStoreKey
	}
	return &RegistrationRepository{store: store, key: key}
}

// Key returns the storage key in use.
func (r *RegistrationRepository) Key() string {
	return r.key
}

// Driver names the backing store.
func (r *RegistrationRepository) Driver() string {
	return r.store.Name()
}

// LoadAll returns every stored record in registration order. A missing key
// yields an empty list.
func (r *RegistrationRepository) LoadAll(ctx context.Context) ([]models.EnrollmentRecord, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, appErrors.ErrStoreMiss) {
			return []models.EnrollmentRecord{}, nil
		}
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	if len(raw) == 0 {
		return []models.EnrollmentRecord{}, nil
	}
	var records []models.EnrollmentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	if records == nil {
		records = []models.EnrollmentRecord{}
	}
	return records, nil
}

// SaveAll overwrites the stored list.
func (r *RegistrationRepository) SaveAll(ctx context.Context, records []models.EnrollmentRecord) error {
	if records == nil {
		records = []models.EnrollmentRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode registrations: %w", err)
	}
	if err := r.store.Set(ctx, r.key, payload); err != nil {
		return fmt.Errorf("save registrations: %w", err)
	}
	return nil
}

// Ping checks the backing store.
func (r *RegistrationRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
