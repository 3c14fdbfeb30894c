package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// CheckpointStore defines the interface for storing and retrieving processing checkpoints
type CheckpointStore interface {
	// GetCheckpoint retrieves the last persisted transaction version of a processor
	GetCheckpoint(ctx context.Context, processor string) (uint64, bool, error)
	// SetCheckpoint moves the checkpoint of a processor forward. Older versions are ignored.
	SetCheckpoint(ctx context.Context, processor string, version uint64, timestamp time.Time) error
}

type checkpointStore struct {
	db *gorm.DB
}

// NewCheckpointStore creates a new checkpoint store
func NewCheckpointStore(db *gorm.DB) CheckpointStore {
	return &checkpointStore{db: db}
}

// GetCheckpoint retrieves the last persisted transaction version of a processor.
// The boolean is false when the processor has never persisted a round.
func (s *checkpointStore) GetCheckpoint(ctx context.Context, processor string) (uint64, bool, error) {
	db := s.db
	if hasDBResolver(db) {
		// Replica can lag behind primary; checkpoints are always read from primary.
		db = db.Clauses(dbresolver.Write)
	}

	var status schema.ProcessorStatus
	err := db.WithContext(ctx).Where("processor = ?", processor).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return uint64(status.LastSuccessVersion), true, nil //nolint:gosec,G115
}

// SetCheckpoint moves the checkpoint of a processor forward
func (s *checkpointStore) SetCheckpoint(ctx context.Context, processor string, version uint64, timestamp time.Time) error {
	ts := timestamp.UTC()
	status := schema.ProcessorStatus{
		Processor:                processor,
		LastSuccessVersion:       int64(version), //nolint:gosec,G115
		LastTransactionTimestamp: &ts,
		UpdatedAt:                time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "processor"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_success_version", "last_transaction_timestamp", "updated_at"}),
		Where:     versionGuard(schema.ProcessorStatus{}.TableName(), "last_success_version"),
	}).Create(&status).Error
	if err != nil {
		return fmt.Errorf("failed to set checkpoint: %w", err)
	}

	return nil
}
