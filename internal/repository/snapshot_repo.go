package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is one persisted key-value pair. The whole application state lives
// in three rows of this table, each holding a JSON document.
type Snapshot struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

type SnapshotRepository interface {
	Get(key string) (string, error)
	// PutAll writes every given key in a single transaction, so the three
	// state values are always persisted as one consistency unit.
	PutAll(values map[string]string) error
}

type snapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepository {
	return &snapshotRepo{db}
}

func (r *snapshotRepo) Get(key string) (string, error) {
	var snap Snapshot
	if err := r.db.First(&snap, "key = ?", key).Error; err != nil {
		return "", err
	}
	return snap.Value, nil
}

func (r *snapshotRepo) PutAll(values map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			snap := Snapshot{Key: key, Value: value, UpdatedAt: time.Now()}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&snap).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
