package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"faculty-locator-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	UpsertDirectory(ctx context.Context, members []model.FacultyMember, buildings []model.Building) error
	LoadDirectory(ctx context.Context) ([]model.FacultyMember, []model.Building, error)
	LoadPresence(ctx context.Context, facultyIDs []string) ([]model.PresenceRecord, error)
	SavePresence(ctx context.Context, rec model.PresenceRecord, archived *model.PresenceHistory) error
	PresenceHistory(ctx context.Context, facultyID string, limit int) ([]model.PresenceHistory, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query it directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SavePresence upserts the live record and, when a session closed, archives it
// in the same transaction.
func (s *gormStore) SavePresence(ctx context.Context, rec model.PresenceRecord, archived *model.PresenceHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "faculty_id"}},
			UpdateAll: true,
		}).Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to save presence record for faculty %s: %w", rec.FacultyID, err)
		}

		if archived != nil {
			if err := tx.Create(archived).Error; err != nil {
				return fmt.Errorf("failed to archive presence session for faculty %s: %w", rec.FacultyID, err)
			}
		}
		return nil
	})
}

// LoadPresence returns one record per id, in the given order. Members without a
// stored record get a fresh offline record, which is persisted.
func (s *gormStore) LoadPresence(ctx context.Context, facultyIDs []string) ([]model.PresenceRecord, error) {
	existing, err := s.fetchPresence(ctx, facultyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch presence records: %w", err)
	}

	records := make([]model.PresenceRecord, 0, len(facultyIDs))
	var missing []model.PresenceRecord
	for _, id := range facultyIDs {
		if rec, ok := existing[id]; ok {
			records = append(records, rec)
			continue
		}
		rec := model.NewPresenceRecord(id)
		missing = append(missing, rec)
		records = append(records, rec)
	}

	if len(missing) > 0 {
		log.Printf("Creating %d offline presence records...", len(missing))
		if err := s.db.WithContext(ctx).Create(&missing).Error; err != nil {
			return nil, fmt.Errorf("failed to create presence records: %w", err)
		}
	}
	return records, nil
}

// PresenceHistory returns the most recent archived sessions of a member.
func (s *gormStore) PresenceHistory(ctx context.Context, facultyID string, limit int) ([]model.PresenceHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	var history []model.PresenceHistory
	if err := s.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("period_end DESC").
		Limit(limit).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch presence history for faculty %s: %w", facultyID, err)
	}
	return history, nil
}

// UpsertDirectory writes the static faculty and building metadata.
func (s *gormStore) UpsertDirectory(ctx context.Context, members []model.FacultyMember, buildings []model.Building) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(buildings) > 0 {
			log.Printf("Batch upserting %d buildings...", len(buildings))
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"position", "name", "coord_x", "coord_y", "updated_at"}),
			}).Create(&buildings).Error; err != nil {
				return fmt.Errorf("batch upsert buildings failed: %w", err)
			}
		}

		if len(members) > 0 {
			log.Printf("Batch upserting %d faculty members...", len(members))
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"position", "name", "department", "office", "email", "phone",
					"specializations", "next_class", "coord_x", "coord_y", "building_id", "updated_at",
				}),
			}).Create(&members).Error; err != nil {
				return fmt.Errorf("batch upsert faculty failed: %w", err)
			}
		}
		return nil
	})
}

// LoadDirectory reads every faculty member and building in canonical order.
func (s *gormStore) LoadDirectory(ctx context.Context) ([]model.FacultyMember, []model.Building, error) {
	var members []model.FacultyMember
	if err := s.db.WithContext(ctx).Order("position, id").Find(&members).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load faculty: %w", err)
	}

	var buildings []model.Building
	if err := s.db.WithContext(ctx).Order("position, id").Find(&buildings).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load buildings: %w", err)
	}
	return members, buildings, nil
}

func (s *gormStore) fetchPresence(ctx context.Context, facultyIDs []string) (map[string]model.PresenceRecord, error) {
	var records []model.PresenceRecord
	if len(facultyIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("faculty_id IN ?", facultyIDs).Find(&records).Error; err != nil {
			return nil, err
		}
	}
	recordMap := make(map[string]model.PresenceRecord, len(records))
	for _, r := range records {
		recordMap[r.FacultyID] = r
	}
	return recordMap, nil
}
