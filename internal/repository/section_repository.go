package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edupanel/edupanel-go/internal/models"
)

// SectionRepository manages persistence for sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns all sections, newest first.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	const query = `SELECT id, section_name, start_time, end_time, created_at FROM sections ORDER BY created_at DESC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID returns a section record by ID.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT id, section_name, start_time, end_time, created_at FROM sections WHERE id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// ExistsByName checks if a section with the same name already exists.
func (r *SectionRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM sections WHERE LOWER(section_name) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check section name: %w", err)
	}
	return true, nil
}

// Create persists a section record and fills in the generated ID.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.CreatedAt.IsZero() {
		section.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO sections (section_name, start_time, end_time, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &section.ID, query, section.SectionName, section.StartTime, section.EndTime, section.CreatedAt); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Delete removes a section record.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

// CountClasses returns how many classes reference the section.
func (r *SectionRepository) CountClasses(ctx context.Context, sectionID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM classes WHERE section_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sectionID); err != nil {
		return 0, fmt.Errorf("count section classes: %w", err)
	}
	return count, nil
}
