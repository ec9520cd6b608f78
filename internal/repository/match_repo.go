package repository

import (
	"context"
	"errors"

	"friendfinder/backend/internal/models"

	"gorm.io/gorm"
)

// MatchRepository persists directed suggestion edges with their score.
// Superseded by on-demand scoring for live suggestions, kept for the
// stored-match endpoints.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a repository bound to the given DB connection.
func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a match edge unless one exists for the directed pair.
func (r *MatchRepository) Create(ctx context.Context, m *models.UserMatch) (bool, error) {
	var existing models.UserMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND matched_user_id = ?", m.UserID, m.MatchedUserID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *MatchRepository) Get(ctx context.Context, id uint) (*models.UserMatch, error) {
	var m models.UserMatch
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns the user's stored matches, best score first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint) ([]models.UserMatch, error) {
	var matches []models.UserMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC, id ASC").
		Preload("MatchedUser").
		Find(&matches).Error
	return matches, err
}

// UpdateStatus sets the match status.
func (r *MatchRepository) UpdateStatus(ctx context.Context, m *models.UserMatch, status models.MatchStatus) error {
	return r.db.WithContext(ctx).Model(m).Update("status", status).Error
}
