package repository

import (
	"context"
	"math"
	"strings"
	"time"

	"friendfinder/backend/internal/models"

	"gorm.io/gorm"
)

// UserFilter narrows candidate users for search and suggestions. Zero-valued
// fields are ignored.
type UserFilter struct {
	Username   string // substring, case-insensitive
	Location   string // substring, case-insensitive
	Interests  string // substring, case-insensitive
	Activities string // substring, case-insensitive
	LookingFor string // exact category match
	MinAge     *int
	MaxAge     *int

	// MaxDistanceKM applies a bounding-box approximation around the
	// origin coordinates. Precise distance is left to the scorer.
	MaxDistanceKM *float64
	OriginLat     *float64
	OriginLon     *float64
}

// UserRepository provides data access for user accounts and profiles.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a repository bound to the given DB connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Save persists every field of the user, including cleared OTP columns.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// UpdateLocation persists coordinates and refreshes last-active.
func (r *UserRepository) UpdateLocation(ctx context.Context, id uint, lat, lon float64, now time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"latitude":    lat,
			"longitude":   lon,
			"last_active": now.UTC(),
		}).Error
}

// TouchLastActive refreshes the last-active timestamp.
func (r *UserRepository) TouchLastActive(ctx context.Context, id uint, now time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("last_active", now.UTC()).Error
}

// ListByIDs returns the users whose ids exist; missing ids are skipped.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Search returns all users except excludeID matching the filter.
func (r *UserRepository) Search(ctx context.Context, excludeID uint, f UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("id <> ?", excludeID)

	if f.Username != "" {
		query = query.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(f.Username)+"%")
	}
	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Interests != "" {
		query = query.Where("LOWER(interests) LIKE ?", "%"+strings.ToLower(f.Interests)+"%")
	}
	if f.Activities != "" {
		query = query.Where("LOWER(activities) LIKE ?", "%"+strings.ToLower(f.Activities)+"%")
	}
	if f.LookingFor != "" {
		query = query.Where("looking_for = ?", f.LookingFor)
	}
	if f.MinAge != nil {
		query = query.Where("age >= ?", *f.MinAge)
	}
	if f.MaxAge != nil {
		query = query.Where("age <= ?", *f.MaxAge)
	}

	if f.MaxDistanceKM != nil && f.OriginLat != nil && f.OriginLon != nil {
		latDelta := *f.MaxDistanceKM / 110.574
		lonDelta := *f.MaxDistanceKM / (111.320 * math.Cos(*f.OriginLat*math.Pi/180))
		if lonDelta < 0 {
			lonDelta = -lonDelta
		}
		query = query.
			Where("latitude BETWEEN ? AND ?", *f.OriginLat-latDelta, *f.OriginLat+latDelta).
			Where("longitude BETWEEN ? AND ?", *f.OriginLon-lonDelta, *f.OriginLon+lonDelta)
	}

	var users []models.User
	err := query.Order("id").Find(&users).Error
	return users, err
}
