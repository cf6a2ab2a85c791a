package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/muadhin/internal/database"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists flags through GORM, normally against Postgres
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open, migrated connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Enabled(ctx context.Context, location string, p prayertimes.Prayer) (bool, error) {
	var pref database.NotificationPreference
	err := g.db.WithContext(ctx).
		Where("location = ? AND prayer = ?", location, p.String()).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("error querying preference %s/%s: %w", location, p, err)
	}
	return pref.Enabled, nil
}

func (g *GormStore) SetEnabled(ctx context.Context, location string, p prayertimes.Prayer, enabled bool) error {
	pref := database.NotificationPreference{
		Location:  location,
		Prayer:    p.String(),
		Enabled:   enabled,
		UpdatedAt: time.Now().UTC(),
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "location"}, {Name: "prayer"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("error storing preference %s/%s: %w", location, p, err)
	}
	return nil
}

func (g *GormStore) List(ctx context.Context, location string) (map[prayertimes.Prayer]bool, error) {
	var prefs []database.NotificationPreference
	if err := g.db.WithContext(ctx).Where("location = ?", location).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("error querying preferences for %s: %w", location, err)
	}

	stored := make(map[prayertimes.Prayer]bool)
	for _, pref := range prefs {
		if p, err := prayertimes.ParsePrayer(pref.Prayer); err == nil {
			stored[p] = pref.Enabled
		}
	}
	return withDefaults(stored), nil
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
