package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/muadhin/internal/log"
	"github.com/chrissnell/muadhin/internal/preferences"
	"github.com/chrissnell/muadhin/internal/timetable"
	"github.com/chrissnell/muadhin/pkg/config"
)

// StorageManager holds the timetable cache and the notification preference
// store shared by every controller
type StorageManager struct {
	Timetable   *timetable.Timetable
	Preferences preferences.Store
}

// NewStorageManager opens the configured preference store and builds the
// timetable. Both are released once ctx is cancelled.
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, c *config.ConfigData) (*StorageManager, error) {
	calc, err := c.Calculation.Calculator()
	if err != nil {
		return nil, fmt.Errorf("invalid calculation settings: %v", err)
	}

	prefs, err := preferences.Open(c.Preferences)
	if err != nil {
		return nil, fmt.Errorf("could not open %s preference store: %v", c.Preferences.Backend, err)
	}
	log.Infof("using %s notification preference store", c.Preferences.Backend)

	s := &StorageManager{
		Timetable:   timetable.New(calc, timetable.DefaultTTL),
		Preferences: prefs,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.close()
	}()

	return s, nil
}

func (s *StorageManager) close() {
	s.Timetable.Close()
	if err := s.Preferences.Close(); err != nil {
		log.Errorf("error closing preference store: %v", err)
	}
}
