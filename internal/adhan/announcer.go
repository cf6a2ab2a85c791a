package adhan

import (
	"context"
	"fmt"
	"time"

	"github.com/chrissnell/muadhin/internal/preferences"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Announcement records one adhan that was due
type Announcement struct {
	ID       string             `json:"id"`
	Location string             `json:"location"`
	Prayer   prayertimes.Prayer `json:"-"`
	Name     string             `json:"prayer"`
	At       time.Time          `json:"at"`
	Cue      Cue                `json:"cue"`
	Played   bool               `json:"played"`
}

// Announcer plays the adhan for a due prayer unless its notification is
// disabled
type Announcer struct {
	prefs  preferences.Store
	player Player
	cues   Cues
	logger *zap.SugaredLogger
}

func NewAnnouncer(prefs preferences.Store, player Player, cues Cues, logger *zap.SugaredLogger) *Announcer {
	return &Announcer{
		prefs:  prefs,
		player: player,
		cues:   cues,
		logger: logger,
	}
}

// Announce handles prayer p at location, due at at. The returned
// Announcement has Played false when the notification is disabled.
func (a *Announcer) Announce(ctx context.Context, location string, p prayertimes.Prayer, at time.Time) (Announcement, error) {
	ann := Announcement{
		ID:       uuid.NewString(),
		Location: location,
		Prayer:   p,
		Name:     p.String(),
		At:       at,
		Cue:      a.cues.For(p),
	}

	enabled, err := a.prefs.Enabled(ctx, location, p)
	if err != nil {
		return ann, fmt.Errorf("error reading notification preference: %w", err)
	}
	if !enabled {
		a.logger.Infow("adhan disabled; skipping", "id", ann.ID, "location", location, "prayer", ann.Name)
		return ann, nil
	}

	a.logger.Infow("playing adhan", "id", ann.ID, "location", location, "prayer", ann.Name, "cue", ann.Cue.Name, "at", at)
	if err := a.player.Play(ctx, ann.Cue); err != nil {
		return ann, fmt.Errorf("error playing %s adhan: %w", ann.Name, err)
	}
	ann.Played = true
	return ann, nil
}
