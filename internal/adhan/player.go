// Package adhan decides when the call to prayer sounds and which recording
// plays: a scheduler per location waits for the next prayer, checks the
// notification preference and hands the matching cue to a Player.
package adhan

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chrissnell/muadhin/pkg/config"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
	"go.uber.org/zap"
)

// Cue is a recording to play
type Cue struct {
	Name string `json:"name"`
	File string `json:"file,omitempty"`
}

const (
	FajrCueName    = "fajr"
	RegularCueName = "regular"
)

// Cues maps prayers to recordings. Fajr has its own adhan; every other
// prayer shares the regular one.
type Cues struct {
	Fajr    string
	Regular string
}

// CuesFromConfig reads cue files from the adhan configuration
func CuesFromConfig(cfg config.AdhanData) Cues {
	return Cues{Fajr: cfg.FajrCue, Regular: cfg.RegularCue}
}

// For returns the cue for p. A missing Fajr recording falls back to the
// regular one.
func (c Cues) For(p prayertimes.Prayer) Cue {
	if p == prayertimes.Fajr {
		if c.Fajr != "" {
			return Cue{Name: FajrCueName, File: c.Fajr}
		}
	}
	return Cue{Name: RegularCueName, File: c.Regular}
}

// Player plays a cue, blocking until playback ends or ctx is cancelled
type Player interface {
	Play(ctx context.Context, cue Cue) error
}

// CommandPlayer runs an external audio player with the cue file appended to
// its arguments
type CommandPlayer struct {
	command []string
}

// NewCommandPlayer returns a CommandPlayer for command, e.g. ["mpg123", "-q"]
func NewCommandPlayer(command []string) (*CommandPlayer, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("adhan command must not be empty")
	}
	return &CommandPlayer{command: append([]string(nil), command...)}, nil
}

func (p *CommandPlayer) Play(ctx context.Context, cue Cue) error {
	if cue.File == "" {
		return fmt.Errorf("no recording configured for the %s cue", cue.Name)
	}

	args := append(append([]string(nil), p.command[1:]...), cue.File)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error running %s: %w: %s", p.command[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// LogPlayer only logs; it is used when no audio command is configured
type LogPlayer struct {
	logger *zap.SugaredLogger
}

func NewLogPlayer(logger *zap.SugaredLogger) *LogPlayer {
	return &LogPlayer{logger: logger}
}

func (p *LogPlayer) Play(_ context.Context, cue Cue) error {
	p.logger.Infow("adhan", "cue", cue.Name, "file", cue.File)
	return nil
}

// NewPlayer selects a CommandPlayer when a command is configured and a
// LogPlayer otherwise
func NewPlayer(cfg config.AdhanData, logger *zap.SugaredLogger) (Player, error) {
	if len(cfg.Command) == 0 {
		return NewLogPlayer(logger), nil
	}
	return NewCommandPlayer(cfg.Command)
}
