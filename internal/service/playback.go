package service

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/iradio/internal/domain"
)

// PlaybackState is the transport state of the PlaybackController
type PlaybackState int

const (
	StateUnset PlaybackState = iota
	StateStopped
	StatePlaying
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlaybackController is a thin adapter over a domain.MediaPlayer that owns the
// playback target. Changing the target always goes through a stop first.
type PlaybackController struct {
	player domain.MediaPlayer
	target string
	state  PlaybackState
	logger *slog.Logger
}

// NewPlaybackController creates a controller with no target
func NewPlaybackController(player domain.MediaPlayer, logger *slog.Logger) *PlaybackController {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackController{
		player: player,
		state:  StateUnset,
		logger: logger,
	}
}

// State returns the current transport state
func (c *PlaybackController) State() PlaybackState { return c.state }

// Target returns the loaded URI, empty when unset
func (c *PlaybackController) Target() string { return c.target }

// Load stops current playback and makes uri the new target.
//
// Post-state: Stopped with target uri, or Unset when uri is empty or the
// player rejects it. Load never starts playback.
func (c *PlaybackController) Load(uri string) error {
	if err := c.player.Stop(); err != nil {
		c.logger.Warn("stop before load failed", "error", err)
	}
	c.target = ""
	c.state = StateUnset

	if err := c.player.SetURI(uri); err != nil {
		c.logger.Error("player rejected uri", "uri", uri, "error", err)
		return fmt.Errorf("%w: load: %w", domain.ErrPlayback, err)
	}
	if uri == "" {
		return nil
	}

	c.target = uri
	c.state = StateStopped
	c.logger.Info("target loaded", "uri", uri)
	return nil
}

// Play starts or resumes the target. Without a target the call is passed to
// the player and is otherwise a no-op.
func (c *PlaybackController) Play() error {
	if c.target == "" {
		if err := c.player.Play(); err != nil {
			c.logger.Debug("play without target", "error", err)
		}
		return nil
	}
	if c.state == StatePlaying {
		return nil
	}

	if err := c.player.Play(); err != nil {
		c.logger.Error("play failed", "uri", c.target, "error", err)
		c.state = StateStopped
		return fmt.Errorf("%w: play: %w", domain.ErrPlayback, err)
	}
	c.state = StatePlaying
	return nil
}

// Pause pauses a playing target; in any other state it does nothing
func (c *PlaybackController) Pause() error {
	if c.state != StatePlaying {
		return nil
	}
	if err := c.player.Pause(); err != nil {
		c.logger.Error("pause failed", "uri", c.target, "error", err)
		return fmt.Errorf("%w: pause: %w", domain.ErrPlayback, err)
	}
	c.state = StatePaused
	return nil
}

// Stop halts playback, keeping the target. The controller is Stopped
// afterwards from any state, with or without a target.
func (c *PlaybackController) Stop() error {
	err := c.player.Stop()
	c.state = StateStopped
	if err != nil {
		c.logger.Error("stop failed", "error", err)
		return fmt.Errorf("%w: stop: %w", domain.ErrPlayback, err)
	}
	return nil
}
