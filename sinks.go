package main

import (
	"log/slog"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/session"
)

// logSinks stands in for the renderer, HUD and scene loader of a windowed host.
type logSinks struct {
	logger *slog.Logger
}

func (s *logSinks) PlayEffect(name string, pos common.Vec3) {
	s.logger.Debug("fx", "name", name, "x", pos.X, "y", pos.Y, "z", pos.Z)
}

func (s *logSinks) SetFraction(bar session.Bar, fraction float64) {
	s.logger.Debug("ui", "bar", string(bar), "fraction", fraction)
}

func (s *logSinks) LoadScene(name string) {
	s.logger.Info("scene", "name", name)
}
