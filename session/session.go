package session

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/milk9111/ghostwave/common"
)

// EndingScene stops the run timer when requested.
const EndingScene = "Ending"

// Session is the run-lifetime context handed to every system. It owns the
// difficulty, kill counter, score and timer, and fans out to the host sinks.
type Session struct {
	Logger     *slog.Logger
	Rand       *rand.Rand
	Difficulty *Difficulty
	Kills      *KillCounter

	ScorePerKill int

	Effects EffectSink
	UI      UISink
	Scenes  SceneSink

	score        int
	elapsed      float64
	timerStopped bool
	scene        string
}

// Option customizes a Session.
type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.Logger = l
		}
	}
}

func WithSeed(seed int64) Option {
	return func(s *Session) { s.Rand = rand.New(rand.NewSource(seed)) }
}

func WithDifficulty(t Tier) Option {
	return func(s *Session) { s.Difficulty.SetTier(t) }
}

func WithSinks(fx EffectSink, ui UISink, scenes SceneSink) Option {
	return func(s *Session) {
		s.Effects = fx
		s.UI = ui
		s.Scenes = scenes
	}
}

// New creates a session with a discard logger, seed 1 and Easy difficulty
// unless overridden.
func New(opts ...Option) *Session {
	s := &Session{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Rand:         rand.New(rand.NewSource(1)),
		Difficulty:   NewDifficulty(Easy),
		Kills:        &KillCounter{},
		ScorePerKill: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RandRange draws uniformly from [min, max].
func (s *Session) RandRange(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.Rand.Float64()*(max-min)
}

// RegisterKill bumps the kill counter and score.
func (s *Session) RegisterKill() {
	s.score += s.ScorePerKill
	if s.Kills.Register() {
		s.Logger.Info("session: kill requirement met", "kills", s.Kills.Kills())
	}
}

func (s *Session) Score() int { return s.score }

// Elapsed is the run time in seconds. It stops once the ending is requested.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Scene returns the scene requested so far, if any.
func (s *Session) Scene() string { return s.scene }

// Finished reports whether a scene transition ended the simulation.
func (s *Session) Finished() bool { return s.scene != "" }

// PlayEffect forwards to the effect sink when one is attached.
func (s *Session) PlayEffect(name string, pos common.Vec3) {
	if name == "" {
		return
	}
	if s.Effects == nil {
		s.Logger.Debug("session: no effect sink", "effect", name)
		return
	}
	s.Effects.PlayEffect(name, pos)
}

// SetFraction forwards a clamped gauge value to the UI sink.
func (s *Session) SetFraction(bar Bar, f float64) {
	if s.UI == nil {
		return
	}
	s.UI.SetFraction(bar, common.Clamp01(f))
}

// LoadScene requests a scene transition. Only the first request is honoured
// because a transition ends the simulation.
func (s *Session) LoadScene(name string) bool {
	if name == "" || s.scene != "" {
		return false
	}
	s.scene = name
	if name == EndingScene {
		s.timerStopped = true
	}
	s.Logger.Info("session: load scene", "scene", name, "elapsed", s.elapsed, "score", s.score)
	if s.Scenes == nil {
		s.Logger.Warn("session: no scene sink", "scene", name)
		return true
	}
	s.Scenes.LoadScene(name)
	return true
}

// Update advances the run timer and any pending kill-counter transition.
func (s *Session) Update(dt float64) {
	if !s.timerStopped {
		s.elapsed += dt
	}
	if scene, ok := s.Kills.advance(dt); ok {
		s.LoadScene(scene)
	}
}
