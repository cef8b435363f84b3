package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/system"
	"github.com/milk9111/ghostwave/physics"
	"github.com/milk9111/ghostwave/prefabs"
	"github.com/milk9111/ghostwave/session"
)

// GameOverScene is requested when the player dies.
const GameOverScene = "GameOver"

// Options configures a run.
type Options struct {
	// Difficulty overrides difficulty.yaml's default tier when set.
	Difficulty string
	Seed       int64
	// BossOnly skips the waves and wakes the witch immediately.
	BossOnly   bool
	Logger     *slog.Logger
}

// Game wires the session, world, systems and prefabs for one run.
type Game struct {
	logger  *slog.Logger
	sess    *session.Session
	world   *ecs.World
	index   *physics.Index
	factory *prefabs.Factory

	damage  *system.DamageSystem
	spawner *system.WaveSpawner
	boss    *system.BossSystem
	script  *system.ScriptSelector
	input   *Autopilot

	playerSpec *prefabs.PlayerSpec
	witchSpec  *prefabs.WitchSpec

	player ecs.Entity
	witch  ecs.Entity
}

func NewGame(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	diff, err := prefabs.LoadDifficultySpec()
	if err != nil {
		return nil, err
	}
	tierName := opts.Difficulty
	if tierName == "" {
		tierName = diff.Default
	}
	tier, err := session.ParseTier(tierName)
	if err != nil {
		return nil, err
	}

	sinks := &logSinks{logger: logger}
	sess := session.New(
		session.WithLogger(logger),
		session.WithSeed(opts.Seed),
		session.WithDifficulty(tier),
		session.WithSinks(sinks, sinks, sinks),
	)
	if err := diff.Apply(sess); err != nil {
		return nil, err
	}

	g := &Game{
		logger: logger,
		sess:   sess,
		world:  ecs.NewWorld(),
		index:  physics.NewIndex(),
	}
	g.factory = prefabs.NewFactory(sess.Rand, g.index)
	if err := g.factory.LoadDefaults(); err != nil {
		return nil, err
	}

	if err := g.spawnActors(); err != nil {
		return nil, err
	}
	if err := g.buildSystems(); err != nil {
		return nil, err
	}

	if opts.BossOnly {
		g.boss.StartAttacks(g.world, g.witch)
	} else {
		g.spawner.StartSpawning(g.world)
	}
	logger.Info("game: ready", "difficulty", tier, "seed", opts.Seed, "kinds", strings.Join(g.factory.Kinds(), ","))
	return g, nil
}

func (g *Game) spawnActors() error {
	var err error
	g.playerSpec, err = prefabs.LoadPlayerSpec()
	if err != nil {
		return err
	}
	g.player, err = g.factory.SpawnPlayer(g.world, g.playerSpec)
	if err != nil {
		return err
	}

	g.witchSpec, err = prefabs.LoadWitchSpec()
	if err != nil {
		return err
	}
	g.witch, err = g.factory.SpawnWitch(g.world, g.witchSpec)
	return err
}

func (g *Game) buildSystems() error {
	waves, err := prefabs.LoadWavesSpec()
	if err != nil {
		return err
	}
	spells, err := g.playerSpec.SpellTable()
	if err != nil {
		return err
	}

	effects := system.NewEffectSystem(g.sess)
	g.damage = system.NewDamageSystem(g.sess, effects, g.index, g.factory)
	for el, fx := range spells {
		g.damage.Spells[el] = fx
	}

	g.spawner = system.NewWaveSpawner(g.sess, g.damage, g.factory)
	g.applyWaves(waves)
	g.spawner.Target = g.player

	var selector system.PhaseSelector = system.UniformSelector{}
	if name := g.witchSpec.PhaseScript; name != "" {
		sel, err := g.loadScript(name)
		if err != nil {
			g.logger.Warn("game: phase script disabled", "script", name, "error", err)
		} else {
			g.script = sel
			selector = sel
		}
	}
	g.boss = system.NewBossSystem(g.sess, g.damage, g.spawner, g.index, selector)
	g.boss.Target = g.player

	zones := system.NewDangerZoneSystem(g.sess, g.damage, effects)
	zones.Target = g.player

	g.input = NewAutopilot(g.index, g.player, g.playerSpec.InteractDistance)
	players := system.NewPlayerSystem(g.sess, g.damage, g.index, g.input)
	players.Player = g.player
	pickups := system.NewPickupSystem(g.sess, g.damage, g.index, g.input)
	pickups.Player = g.player
	if d := g.playerSpec.InteractDistance; d > 0 {
		pickups.InteractDistance = d
	}

	g.spawner.OnWaveCleared = func(w *ecs.World, wave int) {
		g.logger.Info("game: wave cleared", "wave", wave, "score", g.sess.Score())
	}
	g.spawner.OnDone = func(w *ecs.World) {
		g.boss.StartAttacks(w, g.witch)
	}
	g.damage.Watch(g.player, func(w *ecs.World, ev system.DeathEvent) {
		g.boss.StopAttacks(w, g.witch)
		g.spawner.StopSpawning()
		g.sess.LoadScene(GameOverScene)
	})

	w := g.world
	w.AddSystem(g.input)
	w.AddSystem(effects)
	w.AddSystem(system.NewPursuitSystem(g.index))
	w.AddSystem(system.NewAttackSystem(g.sess, g.damage, effects))
	w.AddSystem(system.NewKnockbackSystem(g.index))
	w.AddSystem(zones)
	w.AddSystem(g.boss)
	w.AddSystem(g.spawner)
	w.AddSystem(players)
	w.AddSystem(pickups)
	w.AddSystem(system.NewTTLSystem(g.index))
	w.AddSystem(system.NewInvulnerabilitySystem())
	w.AddSystem(ecs.SystemFunc(g.index.Update))
	w.AddSystem(ecs.SystemFunc(func(w *ecs.World) { g.sess.Update(w.Delta()) }))
	return nil
}

func (g *Game) applyWaves(spec *prefabs.WavesSpec) {
	g.spawner.Waves = spec.Waves
	g.spawner.SpawnPoints = nil
	for _, p := range spec.SpawnPoints {
		g.spawner.SpawnPoints = append(g.spawner.SpawnPoints, p.Vec())
	}
	g.spawner.Origin = spec.Origin.Vec()
	g.spawner.Radius = spec.Radius
}

func (g *Game) loadScript(name string) (*system.ScriptSelector, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load phase script %s: %w", name, err)
	}
	return system.NewScriptSelector(name, src, system.UniformSelector{}, g.logger)
}

// Update advances the simulation one fixed step.
func (g *Game) Update(dt float64) {
	g.world.Update(dt)
}

// Finished reports whether a scene transition ended the run.
func (g *Game) Finished() bool {
	return g.sess.Finished()
}

// Reload re-reads an edited prefab or script between ticks.
func (g *Game) Reload(name string) error {
	switch {
	case name == "waves.yaml":
		spec, err := prefabs.LoadWavesSpec()
		if err != nil {
			return err
		}
		g.applyWaves(spec)
	case name == "difficulty.yaml":
		spec, err := prefabs.LoadDifficultySpec()
		if err != nil {
			return err
		}
		if err := spec.Apply(g.sess); err != nil {
			return err
		}
	case filepath.Ext(name) == ".tengo":
		src, err := prefabs.LoadScript(name)
		if err != nil {
			return err
		}
		if g.script == nil {
			sel, err := system.NewScriptSelector(name, src, system.UniformSelector{}, g.logger)
			if err != nil {
				return err
			}
			g.script = sel
			g.boss.SetSelector(sel)
			break
		}
		if err := g.script.Reload(src); err != nil {
			return err
		}
	case name == "pickups.yaml" || strings.HasPrefix(name, "ghost_"):
		if err := g.factory.LoadDefaults(); err != nil {
			return err
		}
	default:
		g.logger.Debug("game: reload ignored", "file", name)
		return nil
	}
	g.logger.Info("game: reloaded", "file", name)
	return nil
}

// Summary describes the end state of a run.
type Summary struct {
	Scene   string
	Elapsed float64
	Score   int
	Kills   int
	Wave    int
	Boss    string
}

func (g *Game) Summary() Summary {
	return Summary{
		Scene:   g.sess.Scene(),
		Elapsed: g.sess.Elapsed(),
		Score:   g.sess.Score(),
		Kills:   g.sess.Kills.Kills(),
		Wave:    g.spawner.CurrentWave(),
		Boss:    g.boss.State(g.world, g.witch).String(),
	}
}
