package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/ecs/system"
	"github.com/milk9111/ghostwave/physics"
	"github.com/milk9111/ghostwave/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewGameStartsWaves(t *testing.T) {
	g, err := NewGame(Options{Seed: 7, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.spawner.State() != system.SpawnerSpawning {
		t.Fatalf("spawner state = %v", g.spawner.State())
	}
	if got := g.boss.State(g.world, g.witch); got != component.BossDormant {
		t.Fatalf("boss state = %v, want dormant", got)
	}
	if g.script == nil {
		t.Fatalf("embedded phase script should load")
	}
}

func TestNewGameBossOnly(t *testing.T) {
	g, err := NewGame(Options{Seed: 7, BossOnly: true, Difficulty: "hard", Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.sess.Difficulty.Tier() != session.Hard {
		t.Fatalf("tier = %v", g.sess.Difficulty.Tier())
	}
	if got := g.boss.State(g.world, g.witch); got == component.BossDormant {
		t.Fatalf("witch should be awake")
	}
}

func TestNewGameRejectsUnknownTier(t *testing.T) {
	if _, err := NewGame(Options{Difficulty: "nightmare", Logger: quietLogger()}); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestRunAdvancesClock(t *testing.T) {
	g, err := NewGame(Options{Seed: 3, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := run(context.Background(), g, nil, 5, 0.1, quietLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}
	sum := g.Summary()
	if sum.Elapsed < 4.5 {
		t.Fatalf("elapsed = %v", sum.Elapsed)
	}
	if sum.Scene != "" && sum.Scene != GameOverScene && sum.Scene != session.EndingScene {
		t.Fatalf("unexpected scene %q", sum.Scene)
	}
	if err := run(context.Background(), g, nil, 1, 0, quietLogger()); err == nil {
		t.Fatalf("zero dt should fail")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g, err := NewGame(Options{Seed: 3, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, g, nil, 5, 0.1, quietLogger()); err == nil {
		t.Fatalf("cancelled run should report the context error")
	}
}

func TestReloadDispatch(t *testing.T) {
	g, err := NewGame(Options{Seed: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, name := range []string{"waves.yaml", "difficulty.yaml", "witch_phase.tengo", "ghost_ice.yaml", "pickups.yaml", "notes.yaml"} {
		if err := g.Reload(name); err != nil {
			t.Fatalf("reload %s: %v", name, err)
		}
	}
	if err := g.Reload("missing.tengo"); err == nil {
		t.Fatalf("missing script should fail")
	}
}

func TestAutopilotPicksCounterElement(t *testing.T) {
	w := ecs.NewWorld()
	index := physics.NewIndex()

	player := w.CreateEntity()
	_ = ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{})
	_ = ecs.Add(w, player, component.HealthComponent.Kind(), &component.Health{Max: 10, Current: 10})
	_ = ecs.Add(w, player, component.WandComponent.Kind(), &component.Wand{Range: 50, Element: component.ElementFire})
	index.Register(player, common.Vec3{}, 0.5)

	ghost := w.CreateEntity()
	gpos := common.V3(0, 0, 5)
	_ = ecs.Add(w, ghost, component.TransformComponent.Kind(), &component.Transform{Position: gpos})
	_ = ecs.Add(w, ghost, component.HealthComponent.Kind(), &component.Health{Max: 2, Current: 2})
	_ = ecs.Add(w, ghost, component.MinionTagComponent.Kind(), &component.MinionTag{})
	_ = ecs.Add(w, ghost, component.WeaknessComponent.Kind(), &component.Weakness{Element: component.ElementWind})
	index.Register(ghost, gpos, 0.4)

	a := NewAutopilot(index, player, 4)
	a.Update(w)
	if !a.FireHeld() {
		t.Fatalf("autopilot should fire at a live ghost")
	}
	if aim := a.Aim(); aim.Z <= 0 || aim.X != 0 {
		t.Fatalf("aim = %+v", aim)
	}
	slot, ok := a.ElementSlot()
	if !ok || component.Elements[slot] != component.ElementWind {
		t.Fatalf("slot = %d ok=%v", slot, ok)
	}

	_ = ecs.Add(w, ghost, component.ShieldComponent.Kind(), &component.Shield{Active: true, Counter: component.ElementWater})
	a.Update(w)
	if slot, ok := a.ElementSlot(); !ok || component.Elements[slot] != component.ElementWater {
		t.Fatalf("shield counter ignored: slot = %d ok=%v", slot, ok)
	}

	_ = ecs.Add(w, ghost, component.InvulnerableComponent.Kind(), &component.Invulnerable{})
	a.Update(w)
	if a.FireHeld() {
		t.Fatalf("autopilot should hold fire at an invulnerable target")
	}
}

func TestAutopilotInteractIsEdge(t *testing.T) {
	w := ecs.NewWorld()
	player := w.CreateEntity()
	_ = ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{})
	_ = ecs.Add(w, player, component.HealthComponent.Kind(), &component.Health{Max: 10, Current: 10})
	_ = ecs.Add(w, player, component.WandComponent.Kind(), &component.Wand{Range: 50})

	index := physics.NewIndex()
	potion := w.CreateEntity()
	_ = ecs.Add(w, potion, component.TransformComponent.Kind(), &component.Transform{Position: common.V3(1, 0, 0)})
	_ = ecs.Add(w, potion, component.PickupComponent.Kind(), &component.Pickup{Kind: component.PickupHealth})
	index.RegisterPickup(potion, common.V3(1, 0, 0), 1)

	a := NewAutopilot(index, player, 4)
	a.Update(w)
	if !a.InteractPressed() {
		t.Fatalf("first tick in reach should press interact")
	}
	a.Update(w)
	if a.InteractPressed() {
		t.Fatalf("interact should not repeat while held")
	}
}
