package system

import (
	"errors"
	"testing"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

type spawnerRig struct {
	w       *ecs.World
	sess    *session.Session
	damage  *DamageSystem
	builder *fakeBuilder
	spawner *WaveSpawner
}

func newSpawnerRig(waves ...Wave) *spawnerRig {
	sess, _ := newTestSession()
	w := ecs.NewWorld()
	builder := &fakeBuilder{}
	damage := NewDamageSystem(sess, NewEffectSystem(sess), nil, builder)
	sp := NewWaveSpawner(sess, damage, builder)
	sp.Waves = waves
	sp.SpawnPoints = []common.Vec3{common.V3(5, 0, 5)}
	w.AddSystem(sp)
	return &spawnerRig{w: w, sess: sess, damage: damage, builder: builder, spawner: sp}
}

func (r *spawnerRig) minions() []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(r.w, component.MinionTagComponent.Kind(), func(e ecs.Entity, _ *component.MinionTag) {
		out = append(out, e)
	})
	return out
}

func fixedDelay(d float64) *session.Interval {
	return &session.Interval{Min: d, Max: d}
}

func TestWaveScenarioTimeline(t *testing.T) {
	r := newSpawnerRig(
		Wave{Name: "a", Entries: []SpawnRequest{{Kind: "ghost_a", Count: 2}}, Delay: fixedDelay(1)},
		Wave{Name: "b", Entries: []SpawnRequest{{Kind: "ghost_b", Count: 1}}, Delay: fixedDelay(1)},
	)
	r.spawner.StartSpawning(r.w)

	step(r.w, 0.5, 1)
	if n := len(r.builder.calls); n != 0 {
		t.Fatalf("t=0.5: %d spawns, want 0", n)
	}
	step(r.w, 0.5, 1)
	if n := len(r.builder.calls); n != 1 {
		t.Fatalf("t=1: %d spawns, want 1", n)
	}
	step(r.w, 0.5, 2)
	if n := len(r.builder.calls); n != 2 {
		t.Fatalf("t=2: %d spawns, want 2", n)
	}
	if r.spawner.State() != SpawnerAwaitingClear {
		t.Fatalf("state = %v, want awaiting_clear", r.spawner.State())
	}

	ms := r.minions()
	step(r.w, 0.5, 1)
	r.damage.TakeDamage(r.w, ms[0], 10)
	if r.spawner.WaveLive() != 1 || r.spawner.State() != SpawnerAwaitingClear {
		t.Fatalf("t=2.5: live=%d state=%v", r.spawner.WaveLive(), r.spawner.State())
	}

	step(r.w, 0.5, 1)
	r.damage.TakeDamage(r.w, ms[1], 10)
	if r.spawner.CurrentWave() != 1 || r.spawner.State() != SpawnerSpawning {
		t.Fatalf("t=3: wave=%d state=%v, want wave 1 spawning", r.spawner.CurrentWave(), r.spawner.State())
	}
}

func TestWaveGatesOnLastDeath(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 3}}, Delay: fixedDelay(0)},
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 1}}, Delay: fixedDelay(0)},
	)
	cleared := []int{}
	r.spawner.OnWaveCleared = func(_ *ecs.World, wave int) { cleared = append(cleared, wave) }
	r.spawner.StartSpawning(r.w)
	step(r.w, 0.1, 1)

	ms := r.minions()
	if len(ms) != 3 {
		t.Fatalf("spawned %d, want 3", len(ms))
	}
	for i, e := range ms[:2] {
		r.damage.TakeDamage(r.w, e, 10)
		step(r.w, 0.1, 1)
		if r.spawner.State() != SpawnerAwaitingClear || r.spawner.CurrentWave() != 0 {
			t.Fatalf("after %d deaths: state=%v wave=%d", i+1, r.spawner.State(), r.spawner.CurrentWave())
		}
	}
	r.damage.TakeDamage(r.w, ms[2], 10)
	if r.spawner.CurrentWave() != 1 {
		t.Fatalf("third death should advance, wave=%d", r.spawner.CurrentWave())
	}
	if len(cleared) != 1 || cleared[0] != 0 {
		t.Fatalf("cleared = %v", cleared)
	}
}

func TestSpawnerDoneAndReward(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 1}}, Delay: fixedDelay(0), Reward: "health_potion"},
	)
	done := 0
	r.spawner.OnDone = func(*ecs.World) { done++ }
	r.spawner.StartSpawning(r.w)
	step(r.w, 0.1, 1)

	e := r.minions()[0]
	tr, _ := ecs.Get(r.w, e, component.TransformComponent.Kind())
	tr.Position = common.V3(2, 0, 3)
	r.damage.TakeDamage(r.w, e, 10)

	if r.spawner.State() != SpawnerDone || done != 1 {
		t.Fatalf("state=%v done=%d", r.spawner.State(), done)
	}
	if r.builder.count("health_potion") != 1 {
		t.Fatalf("reward not spawned: %+v", r.builder.calls)
	}
	last := r.builder.calls[len(r.builder.calls)-1]
	if last.pos != common.V3(2, 0, 3) {
		t.Fatalf("reward at %+v, want last death position", last.pos)
	}
}

func TestZeroEntityWaveAdvances(t *testing.T) {
	r := newSpawnerRig(
		Wave{Name: "empty", Reward: "health_potion"},
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 0}}},
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 1}}, Delay: fixedDelay(0)},
	)
	r.spawner.StartSpawning(r.w)
	if r.spawner.CurrentWave() != 2 || r.spawner.State() != SpawnerSpawning {
		t.Fatalf("empty waves should clear instantly, wave=%d state=%v", r.spawner.CurrentWave(), r.spawner.State())
	}
	if r.builder.count("health_potion") != 0 {
		t.Fatalf("empty wave must not grant its reward")
	}
}

func TestEmptyWaveListFinishes(t *testing.T) {
	r := newSpawnerRig()
	done := false
	r.spawner.OnDone = func(*ecs.World) { done = true }
	r.spawner.StartSpawning(r.w)
	if !done || r.spawner.State() != SpawnerDone {
		t.Fatalf("empty wave list should finish immediately")
	}
}

func TestStopSpawningKeepsLiveEntities(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 3}}, Delay: fixedDelay(1)},
	)
	r.spawner.StartSpawning(r.w)
	step(r.w, 1, 1)
	r.spawner.StopSpawning()
	step(r.w, 1, 5)

	if n := len(r.builder.calls); n != 1 {
		t.Fatalf("spawned %d after stop, want 1", n)
	}
	ms := r.minions()
	if len(ms) != 1 || !r.w.IsAlive(ms[0]) {
		t.Fatalf("live entity should survive a stop")
	}
	r.damage.TakeDamage(r.w, ms[0], 10)
	if r.spawner.State() != SpawnerIdle || r.spawner.Live() != 0 {
		t.Fatalf("stale death changed state: %v live=%d", r.spawner.State(), r.spawner.Live())
	}
}

func TestSummonIsDetachedFromWaves(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 2}}, Delay: fixedDelay(0)},
	)
	if r.spawner.Summon(5) {
		t.Fatalf("summon of unknown wave should fail")
	}
	if !r.spawner.Summon(0) {
		t.Fatalf("summon failed")
	}
	step(r.w, 0.1, 1)

	if r.spawner.Live() != 2 || r.spawner.WaveLive() != 0 {
		t.Fatalf("live=%d waveLive=%d", r.spawner.Live(), r.spawner.WaveLive())
	}
	for _, e := range r.minions() {
		tag, _ := ecs.Get(r.w, e, component.MinionTagComponent.Kind())
		if tag.Wave != -1 {
			t.Fatalf("summoned minion tagged with wave %d", tag.Wave)
		}
	}
	if r.spawner.State() != SpawnerIdle {
		t.Fatalf("summon should not start the wave sequence")
	}
}

func TestPendingSummonsAndCancel(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 2}, {Kind: "ghost_b", Count: 1}}, Delay: fixedDelay(1)},
	)
	r.spawner.Summon(0)
	r.spawner.Summon(0)
	if n := r.spawner.Pending(); n != 6 {
		t.Fatalf("pending = %d, want 6", n)
	}

	step(r.w, 0.5, 2)
	if n := len(r.builder.calls); n != 2 {
		t.Fatalf("t=1: %d spawns, want 2", n)
	}
	if n := r.spawner.Pending(); n != 4 {
		t.Fatalf("pending = %d after one spawn per batch, want 4", n)
	}

	r.spawner.CancelSummons()
	if r.spawner.Pending() != 0 {
		t.Fatalf("pending = %d after cancel", r.spawner.Pending())
	}
	step(r.w, 0.5, 10)
	if n := len(r.builder.calls); n != 2 {
		t.Fatalf("cancelled batches kept spawning: %d spawns", n)
	}
	if r.spawner.Live() != 2 {
		t.Fatalf("cancel should keep spawned minions, live = %d", r.spawner.Live())
	}
}

func TestSpawnTargetsPursuers(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 1}}, Delay: fixedDelay(0)},
	)
	player := spawnPlayer(r.w, common.Vec3{}, 50)
	r.spawner.Target = player
	r.spawner.StartSpawning(r.w)
	step(r.w, 0.1, 1)

	p, ok := ecs.Get(r.w, r.minions()[0], component.PursuerComponent.Kind())
	if !ok || ecs.Entity(p.Target) != player {
		t.Fatalf("pursuer target not assigned")
	}
}

func TestSpawnWithoutPointsUsesRadius(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 4}}, Delay: fixedDelay(0)},
	)
	r.spawner.SpawnPoints = nil
	r.spawner.Origin = common.V3(10, 0, 10)
	r.spawner.Radius = 3
	r.spawner.StartSpawning(r.w)
	step(r.w, 0.1, 1)

	for _, c := range r.builder.calls {
		if c.pos.Dist(r.spawner.Origin) > 3+1e-9 {
			t.Fatalf("spawn at %+v outside radius", c.pos)
		}
	}

	r2 := newSpawnerRig()
	r2.spawner.SpawnPoints = nil
	if _, err := r2.spawner.position(); !errors.Is(err, ErrNoSpawnPoint) {
		t.Fatalf("expected ErrNoSpawnPoint, got %v", err)
	}
}

func TestDifficultyDrivesDelay(t *testing.T) {
	r := newSpawnerRig(
		Wave{Entries: []SpawnRequest{{Kind: "ghost", Count: 20}}},
	)
	r.sess.Difficulty.SetTier(session.Hard)
	lo, hi := r.sess.Difficulty.Interval()
	for i := 0; i < 50; i++ {
		d := r.spawner.delay(r.spawner.Waves[0])
		if d < lo || d > hi {
			t.Fatalf("delay %v outside [%v,%v]", d, lo, hi)
		}
	}
}
