package system

import (
	"math"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// zoneTail keeps the area-damage phase open briefly after its zones resolve.
const zoneTail = 0.1

// DefaultShieldCounters maps a shield's element to the element that gets
// through it.
var DefaultShieldCounters = map[component.Element]component.Element{
	component.ElementFire:  component.ElementWater,
	component.ElementWater: component.ElementFire,
	component.ElementWind:  component.ElementWind,
}

// BossSystem runs the boss encounter: the phase-selection loop, shields,
// summons, area damage, proximity teleports and the defeat sequence.
type BossSystem struct {
	sess     *session.Session
	damage   *DamageSystem
	spawner  *WaveSpawner
	index    SpatialIndex
	selector PhaseSelector

	Target ecs.Entity
}

func NewBossSystem(sess *session.Session, damage *DamageSystem, spawner *WaveSpawner, index SpatialIndex, selector PhaseSelector) *BossSystem {
	if selector == nil {
		selector = UniformSelector{}
	}
	return &BossSystem{
		sess:     sess,
		damage:   damage,
		spawner:  spawner,
		index:    orNopIndex(index),
		selector: selector,
	}
}

// SetSelector swaps the phase selector, e.g. after a script reload.
func (s *BossSystem) SetSelector(sel PhaseSelector) {
	if sel != nil {
		s.selector = sel
	}
}

// StartAttacks wakes a dormant boss: it becomes damageable and the phase loop
// begins after the initial delay.
func (s *BossSystem) StartAttacks(w *ecs.World, e ecs.Entity) bool {
	boss, rt, ok := s.lookup(w, e)
	if !ok || rt.State != component.BossDormant || rt.Stopped {
		return false
	}
	rt.State = component.BossActive
	rt.Stage = component.StageInitialDelay
	rt.StageTimer = boss.InitialDelay
	rt.StayPoint = -1

	ecs.Remove(w, e, component.InvulnerableComponent.Kind())
	if s.damage != nil {
		s.damage.Watch(e, s.onDefeat)
	}
	if hp, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		s.sess.SetFraction(session.BarBossHealth, hp.Fraction())
	}
	s.sess.Logger.Info("boss: attacks started", "entity", e, "name", boss.DisplayName)
	return true
}

// StopAttacks ends the loop for good and cancels everything in flight.
func (s *BossSystem) StopAttacks(w *ecs.World, e ecs.Entity) {
	boss, rt, ok := s.lookup(w, e)
	if !ok || rt.Stopped {
		return
	}
	rt.Stopped = true
	s.cancel(w, e, boss, rt)
	s.sess.Logger.Info("boss: attacks stopped", "entity", e)
}

// Phase returns the running phase, or PhaseNone.
func (s *BossSystem) Phase(w *ecs.World, e ecs.Entity) component.BossPhase {
	if _, rt, ok := s.lookup(w, e); ok && rt.Stage == component.StageRunning {
		return rt.Phase
	}
	return component.PhaseNone
}

// Shielded reports whether e has an active shield.
func (s *BossSystem) Shielded(w *ecs.World, e ecs.Entity) bool {
	shield, ok := ecs.Get(w, e, component.ShieldComponent.Kind())
	return ok && shield.Active
}

// State returns the encounter state of e.
func (s *BossSystem) State(w *ecs.World, e ecs.Entity) component.BossState {
	if _, rt, ok := s.lookup(w, e); ok {
		return rt.State
	}
	return component.BossDormant
}

func (s *BossSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach3(w,
		component.BossComponent.Kind(),
		component.BossRuntimeComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, boss *component.Boss, rt *component.BossRuntime, tr *component.Transform) {
			switch rt.State {
			case component.BossDefeated:
				s.updateOutro(w, e, boss, rt, dt)
				return
			case component.BossDormant:
				return
			}
			if rt.Stopped {
				return
			}

			s.tickShield(w, e, dt)
			s.updateTeleport(w, e, boss, rt, tr, dt)
			s.updateLoop(w, e, boss, rt, tr, dt)
		})
}

func (s *BossSystem) updateLoop(w *ecs.World, e ecs.Entity, boss *component.Boss, rt *component.BossRuntime, tr *component.Transform, dt float64) {
	switch rt.Stage {
	case component.StageInitialDelay, component.StageCooldown:
		rt.StageTimer -= dt
		if rt.StageTimer > 0 {
			return
		}
		if rt.Teleporting {
			// No phase may start mid-teleport; retry next tick.
			rt.StageTimer = 0
			return
		}
		s.beginPhase(w, e, boss, rt, tr)
	case component.StageRunning:
		rt.StageTimer -= dt
		if rt.StageTimer > 0 {
			return
		}
		if rt.Phase == component.PhaseSummon && rt.SummonPending {
			rt.SummonPending = false
			if s.spawner != nil {
				s.spawner.Summon(boss.SummonWave)
			}
		}
		s.sess.Logger.Debug("boss: phase done", "entity", e, "phase", rt.Phase)
		rt.Last = rt.Phase
		rt.Phase = component.PhaseNone
		rt.Stage = component.StageCooldown
		rt.StageTimer = boss.AttackCooldown
	}
}

func (s *BossSystem) beginPhase(w *ecs.World, e ecs.Entity, boss *component.Boss, rt *component.BossRuntime, tr *component.Transform) {
	// Queued summons count against the cap as if they had already spawned.
	live := 0
	if s.spawner != nil {
		live = s.spawner.Live() + s.spawner.Pending()
	}
	ctx := PhaseContext{
		LiveMinions:  live,
		MinionCap:    boss.MinionCap,
		ShieldActive: s.Shielded(w, e),
		Last:         rt.Last,
		Roll:         s.sess.Rand.Float64(),
	}
	if hp, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		ctx.HealthFraction = hp.Fraction()
	}

	phase := s.selector.Select(ctx)
	if phase == component.PhaseSummon && live >= boss.MinionCap {
		phase = substitutePhase(s.sess.Rand)
		s.sess.Logger.Info("boss: summon capped", "entity", e, "live", live, "cap", boss.MinionCap, "substitute", phase)
	}

	rt.Phase = phase
	rt.Stage = component.StageRunning
	s.sess.Logger.Debug("boss: phase start", "entity", e, "phase", phase)

	switch phase {
	case component.PhaseShield:
		// The shield times itself out; the phase ends as soon as it is up.
		s.activateShield(w, e, boss, tr.Position)
		rt.StageTimer = 0
	case component.PhaseSummon:
		s.sess.PlayEffect("summon", tr.Position)
		rt.SummonPending = true
		rt.StageTimer = boss.SummonDelay
	case component.PhaseAreaDamage:
		armed := s.armZones(w, boss)
		rt.StageTimer = boss.ZoneDelay + zoneTail
		if armed == 0 {
			s.sess.Logger.Warn("boss: no danger zones", "entity", e, "group", boss.ZoneGroup)
			rt.StageTimer = zoneTail
		}
	}
}

// activateShield raises a shield of a random element for ShieldDuration.
func (s *BossSystem) activateShield(w *ecs.World, e ecs.Entity, boss *component.Boss, pos common.Vec3) {
	el := component.Elements[s.sess.Rand.Intn(len(component.Elements))]
	counter, ok := boss.ShieldCounters[el]
	if !ok {
		counter = DefaultShieldCounters[el]
	}
	shield, ok := ecs.Get(w, e, component.ShieldComponent.Kind())
	if !ok {
		shield = &component.Shield{}
		_ = ecs.Add(w, e, component.ShieldComponent.Kind(), shield)
	}
	shield.Active = true
	shield.Element = el
	shield.Counter = counter
	shield.Remaining = boss.ShieldDuration
	s.sess.PlayEffect("shield_"+el.String(), pos)
}

func (s *BossSystem) tickShield(w *ecs.World, e ecs.Entity, dt float64) {
	shield, ok := ecs.Get(w, e, component.ShieldComponent.Kind())
	if !ok || !shield.Active {
		return
	}
	shield.Remaining -= dt
	if shield.Remaining <= 0 {
		shield.Active = false
		shield.Remaining = 0
		s.sess.Logger.Debug("boss: shield down", "entity", e)
	}
}

// armZones arms a random subset of distinct zones and returns how many.
func (s *BossSystem) armZones(w *ecs.World, boss *component.Boss) int {
	zones := zonesInGroup(w, boss.ZoneGroup)
	if len(zones) == 0 {
		return 0
	}
	lo, hi := boss.MinZones, boss.MaxZones
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	n := lo + s.sess.Rand.Intn(hi-lo+1)
	if n > len(zones) {
		n = len(zones)
	}
	for _, i := range s.sess.Rand.Perm(len(zones))[:n] {
		zone, _ := ecs.Get(w, zones[i], component.DangerZoneComponent.Kind())
		zone.Armed = true
		zone.Remaining = boss.ZoneDelay
		zone.Damage = boss.ZoneDamage
		zone.Knockback = boss.ZoneKnockback
		if pos, ok := positionOf(w, zones[i]); ok {
			s.sess.PlayEffect("danger_zone", pos)
		}
	}
	return n
}

func (s *BossSystem) updateTeleport(w *ecs.World, e ecs.Entity, boss *component.Boss, rt *component.BossRuntime, tr *component.Transform, dt float64) {
	if rt.Teleporting {
		rt.TeleportTimer -= dt
		if rt.TeleportTimer > 0 {
			return
		}
		rt.Teleporting = false
		rt.PointIndex = rt.TeleportTo
		tr.Position = boss.TeleportPoints[rt.TeleportTo]
		s.index.Move(e, tr.Position)
		s.sess.Logger.Debug("boss: teleported", "entity", e, "point", rt.PointIndex)
		return
	}

	targetPos, ok := positionOf(w, s.Target)
	if !ok || len(boss.TeleportPoints) < 2 {
		return
	}
	candidate := -1
	best := math.Inf(1)
	for i, p := range boss.TeleportPoints {
		if i == rt.PointIndex {
			continue
		}
		d := targetPos.Sub(p).Flat().Len()
		if d <= boss.ProximityThreshold && d < best {
			candidate, best = i, d
		}
	}
	if candidate < 0 {
		rt.StayPoint = -1
		rt.StayTimer = 0
		return
	}
	if candidate != rt.StayPoint {
		rt.StayPoint = candidate
		rt.StayTimer = 0
	}
	rt.StayTimer += dt
	if rt.StayTimer < boss.RequiredStayTime {
		return
	}
	if rt.Stage == component.StageRunning {
		// Teleports wait for the running phase to finish.
		return
	}

	rt.Teleporting = true
	rt.TeleportTimer = boss.TeleportEffectDuration
	rt.TeleportTo = candidate
	rt.StayPoint = -1
	rt.StayTimer = 0
	s.sess.PlayEffect("teleport", tr.Position)
	s.sess.PlayEffect("teleport", boss.TeleportPoints[candidate])
	s.sess.Logger.Debug("boss: teleport start", "entity", e, "to", candidate)
}

// onDefeat runs inside the tick whose damage emptied the boss's health.
func (s *BossSystem) onDefeat(w *ecs.World, ev DeathEvent) {
	boss, rt, ok := s.lookup(w, ev.Entity)
	if !ok || rt.State == component.BossDefeated {
		return
	}
	s.cancel(w, ev.Entity, boss, rt)
	rt.Stopped = true
	rt.State = component.BossDefeated
	rt.Outro = component.OutroRecharge
	rt.DisplayHP = 0
	_ = ecs.Add(w, ev.Entity, component.InvulnerableComponent.Kind(), &component.Invulnerable{})
	s.sess.PlayEffect("boss_outro", ev.Position)
	s.sess.Logger.Info("boss: defeated", "entity", ev.Entity)
}

func (s *BossSystem) updateOutro(w *ecs.World, e ecs.Entity, boss *component.Boss, rt *component.BossRuntime, dt float64) {
	hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return
	}
	switch rt.Outro {
	case component.OutroRecharge:
		rate := boss.RechargeSpeed * hp.Max
		if rate <= 0 {
			rt.DisplayHP = hp.Max
		} else {
			rt.DisplayHP = math.Min(hp.Max, rt.DisplayHP+dt*rate)
		}
		s.sess.SetFraction(session.BarBossHealth, rt.DisplayHP/hp.Max)
		if rt.DisplayHP >= hp.Max {
			rt.Outro = component.OutroFade
			rt.OutroTimer = boss.FadeDuration
		}
	case component.OutroFade:
		rt.OutroTimer -= dt
		if rt.OutroTimer > 0 {
			return
		}
		rt.Outro = component.OutroDone
		hp.State = component.Dead
		if !rt.SceneLoaded {
			rt.SceneLoaded = true
			scene := boss.EndingScene
			if scene == "" {
				scene = session.EndingScene
			}
			s.sess.LoadScene(scene)
		}
	}
}

func (s *BossSystem) cancel(w *ecs.World, e ecs.Entity, boss *component.Boss, rt *component.BossRuntime) {
	rt.Stage = component.StageIdle
	rt.StageTimer = 0
	rt.Phase = component.PhaseNone
	rt.SummonPending = false
	rt.Teleporting = false
	rt.TeleportTimer = 0
	rt.StayPoint = -1
	rt.StayTimer = 0
	if shield, ok := ecs.Get(w, e, component.ShieldComponent.Kind()); ok {
		shield.Active = false
		shield.Remaining = 0
	}
	disarmZones(w, boss.ZoneGroup)
	if s.spawner != nil {
		s.spawner.CancelSummons()
	}
}

func (s *BossSystem) lookup(w *ecs.World, e ecs.Entity) (*component.Boss, *component.BossRuntime, bool) {
	boss, ok := ecs.Get(w, e, component.BossComponent.Kind())
	if !ok {
		return nil, nil, false
	}
	rt, ok := ecs.Get(w, e, component.BossRuntimeComponent.Kind())
	if !ok {
		return nil, nil, false
	}
	return boss, rt, true
}
