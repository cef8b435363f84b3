package prefabs

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
)

// ErrUnknownKind is returned when no prefab is registered under a name.
var ErrUnknownKind = errors.New("prefabs: unknown kind")

// GhostFiles are the minion prefabs loaded by LoadDefaults.
var GhostFiles = []string{"ghost_ice.yaml", "ghost_fire.yaml", "ghost_poison.yaml"}

// Registrar receives every spawned actor and pickup. *physics.Index satisfies it.
type Registrar interface {
	Register(e ecs.Entity, pos common.Vec3, radius float64)
	RegisterPickup(e ecs.Entity, pos common.Vec3, radius float64)
}

// Factory builds entities from prefab specs.
type Factory struct {
	rng     *rand.Rand
	index   Registrar
	ghosts  map[string]GhostSpec
	pickups map[string]PickupSpec
}

func NewFactory(rng *rand.Rand, index Registrar) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Factory{
		rng:     rng,
		index:   index,
		ghosts:  make(map[string]GhostSpec),
		pickups: make(map[string]PickupSpec),
	}
}

// LoadDefaults (re)loads the ghost and pickup prefabs.
func (f *Factory) LoadDefaults() error {
	for _, name := range GhostFiles {
		spec, err := LoadSpec[GhostSpec](name)
		if err != nil {
			return err
		}
		if err := f.AddGhost(spec); err != nil {
			return fmt.Errorf("prefabs: %s: %w", name, err)
		}
	}
	pickups, err := LoadSpec[PickupsSpec]("pickups.yaml")
	if err != nil {
		return err
	}
	for _, p := range pickups.Pickups {
		f.AddPickup(p)
	}
	return nil
}

func (f *Factory) AddGhost(spec GhostSpec) error {
	if spec.Name == "" {
		return errors.New("ghost spec has no name")
	}
	if _, ok := component.ParseGhostKind(spec.Kind); !ok {
		return fmt.Errorf("ghost %s: unknown kind %q", spec.Name, spec.Kind)
	}
	if _, ok := component.ParseElement(spec.Weakness); !ok {
		return fmt.Errorf("ghost %s: unknown weakness %q", spec.Name, spec.Weakness)
	}
	f.ghosts[spec.Name] = spec
	return nil
}

func (f *Factory) AddPickup(spec PickupSpec) {
	if spec.Kind != "" {
		f.pickups[spec.Kind] = spec
	}
}

// Kinds lists every spawnable name.
func (f *Factory) Kinds() []string {
	out := make([]string, 0, len(f.ghosts)+len(f.pickups))
	for k := range f.ghosts {
		out = append(out, k)
	}
	for k := range f.pickups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Spawn builds the prefab registered under kind at pos.
func (f *Factory) Spawn(w *ecs.World, kind string, pos common.Vec3) (ecs.Entity, error) {
	if spec, ok := f.ghosts[kind]; ok {
		return f.SpawnGhost(w, spec, pos)
	}
	if spec, ok := f.pickups[kind]; ok {
		return f.SpawnPickup(w, spec, pos)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func (f *Factory) SpawnGhost(w *ecs.World, spec GhostSpec, pos common.Vec3) (ecs.Entity, error) {
	kind, _ := component.ParseGhostKind(spec.Kind)
	weakness, _ := component.ParseElement(spec.Weakness)

	lo, hi := spec.HealthMin, spec.HealthMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	maxHP := float64(lo + f.rng.Intn(hi-lo+1))

	attacker := component.NewAttacker(kind)
	attacker.Damage = spec.Attack.Damage
	attacker.Cooldown = spec.Attack.Cooldown
	attacker.Interval = spec.Attack.Interval
	attacker.KnockbackForce = spec.Attack.KnockbackForce
	attacker.SlowMultiplier = spec.Attack.SlowMultiplier
	attacker.SlowDuration = spec.Attack.SlowDuration
	attacker.Effect = spec.Attack.Effect

	drops := make([]component.Drop, 0, len(spec.Drops))
	for _, d := range spec.Drops {
		drops = append(drops, component.Drop{Kind: component.PickupKind(d.Kind), Chance: d.Chance})
	}

	e := w.CreateEntity()
	err := errors.Join(
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}),
		ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Speed: spec.Pursuit.Speed, SpeedMultiplier: 1}),
		ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Radius: spec.Radius}),
		ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(maxHP)),
		ecs.Add(w, e, component.PursuerComponent.Kind(), &component.Pursuer{
			StopDistance:        spec.Pursuit.StopDistance,
			RotationSpeed:       spec.Pursuit.RotationSpeed,
			SeparationRadius:    spec.Pursuit.SeparationRadius,
			SeparationStrength:  spec.Pursuit.SeparationStrength,
			SeparationSmoothing: spec.Pursuit.SeparationSmoothing,
			HoverOffset:         spec.Pursuit.HoverOffset,
			HeightAdjustSpeed:   spec.Pursuit.HeightAdjustSpeed,
		}),
		ecs.Add(w, e, component.PushComponent.Kind(), pushFromSpec(spec.Push)),
		ecs.Add(w, e, component.AttackerComponent.Kind(), attacker),
		ecs.Add(w, e, component.DropTableComponent.Kind(), &component.DropTable{Entries: drops}),
		ecs.Add(w, e, component.RepulsionLayerComponent.Kind(), &component.RepulsionLayer{Category: spec.Repulsion.Category, Mask: spec.Repulsion.Mask}),
		ecs.Add(w, e, component.MinionTagComponent.Kind(), &component.MinionTag{Kind: kind, Wave: -1}),
		ecs.Add(w, e, component.FxNameComponent.Kind(), &component.FxName{Death: spec.Fx.Death, Hit: spec.Fx.Hit}),
	)
	if weakness != component.ElementNone {
		err = errors.Join(err, ecs.Add(w, e, component.WeaknessComponent.Kind(), &component.Weakness{Element: weakness}))
	}
	if err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("prefabs: spawn %s: %w", spec.Name, err)
	}
	f.register(e, pos, spec.Radius)
	return e, nil
}

func (f *Factory) SpawnPickup(w *ecs.World, spec PickupSpec, pos common.Vec3) (ecs.Entity, error) {
	e := w.CreateEntity()
	err := errors.Join(
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}),
		ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
			Kind:     component.PickupKind(spec.Kind),
			Radius:   spec.Radius,
			Fraction: spec.Fraction,
			Lock:     spec.Lock,
		}),
	)
	if spec.TTL > 0 {
		err = errors.Join(err, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: spec.TTL}))
	}
	if err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("prefabs: spawn %s: %w", spec.Kind, err)
	}
	if f.index != nil {
		f.index.RegisterPickup(e, pos, spec.Radius)
	}
	return e, nil
}

func (f *Factory) SpawnPlayer(w *ecs.World, spec *PlayerSpec) (ecs.Entity, error) {
	if spec == nil {
		return 0, errors.New("prefabs: nil player spec")
	}
	element, ok := component.ParseElement(spec.Wand.Element)
	if !ok || element == component.ElementNone {
		element = component.ElementFire
	}
	pos := spec.Position.Vec()
	health := component.NewHealth(spec.Health)
	health.Outro = true

	e := w.CreateEntity()
	err := errors.Join(
		ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}),
		ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Speed: spec.Speed, SpeedMultiplier: 1}),
		ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Radius: spec.Radius}),
		ecs.Add(w, e, component.HealthComponent.Kind(), health),
		ecs.Add(w, e, component.PushComponent.Kind(), pushFromSpec(spec.Push)),
		ecs.Add(w, e, component.WandComponent.Kind(), &component.Wand{
			Mana:          spec.Wand.MaxMana,
			MaxMana:       spec.Wand.MaxMana,
			CastCost:      spec.Wand.CastCost,
			FireInterval:  spec.Wand.FireInterval,
			SlowRecharge:  spec.Wand.SlowRecharge,
			FastRecharge:  spec.Wand.FastRecharge,
			RechargeDelay: spec.Wand.RechargeDelay,
			Range:         spec.Wand.Range,
			Damage:        spec.Wand.Damage,
			Element:       element,
		}),
	)
	if err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("prefabs: spawn player: %w", err)
	}
	f.register(e, pos, spec.Radius)
	return e, nil
}

// SpawnWitch builds the dormant boss at its first teleport point along with
// its danger zones.
func (f *Factory) SpawnWitch(w *ecs.World, spec *WitchSpec) (ecs.Entity, error) {
	if spec == nil {
		return 0, errors.New("prefabs: nil witch spec")
	}
	counters, err := spec.ShieldCounterMap()
	if err != nil {
		return 0, err
	}
	weakness, ok := component.ParseElement(spec.Weakness)
	if !ok {
		return 0, fmt.Errorf("prefabs: witch: unknown weakness %q", spec.Weakness)
	}
	points := vecs(spec.TeleportPoints)
	var pos common.Vec3
	if len(points) > 0 {
		pos = points[0]
	}
	health := component.NewHealth(spec.Health)
	health.Outro = true

	e := w.CreateEntity()
	err = errors.Join(
		ecs.Add(w, e, component.BossTagComponent.Kind(), &component.BossTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}),
		ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Radius: spec.Radius}),
		ecs.Add(w, e, component.HealthComponent.Kind(), health),
		ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{}),
		ecs.Add(w, e, component.ShieldComponent.Kind(), &component.Shield{}),
		ecs.Add(w, e, component.BossComponent.Kind(), &component.Boss{
			DisplayName:            spec.Name,
			InitialDelay:           spec.InitialDelay,
			AttackCooldown:         spec.AttackCooldown,
			ShieldDuration:         spec.ShieldDuration,
			ShieldCounters:         counters,
			MinionCap:              spec.MinionCap,
			SummonWave:             spec.SummonWave,
			SummonDelay:            spec.SummonDelay,
			ZoneGroup:              spec.Zones.Group,
			ZoneDelay:              spec.Zones.Delay,
			ZoneDamage:             spec.Zones.Damage,
			ZoneKnockback:          spec.Zones.Knockback,
			MinZones:               spec.Zones.Min,
			MaxZones:               spec.Zones.Max,
			TeleportPoints:         points,
			ProximityThreshold:     spec.ProximityThreshold,
			RequiredStayTime:       spec.RequiredStayTime,
			TeleportEffectDuration: spec.TeleportEffectDuration,
			RechargeSpeed:          spec.RechargeSpeed,
			FadeDuration:           spec.FadeDuration,
			EndingScene:            spec.EndingScene,
		}),
		ecs.Add(w, e, component.BossRuntimeComponent.Kind(), &component.BossRuntime{StayPoint: -1}),
	)
	if weakness != component.ElementNone {
		err = errors.Join(err, ecs.Add(w, e, component.WeaknessComponent.Kind(), &component.Weakness{Element: weakness}))
	}
	if err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("prefabs: spawn witch: %w", err)
	}
	f.register(e, pos, spec.Radius)

	for _, p := range spec.Zones.Positions {
		zone := w.CreateEntity()
		_ = ecs.Add(w, zone, component.TransformComponent.Kind(), &component.Transform{Position: p.Vec()})
		_ = ecs.Add(w, zone, component.DangerZoneComponent.Kind(), &component.DangerZone{Group: spec.Zones.Group, Radius: spec.Zones.Radius})
	}
	return e, nil
}

func (f *Factory) register(e ecs.Entity, pos common.Vec3, radius float64) {
	if f.index != nil {
		f.index.Register(e, pos, radius)
	}
}

func pushFromSpec(p PushSpec) *component.Push {
	return &component.Push{Decay: p.Decay, Threshold: p.Threshold, ForwardFactor: p.ForwardFactor}
}
