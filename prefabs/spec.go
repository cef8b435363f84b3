package prefabs

import (
	"fmt"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/ecs/system"
	"github.com/milk9111/ghostwave/session"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

func (v Vec3Spec) Vec() common.Vec3 {
	return common.V3(v.X, v.Y, v.Z)
}

func vecs(in []Vec3Spec) []common.Vec3 {
	out := make([]common.Vec3, 0, len(in))
	for _, v := range in {
		out = append(out, v.Vec())
	}
	return out
}

type PursuitSpec struct {
	Speed               float64 `yaml:"speed" json:"speed"`
	StopDistance        float64 `yaml:"stop_distance" json:"stop_distance"`
	RotationSpeed       float64 `yaml:"rotation_speed" json:"rotation_speed"`
	SeparationRadius    float64 `yaml:"separation_radius" json:"separation_radius"`
	SeparationStrength  float64 `yaml:"separation_strength" json:"separation_strength"`
	SeparationSmoothing float64 `yaml:"separation_smoothing" json:"separation_smoothing"`
	HoverOffset         float64 `yaml:"hover_offset" json:"hover_offset"`
	HeightAdjustSpeed   float64 `yaml:"height_adjust_speed" json:"height_adjust_speed"`
}

type PushSpec struct {
	Decay         float64 `yaml:"decay" json:"decay"`
	Threshold     float64 `yaml:"threshold" json:"threshold"`
	ForwardFactor float64 `yaml:"forward_factor" json:"forward_factor"`
}

type AttackSpec struct {
	Damage         float64 `yaml:"damage" json:"damage"`
	Cooldown       float64 `yaml:"cooldown" json:"cooldown,omitempty"`
	Interval       float64 `yaml:"interval" json:"interval,omitempty"`
	KnockbackForce float64 `yaml:"knockback_force" json:"knockback_force,omitempty"`
	SlowMultiplier float64 `yaml:"slow_multiplier" json:"slow_multiplier,omitempty"`
	SlowDuration   float64 `yaml:"slow_duration" json:"slow_duration,omitempty"`
	Effect         string  `yaml:"effect" json:"effect,omitempty"`
}

type DropSpec struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Chance float64 `yaml:"chance" json:"chance"`
}

type RepulsionSpec struct {
	Category uint32 `yaml:"category" json:"category,omitempty"`
	Mask     uint32 `yaml:"mask" json:"mask,omitempty"`
}

type FxSpec struct {
	Death string `yaml:"death" json:"death,omitempty"`
	Hit   string `yaml:"hit" json:"hit,omitempty"`
}

// GhostSpec describes one minion prefab.
type GhostSpec struct {
	Name      string        `yaml:"name" json:"name"`
	Kind      string        `yaml:"kind" json:"kind" jsonschema:"enum=ice,enum=fire,enum=poison"`
	HealthMin int           `yaml:"health_min" json:"health_min"`
	HealthMax int           `yaml:"health_max" json:"health_max"`
	Weakness  string        `yaml:"weakness" json:"weakness,omitempty"`
	Radius    float64       `yaml:"radius" json:"radius"`
	Pursuit   PursuitSpec   `yaml:"pursuit" json:"pursuit"`
	Push      PushSpec      `yaml:"push" json:"push"`
	Attack    AttackSpec    `yaml:"attack" json:"attack"`
	Drops     []DropSpec    `yaml:"drops" json:"drops,omitempty"`
	Repulsion RepulsionSpec `yaml:"repulsion" json:"repulsion"`
	Fx        FxSpec        `yaml:"fx" json:"fx"`
}

type WandSpec struct {
	MaxMana       float64 `yaml:"max_mana" json:"max_mana"`
	CastCost      float64 `yaml:"cast_cost" json:"cast_cost"`
	FireInterval  float64 `yaml:"fire_interval" json:"fire_interval"`
	SlowRecharge  float64 `yaml:"slow_recharge" json:"slow_recharge"`
	FastRecharge  float64 `yaml:"fast_recharge" json:"fast_recharge"`
	RechargeDelay float64 `yaml:"recharge_delay" json:"recharge_delay"`
	Range         float64 `yaml:"range" json:"range"`
	Damage        float64 `yaml:"damage" json:"damage"`
	Element       string  `yaml:"element" json:"element"`
}

// PlayerSpec describes the player prefab and spell tuning.
type PlayerSpec struct {
	Name             string                        `yaml:"name" json:"name"`
	Health           float64                       `yaml:"health" json:"health"`
	Position         Vec3Spec                      `yaml:"position" json:"position"`
	Radius           float64                       `yaml:"radius" json:"radius"`
	Speed            float64                       `yaml:"speed" json:"speed"`
	InteractDistance float64                       `yaml:"interact_distance" json:"interact_distance"`
	Push             PushSpec                      `yaml:"push" json:"push"`
	Wand             WandSpec                      `yaml:"wand" json:"wand"`
	Spells           map[string]system.SpellEffect `yaml:"spells" json:"spells"`
}

type ZonesSpec struct {
	Group     string     `yaml:"group" json:"group"`
	Radius    float64    `yaml:"radius" json:"radius"`
	Delay     float64    `yaml:"delay" json:"delay"`
	Damage    float64    `yaml:"damage" json:"damage"`
	Knockback float64    `yaml:"knockback" json:"knockback"`
	Min       int        `yaml:"min" json:"min"`
	Max       int        `yaml:"max" json:"max"`
	Positions []Vec3Spec `yaml:"positions" json:"positions"`
}

// WitchSpec describes the boss prefab.
type WitchSpec struct {
	Name                   string            `yaml:"name" json:"name"`
	Health                 float64           `yaml:"health" json:"health"`
	Radius                 float64           `yaml:"radius" json:"radius"`
	Weakness               string            `yaml:"weakness" json:"weakness,omitempty"`
	InitialDelay           float64           `yaml:"initial_delay" json:"initial_delay"`
	AttackCooldown         float64           `yaml:"attack_cooldown" json:"attack_cooldown"`
	ShieldDuration         float64           `yaml:"shield_duration" json:"shield_duration"`
	ShieldCounters         map[string]string `yaml:"shield_counters" json:"shield_counters"`
	MinionCap              int               `yaml:"minion_cap" json:"minion_cap"`
	SummonWave             int               `yaml:"summon_wave" json:"summon_wave"`
	SummonDelay            float64           `yaml:"summon_delay" json:"summon_delay"`
	Zones                  ZonesSpec         `yaml:"zones" json:"zones"`
	TeleportPoints         []Vec3Spec        `yaml:"teleport_points" json:"teleport_points"`
	ProximityThreshold     float64           `yaml:"proximity_threshold" json:"proximity_threshold"`
	RequiredStayTime       float64           `yaml:"required_stay_time" json:"required_stay_time"`
	TeleportEffectDuration float64           `yaml:"teleport_effect_duration" json:"teleport_effect_duration"`
	RechargeSpeed          float64           `yaml:"recharge_speed" json:"recharge_speed"`
	FadeDuration           float64           `yaml:"fade_duration" json:"fade_duration"`
	EndingScene            string            `yaml:"ending_scene" json:"ending_scene"`
	PhaseScript            string            `yaml:"phase_script" json:"phase_script,omitempty"`
}

// WavesSpec is the spawner layout and wave list.
type WavesSpec struct {
	SpawnPoints []Vec3Spec    `yaml:"spawn_points" json:"spawn_points"`
	Origin      Vec3Spec      `yaml:"origin" json:"origin"`
	Radius      float64       `yaml:"radius" json:"radius"`
	Waves       []system.Wave `yaml:"waves" json:"waves"`
}

type PickupSpec struct {
	Kind     string  `yaml:"kind" json:"kind"`
	Radius   float64 `yaml:"radius" json:"radius"`
	Fraction float64 `yaml:"fraction" json:"fraction"`
	Lock     float64 `yaml:"lock" json:"lock,omitempty"`
	TTL      float64 `yaml:"ttl" json:"ttl,omitempty"`
}

type PickupsSpec struct {
	Pickups []PickupSpec `yaml:"pickups" json:"pickups"`
}

type KillCounterSpec struct {
	Required     int     `yaml:"required" json:"required"`
	NextScene    string  `yaml:"next_scene" json:"next_scene"`
	FadeDuration float64 `yaml:"fade_duration" json:"fade_duration"`
}

// DifficultySpec configures the session: tier intervals, kill counter, score.
type DifficultySpec struct {
	Default      string                      `yaml:"default" json:"default"`
	Intervals    map[string]session.Interval `yaml:"intervals" json:"intervals"`
	KillCounter  KillCounterSpec             `yaml:"kill_counter" json:"kill_counter"`
	ScorePerKill int                         `yaml:"score_per_kill" json:"score_per_kill"`
}

// Apply copies the spec onto a session.
func (d DifficultySpec) Apply(s *session.Session) error {
	for name, iv := range d.Intervals {
		tier, err := session.ParseTier(name)
		if err != nil {
			return fmt.Errorf("prefabs: difficulty interval: %w", err)
		}
		s.Difficulty.SetInterval(tier, iv)
	}
	s.Kills.Required = d.KillCounter.Required
	s.Kills.NextScene = d.KillCounter.NextScene
	s.Kills.FadeDuration = d.KillCounter.FadeDuration
	if d.ScorePerKill > 0 {
		s.ScorePerKill = d.ScorePerKill
	}
	return nil
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadWitchSpec() (*WitchSpec, error) {
	spec, err := LoadSpec[WitchSpec]("witch.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadWavesSpec() (*WavesSpec, error) {
	spec, err := LoadSpec[WavesSpec]("waves.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadDifficultySpec() (*DifficultySpec, error) {
	spec, err := LoadSpec[DifficultySpec]("difficulty.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ShieldCounterMap converts the configured element names.
func (s WitchSpec) ShieldCounterMap() (map[component.Element]component.Element, error) {
	out := make(map[component.Element]component.Element, len(s.ShieldCounters))
	for from, to := range s.ShieldCounters {
		a, ok := component.ParseElement(from)
		if !ok {
			return nil, fmt.Errorf("prefabs: shield counter: unknown element %q", from)
		}
		b, ok := component.ParseElement(to)
		if !ok {
			return nil, fmt.Errorf("prefabs: shield counter: unknown element %q", to)
		}
		out[a] = b
	}
	return out, nil
}

// SpellTable converts the configured spell tuning.
func (p PlayerSpec) SpellTable() (map[component.Element]system.SpellEffect, error) {
	out := make(map[component.Element]system.SpellEffect, len(p.Spells))
	for name, fx := range p.Spells {
		el, ok := component.ParseElement(name)
		if !ok || el == component.ElementNone {
			return nil, fmt.Errorf("prefabs: spells: unknown element %q", name)
		}
		out[el] = fx
	}
	return out, nil
}
