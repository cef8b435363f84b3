package component

import "github.com/milk9111/ghostwave/common"

// BossPhase is one attack behaviour of the boss loop.
type BossPhase int

const (
	PhaseNone BossPhase = iota
	PhaseShield
	PhaseSummon
	PhaseAreaDamage
)

// BossPhases lists the selectable phases.
var BossPhases = []BossPhase{PhaseShield, PhaseSummon, PhaseAreaDamage}

func (p BossPhase) String() string {
	switch p {
	case PhaseShield:
		return "shield"
	case PhaseSummon:
		return "summon"
	case PhaseAreaDamage:
		return "area_damage"
	}
	return "none"
}

// ParseBossPhase maps a script or config name to a phase.
func ParseBossPhase(s string) (BossPhase, bool) {
	for _, p := range BossPhases {
		if p.String() == s {
			return p, true
		}
	}
	return PhaseNone, false
}

// Boss stores data-driven phase and attack-pattern configuration for a boss entity.
type Boss struct {
	DisplayName string

	InitialDelay   float64
	AttackCooldown float64

	ShieldDuration float64
	ShieldCounters map[Element]Element

	MinionCap   int
	SummonWave  int
	SummonDelay float64

	ZoneGroup     string
	ZoneDelay     float64
	ZoneDamage    float64
	ZoneKnockback float64
	MinZones      int
	MaxZones      int

	TeleportPoints         []common.Vec3
	ProximityThreshold     float64
	RequiredStayTime       float64
	TeleportEffectDuration float64

	RechargeSpeed float64
	FadeDuration  float64
	EndingScene   string
}

// BossState is the outer encounter state.
type BossState int

const (
	BossDormant BossState = iota
	BossActive
	BossDefeated
)

func (s BossState) String() string {
	switch s {
	case BossActive:
		return "active"
	case BossDefeated:
		return "defeated"
	}
	return "dormant"
}

// LoopStage is where the phase-selection loop is waiting.
type LoopStage int

const (
	StageIdle LoopStage = iota
	StageInitialDelay
	StageRunning
	StageCooldown
)

// OutroStage tracks the defeat sequence.
type OutroStage int

const (
	OutroNone OutroStage = iota
	OutroRecharge
	OutroFade
	OutroDone
)

// BossRuntime stores runtime-only state for phase progression and pattern selection.
type BossRuntime struct {
	State   BossState
	Stopped bool

	Stage      LoopStage
	StageTimer float64
	Phase      BossPhase
	Last       BossPhase

	// Summon waits SummonTimer before handing off to the spawner.
	SummonPending bool
	SummonTimer   float64

	PointIndex    int
	Teleporting   bool
	TeleportTimer float64
	TeleportTo    int
	StayPoint     int
	StayTimer     float64

	Outro       OutroStage
	DisplayHP   float64
	OutroTimer  float64
	SceneLoaded bool
}

var BossComponent = NewComponent[Boss]()
var BossRuntimeComponent = NewComponent[BossRuntime]()

// Shield blocks damage from every element except Counter while Active.
type Shield struct {
	Active    bool
	Element   Element
	Counter   Element
	Remaining float64
}

// Blocks reports whether a hit of element el is stopped by the shield.
func (s *Shield) Blocks(el Element) bool {
	return s != nil && s.Active && el != s.Counter
}

var ShieldComponent = NewComponent[Shield]()

// DangerZone is a pre-placed area the boss arms during its area-damage phase.
// Zones sharing a Group are controlled together.
type DangerZone struct {
	Group     string
	Radius    float64
	Armed     bool
	Remaining float64
	Damage    float64
	Knockback float64
}

var DangerZoneComponent = NewComponent[DangerZone]()
