package system

import (
	"errors"
	"math"

	"github.com/milk9111/ghostwave/common"
	"github.com/milk9111/ghostwave/ecs"
	"github.com/milk9111/ghostwave/ecs/component"
	"github.com/milk9111/ghostwave/session"
)

// ErrNoSpawnPoint is reported when neither spawn points nor a spawn radius
// are configured.
var ErrNoSpawnPoint = errors.New("spawner: no spawn point configured")

// SpawnRequest asks for Count entities of prefab Kind.
type SpawnRequest struct {
	Kind  string `yaml:"kind" json:"kind"`
	Count int    `yaml:"count" json:"count"`
}

// Wave is an ordered manifest of spawn requests.
type Wave struct {
	Name    string         `yaml:"name" json:"name,omitempty"`
	Entries []SpawnRequest `yaml:"entries" json:"entries"`
	// Delay overrides the difficulty interval for this wave.
	Delay *session.Interval `yaml:"delay,omitempty" json:"delay,omitempty"`
	// Reward is spawned where the last minion of the wave died.
	Reward string `yaml:"reward,omitempty" json:"reward,omitempty"`
}

// Total is the number of entities the wave will request.
func (wv Wave) Total() int {
	n := 0
	for _, r := range wv.Entries {
		if r.Count > 0 {
			n += r.Count
		}
	}
	return n
}

// SpawnerState is the wave progression state.
type SpawnerState int

const (
	SpawnerIdle SpawnerState = iota
	SpawnerSpawning
	SpawnerAwaitingClear
	SpawnerDone
)

func (s SpawnerState) String() string {
	switch s {
	case SpawnerSpawning:
		return "spawning"
	case SpawnerAwaitingClear:
		return "awaiting_clear"
	case SpawnerDone:
		return "done"
	}
	return "idle"
}

// detachedToken marks entities spawned outside the wave sequence.
const detachedToken = -1

// cursor walks a wave's entries one spawn at a time.
type cursor struct {
	wave    Wave
	entry   int
	spawned int
	timer   float64
	index   int
}

func (c *cursor) next() (string, bool) {
	for c.entry < len(c.wave.Entries) {
		req := c.wave.Entries[c.entry]
		if c.spawned < req.Count {
			c.spawned++
			return req.Kind, true
		}
		c.entry++
		c.spawned = 0
	}
	return "", false
}

// remaining counts the spawns the cursor has yet to make.
func (c *cursor) remaining() int {
	n := 0
	for i := c.entry; i < len(c.wave.Entries); i++ {
		left := c.wave.Entries[i].Count
		if i == c.entry {
			left -= c.spawned
		}
		if left > 0 {
			n += left
		}
	}
	return n
}

func (c *cursor) exhausted() bool {
	for i := c.entry; i < len(c.wave.Entries); i++ {
		done := 0
		if i == c.entry {
			done = c.spawned
		}
		if c.wave.Entries[i].Count > done {
			return false
		}
	}
	return true
}

// WaveSpawner runs the wave list in order. Each wave spawns its entities one
// at a time after a randomized delay, then waits for every one of them to die
// before the next wave begins.
type WaveSpawner struct {
	sess    *session.Session
	damage  *DamageSystem
	builder Builder

	Waves       []Wave
	SpawnPoints []common.Vec3
	Origin      common.Vec3
	Radius      float64
	// Target is assigned to every spawned pursuer.
	Target ecs.Entity

	OnWaveCleared func(w *ecs.World, wave int)
	OnDone        func(w *ecs.World)

	state    SpawnerState
	token    int
	active   *cursor
	waveLive int
	// lastDeath is where the most recent minion of the current wave died.
	lastDeath common.Vec3

	live    map[ecs.Entity]int
	batches []*cursor
}

func NewWaveSpawner(sess *session.Session, damage *DamageSystem, builder Builder) *WaveSpawner {
	return &WaveSpawner{
		sess:    sess,
		damage:  damage,
		builder: builder,
		live:    make(map[ecs.Entity]int),
	}
}

func (s *WaveSpawner) State() SpawnerState { return s.state }

// CurrentWave is the index of the wave in progress, or -1.
func (s *WaveSpawner) CurrentWave() int {
	if s.active == nil {
		return -1
	}
	return s.active.index
}

// Live counts every living entity this spawner created, summons included.
func (s *WaveSpawner) Live() int { return len(s.live) }

// WaveLive counts living entities of the current wave.
func (s *WaveSpawner) WaveLive() int { return s.waveLive }

// StartSpawning begins the wave list from the first wave.
func (s *WaveSpawner) StartSpawning(w *ecs.World) {
	if s.state == SpawnerSpawning || s.state == SpawnerAwaitingClear {
		return
	}
	if len(s.Waves) == 0 {
		s.sess.Logger.Warn("spawner: empty wave list")
		s.finish(w)
		return
	}
	s.sess.Logger.Info("spawner: start", "waves", len(s.Waves), "difficulty", s.sess.Difficulty.Tier())
	s.beginWave(w, 0)
}

// StopSpawning cancels the wave sequence and every pending summon. Living
// entities stay alive and tracked.
func (s *WaveSpawner) StopSpawning() {
	s.state = SpawnerIdle
	s.active = nil
	s.waveLive = 0
	s.batches = nil
	s.token++
}

// Summon spawns one wave's worth of entities outside the wave sequence.
func (s *WaveSpawner) Summon(waveIndex int) bool {
	if waveIndex < 0 || waveIndex >= len(s.Waves) {
		s.sess.Logger.Warn("spawner: summon of unknown wave", "wave", waveIndex)
		return false
	}
	wave := s.Waves[waveIndex]
	s.batches = append(s.batches, &cursor{wave: wave, index: waveIndex, timer: s.delay(wave)})
	return true
}

// Pending counts summoned entities that have not spawned yet.
func (s *WaveSpawner) Pending() int {
	n := 0
	for _, b := range s.batches {
		n += b.remaining()
	}
	return n
}

// CancelSummons drops every summon batch that is still spawning. Entities
// already spawned stay alive.
func (s *WaveSpawner) CancelSummons() {
	if len(s.batches) > 0 {
		s.sess.Logger.Debug("spawner: summons cancelled", "pending", s.Pending())
	}
	s.batches = nil
}

func (s *WaveSpawner) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	if s.state == SpawnerSpawning && s.active != nil {
		s.active.timer -= dt
		for s.state == SpawnerSpawning && s.active.timer <= common.Epsilon {
			kind, ok := s.active.next()
			if ok {
				s.spawn(w, kind, s.active.index, s.token)
			}
			if s.active.exhausted() {
				s.state = SpawnerAwaitingClear
				s.checkClear(w)
				break
			}
			s.active.timer += s.delay(s.active.wave)
		}
	}

	kept := s.batches[:0]
	for _, b := range s.batches {
		b.timer -= dt
		for b.timer <= common.Epsilon {
			kind, ok := b.next()
			if ok {
				s.spawn(w, kind, detachedToken, detachedToken)
			}
			if b.exhausted() {
				break
			}
			b.timer += s.delay(b.wave)
		}
		if !b.exhausted() {
			kept = append(kept, b)
		}
	}
	s.batches = kept
}

func (s *WaveSpawner) beginWave(w *ecs.World, idx int) {
	s.token++
	wave := s.Waves[idx]
	s.active = &cursor{wave: wave, index: idx, timer: s.delay(wave)}
	s.waveLive = 0
	s.lastDeath = s.Origin
	s.state = SpawnerSpawning
	s.sess.Logger.Info("spawner: wave start", "wave", idx, "name", wave.Name, "entities", wave.Total())
	if wave.Total() == 0 {
		s.state = SpawnerAwaitingClear
		s.checkClear(w)
	}
}

func (s *WaveSpawner) checkClear(w *ecs.World) {
	if s.state != SpawnerAwaitingClear || s.waveLive > 0 || s.active == nil {
		return
	}
	idx := s.active.index
	wave := s.active.wave
	s.sess.Logger.Info("spawner: wave cleared", "wave", idx)

	if wave.Reward != "" && wave.Total() > 0 && s.builder != nil {
		if _, err := s.builder.Spawn(w, wave.Reward, s.lastDeath); err != nil {
			s.sess.Logger.Warn("spawner: spawn reward", "kind", wave.Reward, "error", err)
		}
	}
	if s.OnWaveCleared != nil {
		s.OnWaveCleared(w, idx)
	}
	if s.state != SpawnerAwaitingClear {
		// A callback stopped or restarted the spawner.
		return
	}
	if idx+1 >= len(s.Waves) {
		s.finish(w)
		return
	}
	s.beginWave(w, idx+1)
}

func (s *WaveSpawner) finish(w *ecs.World) {
	s.state = SpawnerDone
	s.active = nil
	s.sess.Logger.Info("spawner: all waves cleared")
	if s.OnDone != nil {
		s.OnDone(w)
	}
}

func (s *WaveSpawner) spawn(w *ecs.World, kind string, waveIdx, token int) {
	pos, err := s.position()
	if err != nil {
		s.sess.Logger.Warn("spawner: skip spawn", "kind", kind, "error", err)
		return
	}
	if s.builder == nil {
		s.sess.Logger.Warn("spawner: no builder", "kind", kind)
		return
	}
	e, err := s.builder.Spawn(w, kind, pos)
	if err != nil {
		s.sess.Logger.Warn("spawner: spawn", "kind", kind, "error", err)
		return
	}

	if p, ok := ecs.Get(w, e, component.PursuerComponent.Kind()); ok && s.Target.Valid() {
		p.Target = uint64(s.Target)
	}
	if tag, ok := ecs.Get(w, e, component.MinionTagComponent.Kind()); ok {
		tag.Wave = waveIdx
	}

	s.live[e] = token
	if token != detachedToken {
		s.waveLive++
	}
	if s.damage != nil {
		s.damage.Watch(e, s.onDeath)
	}
	s.sess.PlayEffect("spawn", pos)
	s.sess.Logger.Debug("spawner: spawned", "entity", e, "kind", kind, "wave", waveIdx)
}

// onDeath decrements first, then checks whether the wave cleared.
func (s *WaveSpawner) onDeath(w *ecs.World, ev DeathEvent) {
	token, ok := s.live[ev.Entity]
	if !ok {
		return
	}
	delete(s.live, ev.Entity)
	if token == detachedToken || token != s.token || s.active == nil {
		return
	}
	s.waveLive--
	s.lastDeath = ev.Position
	s.checkClear(w)
}

func (s *WaveSpawner) delay(wave Wave) float64 {
	if wave.Delay != nil {
		return s.sess.RandRange(wave.Delay.Min, wave.Delay.Max)
	}
	lo, hi := s.sess.Difficulty.Interval()
	return s.sess.RandRange(lo, hi)
}

func (s *WaveSpawner) position() (common.Vec3, error) {
	if n := len(s.SpawnPoints); n > 0 {
		return s.SpawnPoints[s.sess.Rand.Intn(n)], nil
	}
	if s.Radius > 0 {
		r := s.Radius * math.Sqrt(s.sess.Rand.Float64())
		a := s.sess.Rand.Float64() * 2 * math.Pi
		return s.Origin.Add(common.V3(r*math.Cos(a), 0, r*math.Sin(a))), nil
	}
	return common.Vec3{}, ErrNoSpawnPoint
}
