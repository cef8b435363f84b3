package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/ghostwave/ecs/component"
)

const phaseDispatchScript = `
__result = pick_phase(__engine, __state)
`

// ScriptSelector delegates phase selection to a tengo script defining
// pick_phase(engine, state). Errors and unknown results fall back.
type ScriptSelector struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	fallback PhaseSelector
	logger   *slog.Logger
}

func NewScriptSelector(name string, src []byte, fallback PhaseSelector, logger *slog.Logger) (*ScriptSelector, error) {
	if fallback == nil {
		fallback = UniformSelector{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &ScriptSelector{name: name, fallback: fallback, logger: logger}
	if err := s.Reload(src); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload recompiles the script. The previous script stays active on error.
func (s *ScriptSelector) Reload(src []byte) error {
	if strings.TrimSpace(string(src)) == "" {
		return fmt.Errorf("phase script %s: empty source", s.name)
	}
	if err := s.validate(src); err != nil {
		return err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + phaseDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__result", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("phase script %s: %w", s.name, err)
	}
	s.compiled = compiled
	s.state = &tengo.Map{Value: map[string]tengo.Object{}}
	return nil
}

// validate runs the bare script once: globals only hold values after a run.
func (s *ScriptSelector) validate(src []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("phase script %s: %v", s.name, r)
		}
	}()
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Run()
	if err != nil {
		return fmt.Errorf("phase script %s: %w", s.name, err)
	}
	if !compiled.IsDefined("pick_phase") {
		return fmt.Errorf("phase script %s: pick_phase is not defined", s.name)
	}
	return nil
}

func (s *ScriptSelector) Select(ctx PhaseContext) component.BossPhase {
	if s == nil || s.compiled == nil {
		return UniformSelector{}.Select(ctx)
	}
	if err := s.run(ctx); err != nil {
		s.logger.Warn("boss: phase script error", "script", s.name, "error", err)
		return s.fallback.Select(ctx)
	}
	name := strings.Trim(strings.TrimSpace(s.compiled.Get("__result").String()), "\"")
	phase, ok := component.ParseBossPhase(name)
	if !ok {
		s.logger.Warn("boss: phase script returned unknown phase", "script", s.name, "phase", name)
		return s.fallback.Select(ctx)
	}
	return phase
}

// run executes one selection. Runtime faults inside the VM surface as errors.
func (s *ScriptSelector) run(ctx PhaseContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("phase script %s: %v", s.name, r)
		}
	}()
	engine := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"live_minions":    &tengo.Int{Value: int64(ctx.LiveMinions)},
		"minion_cap":      &tengo.Int{Value: int64(ctx.MinionCap)},
		"health_fraction": &tengo.Float{Value: ctx.HealthFraction},
		"shield_active":   boolObject(ctx.ShieldActive),
		"last_phase":      &tengo.String{Value: ctx.Last.String()},
		"roll":            &tengo.Float{Value: ctx.Roll},
	}}
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	return s.compiled.Run()
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
