package system

import (
	"testing"

	"github.com/milk9111/ghostwave/ecs/component"
)

const rollScript = `
phases := ["shield", "summon", "area_damage"]
pick_phase := func(engine, state) {
	idx := int(engine.roll * len(phases))
	if idx >= len(phases) { idx = len(phases) - 1 }
	return phases[idx]
}
`

func TestScriptSelectorUsesEngineState(t *testing.T) {
	sel, err := NewScriptSelector("roll", []byte(rollScript), nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	cases := []struct {
		roll float64
		want component.BossPhase
	}{
		{0.1, component.PhaseShield},
		{0.5, component.PhaseSummon},
		{0.9, component.PhaseAreaDamage},
	}
	for _, c := range cases {
		if got := sel.Select(PhaseContext{Roll: c.roll}); got != c.want {
			t.Fatalf("roll %v: got %v, want %v", c.roll, got, c.want)
		}
	}
}

func TestScriptSelectorSeesContext(t *testing.T) {
	src := `
pick_phase := func(engine, state) {
	if engine.live_minions >= engine.minion_cap { return "area_damage" }
	if engine.last_phase == "summon" { return "shield" }
	return "summon"
}
`
	sel, err := NewScriptSelector("ctx", []byte(src), nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := sel.Select(PhaseContext{LiveMinions: 3, MinionCap: 3}); got != component.PhaseAreaDamage {
		t.Fatalf("got %v", got)
	}
	if got := sel.Select(PhaseContext{MinionCap: 3, Last: component.PhaseSummon}); got != component.PhaseShield {
		t.Fatalf("got %v", got)
	}
	if got := sel.Select(PhaseContext{MinionCap: 3}); got != component.PhaseSummon {
		t.Fatalf("got %v", got)
	}
}

func TestScriptSelectorStatePersists(t *testing.T) {
	src := `
pick_phase := func(engine, state) {
	state.n = is_undefined(state.n) ? 1 : state.n + 1
	return state.n % 2 == 1 ? "shield" : "summon"
}
`
	sel, err := NewScriptSelector("state", []byte(src), nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := []component.BossPhase{component.PhaseShield, component.PhaseSummon, component.PhaseShield}
	for i, w := range want {
		if got := sel.Select(PhaseContext{}); got != w {
			t.Fatalf("call %d: got %v, want %v", i, got, w)
		}
	}
}

func TestScriptSelectorFallsBack(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unknown_phase", `pick_phase := func(engine, state) { return "dance" }`},
		{"runtime_error", `pick_phase := func(engine, state) { return 1 / 0 }`},
		{"undefined_result", `pick_phase := func(engine, state) { return undefined }`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sel, err := NewScriptSelector(c.name, []byte(c.src), fixedSelector(component.PhaseAreaDamage), nil)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := sel.Select(PhaseContext{}); got != component.PhaseAreaDamage {
				t.Fatalf("got %v, want fallback", got)
			}
		})
	}
}

func TestScriptSelectorRejectsBadSource(t *testing.T) {
	cases := map[string]string{
		"empty":       "   ",
		"syntax":      `pick_phase := func(engine, state) {`,
		"no_function": `x := 1`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewScriptSelector(name, []byte(src), nil, nil); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestScriptReloadKeepsPreviousOnError(t *testing.T) {
	sel, err := NewScriptSelector("reload", []byte(`pick_phase := func(e, s) { return "summon" }`), nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := sel.Reload([]byte(`pick_phase := func(`)); err == nil {
		t.Fatalf("bad reload should fail")
	}
	if got := sel.Select(PhaseContext{}); got != component.PhaseSummon {
		t.Fatalf("previous script lost, got %v", got)
	}
	if err := sel.Reload([]byte(`pick_phase := func(e, s) { return "shield" }`)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := sel.Select(PhaseContext{}); got != component.PhaseShield {
		t.Fatalf("reload not applied, got %v", got)
	}
}

func TestScriptSelectorRecoversFromRuntimeFault(t *testing.T) {
	src := `
pick_phase := func(engine, state) {
	if engine.roll < 0.5 { return 1 / 0 }
	return "summon"
}
`
	sel, err := NewScriptSelector("fault", []byte(src), fixedSelector(component.PhaseShield), nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := sel.Select(PhaseContext{Roll: 0.1}); got != component.PhaseShield {
		t.Fatalf("faulting call: got %v, want fallback", got)
	}
	if got := sel.Select(PhaseContext{Roll: 0.9}); got != component.PhaseSummon {
		t.Fatalf("selector unusable after a fault, got %v", got)
	}

	if _, err := NewScriptSelector("top_level", []byte("x := 1 / 0\npick_phase := func(e, s) { return \"shield\" }"), nil, nil); err == nil {
		t.Fatalf("a script faulting at load should be rejected")
	}
}
