package world

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/simcore/internal/component"
	"github.com/dshills/simcore/internal/entity"
	"github.com/dshills/simcore/internal/interaction"
	"github.com/dshills/simcore/internal/rng"
	"github.com/dshills/simcore/internal/rules"
)

const manifestYAML = `
entities:
  - index: 0
    components:
      - type: CAPABILITIES
        bits: [CHOP]
      - type: ANATOMY
        bits: [ARMS, HANDS, LEGS]
      - type: SKILLS
        values: { WOODCUTTING: 60 }
      - type: TOOL
        material: IRON
      - type: BODY_PARTS
        slots: { RIGHT_HAND: 1 }
  - index: 1
    components:
      - type: LAYER_STACK
        layers:
          - { material: FLESH, integrity: 2, max_integrity: 2 }
          - { material: BONE, integrity: 3, max_integrity: 3 }
  - index: 2
    components:
      - type: AFFORDANCES
        bits: [CHOPPABLE]
      - type: LAYER_STACK
        layers:
          - { material: BARK, integrity: 3, max_integrity: 3 }
          - { material: WOOD, integrity: 5, max_integrity: 5 }
  - index: 9
    components:
      - type: MYSTERY_FUTURE_TYPE
`

func TestLoadManifest(t *testing.T) {
	w, err := LoadManifest(strings.NewReader(manifestYAML), 12345)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if w.Allocator.Count() != 10 {
		t.Fatalf("allocator count = %d, want 10 (contiguous up to max index 9)", w.Allocator.Count())
	}
	caps, ok := w.Capabilities(0)
	if !ok || !caps.Has(component.CapabilityChop) {
		t.Fatalf("entity 0 capabilities = %+v, ok=%v", caps, ok)
	}
	stack, ok := w.LayerStack(2)
	if !ok || len(stack.Layers) != 2 || stack.Layers[0].Material != component.MaterialBark {
		t.Fatalf("entity 2 layer stack = %+v, ok=%v", stack, ok)
	}
	// Unknown component type on entity 9 is skipped, not an error.
	if _, ok := w.Capabilities(9); ok {
		t.Error("entity 9 should have no capabilities")
	}
}

func chopRuleTable() *rules.Table {
	tbl := rules.NewTable()
	tbl.Add(rules.RuleDef{
		RuleID:            1,
		TriggerVerb:       component.VerbChop,
		RequiredCap:       component.CapabilityChop,
		Conditions:        []rules.ConditionID{rules.ConditionToolHarderThanLayer},
		Difficulty:        40,
		CritFailThreshold: 15,
		CritFailBodyPart:  component.SlotRightHand,
		CritFailDamage:    2,
		Effects: []rules.RuleEffect{
			{Kind: rules.EffectDamageLayer, TargetRole: rules.RoleTarget, Amount: 1},
		},
	})
	return tbl
}

// digest renders enough post-flush store state to detect divergence
// between two runs: outermost layer material/integrity for every tracked
// entity plus the buffer's applied/rejected counts.
func digest(w *World, entities []entity.ID) string {
	var b strings.Builder
	for _, id := range entities {
		stack, ok := w.LayerStack(id)
		if !ok {
			fmt.Fprintf(&b, "%d:absent;", id)
			continue
		}
		if len(stack.Layers) == 0 {
			fmt.Fprintf(&b, "%d:empty;", id)
			continue
		}
		fmt.Fprintf(&b, "%d:%s(%d/%d);", id, component.Names[stack.Layers[0].Material], stack.Layers[0].Integrity, stack.Layers[0].MaxIntegrity)
	}
	fmt.Fprintf(&b, "applied=%d;rejected=%d", w.Cmds.Applied(), w.Cmds.Rejected())
	return b.String()
}

// runReplay loads the fixture manifest fresh and drives the same request
// stream across numTicks ticks, returning the per-tick (result, digest)
// trace.
func runReplay(t *testing.T, worldSeed uint32, numTicks uint64) []string {
	t.Helper()
	w, err := LoadManifest(strings.NewReader(manifestYAML), worldSeed)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	w.Rules = chopRuleTable()
	scratch := rng.New(0)
	req := interaction.Request{ActorID: 0, TargetID: 2, VerbID: component.VerbChop}

	var trace []string
	for tick := uint64(0); tick < numTicks; tick++ {
		w.Tick = tick
		result := w.ProcessRequest(req, entity.None, scratch)
		w.Cmds.Flush(w)
		trace = append(trace, fmt.Sprintf("%d:%s:%s", tick, result, digest(w, []entity.ID{1, 2})))
	}
	return trace
}

// TestDeterministicReplay (scenario S6) runs two independent worlds from the same
// seed and manifest through the same request stream and checks every
// tick's (result_code, post-flush digest) is byte-identical.
func TestDeterministicReplay(t *testing.T) {
	const seed = 777
	traceA := runReplay(t, seed, 50)
	traceB := runReplay(t, seed, 50)

	if len(traceA) != len(traceB) {
		t.Fatalf("trace lengths differ: %d vs %d", len(traceA), len(traceB))
	}
	for i := range traceA {
		if traceA[i] != traceB[i] {
			t.Fatalf("tick %d diverged:\n  run A: %s\n  run B: %s", i, traceA[i], traceB[i])
		}
	}
}

// TestSingleRequestResultIsSeedPure checks that for equal (world_seed,
// tick, actor, target, verb) against equal initial state, repeating the
// exact same single interaction yields an equal result and equal
// post-flush digest.
func TestSingleRequestResultIsSeedPure(t *testing.T) {
	run := func() (interaction.FailureCode, string) {
		w, err := LoadManifest(strings.NewReader(manifestYAML), 42)
		if err != nil {
			t.Fatalf("LoadManifest: %v", err)
		}
		w.Rules = chopRuleTable()
		w.Tick = 3
		scratch := rng.New(0)
		req := interaction.Request{ActorID: 0, TargetID: 2, VerbID: component.VerbChop}
		result := w.ProcessRequest(req, entity.None, scratch)
		w.Cmds.Flush(w)
		return result, digest(w, []entity.ID{1, 2})
	}

	r1, d1 := run()
	r2, d2 := run()
	if r1 != r2 {
		t.Fatalf("result diverged: %v vs %v", r1, r2)
	}
	if d1 != d2 {
		t.Fatalf("digest diverged:\n  %s\n  %s", d1, d2)
	}
}

// TestReadOnlyPhaseDoesNotMutateStores (invariant I3, single writer) checks store state is unchanged by
// ProcessRequest alone (the read-only phase); only Flush may mutate.
func TestReadOnlyPhaseDoesNotMutateStores(t *testing.T) {
	w, err := LoadManifest(strings.NewReader(manifestYAML), 1)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	w.Rules = chopRuleTable()
	before := digest(w, []entity.ID{1, 2})

	scratch := rng.New(0)
	req := interaction.Request{ActorID: 0, TargetID: 2, VerbID: component.VerbChop}
	w.ProcessRequest(req, entity.None, scratch)

	// Not flushed yet: stores must be untouched even though commands may
	// be queued.
	afterProcess := digest(w, []entity.ID{1, 2})
	if before != afterProcess {
		t.Fatalf("store state changed before flush:\n  before:  %s\n  after:   %s", before, afterProcess)
	}

	w.Cmds.Flush(w)
	afterFlush := digest(w, []entity.ID{1, 2})
	if afterFlush == before && w.Cmds.Applied() > 0 {
		t.Fatal("flush applied commands but digest did not change")
	}
}

func TestSubmitAndDrainFIFO(t *testing.T) {
	w := New(1)
	reqs := []interaction.Request{
		{ActorID: 0, TargetID: 1, VerbID: component.VerbChop},
		{ActorID: 0, TargetID: 2, VerbID: component.VerbMine},
	}
	for _, r := range reqs {
		if err := w.Submit(r); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	drained := w.DrainRequests()
	if len(drained) != 2 || drained[0] != reqs[0] || drained[1] != reqs[1] {
		t.Fatalf("drained = %+v, want %+v in order", drained, reqs)
	}
	if more := w.DrainRequests(); more != nil {
		t.Fatalf("second drain = %+v, want nil", more)
	}
}

func TestSubmitDropsOnFullQueue(t *testing.T) {
	w := New(1)
	for i := 0; i < maxPendingRequests; i++ {
		if err := w.Submit(interaction.Request{}); err != nil {
			t.Fatalf("Submit(%d): unexpected error %v", i, err)
		}
	}
	if err := w.Submit(interaction.Request{}); err != ErrIntakeFull {
		t.Fatalf("Submit at capacity = %v, want ErrIntakeFull", err)
	}
	if w.IntakeDropped() != 1 {
		t.Fatalf("IntakeDropped = %d, want 1", w.IntakeDropped())
	}
}
