// Package rules implements the compiled, static representation of an
// authored interaction rule. The pipeline in internal/interaction never
// parses rule syntax; it consumes RuleDef values produced here or by
// LegacyAffordanceRule.
package rules

import (
	"errors"

	"github.com/dshills/simcore/internal/component"
)

// Capacity bounds for the compiled rule table.
const (
	MaxRuleEffects = 8
	MaxRuleConds   = 4
	MaxRules       = 1024
)

// ErrTableFull is returned by Table.Add once the table reaches MaxRules.
var ErrTableFull = errors.New("rules: table full")

// ConditionID is a closed enum of pure, read-only-state predicates
// evaluated in order during pipeline step 7.
type ConditionID uint8

const (
	ConditionNone ConditionID = iota
	ConditionToolHarderThanLayer
	ConditionTargetHasIntegrity
)

// TargetRole names which party in an interaction request an effect or
// crit-fail command resolves against. Resolved at emission time (pipeline
// step 9) against the request's actor, target, and tool entities.
type TargetRole uint8

const (
	RoleNone TargetRole = iota
	RoleActor
	RoleTarget
	RoleTool
	RoleEnv
)

// EffectKind is a closed enum of command kinds a RuleEffect can emit.
// Mirrors command.Type; kept distinct so the rules package has no
// dependency on the command package's runtime Command shape.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectDamageLayer
	EffectModifyStat
	EffectTransformEntity
	EffectMoveEntity
	EffectRemoveEntity
	EffectPlayFeedback
)

// StatOp names the mutation a ModifyStat effect applies.
type StatOp uint8

const (
	StatOpAdd StatOp = iota
	StatOpSubtract
	StatOpSet
)

// RuleEffect is one ordered effect emitted by a rule on success. Payload
// fields are interpreted per Kind; unused fields are zero.
type RuleEffect struct {
	Kind       EffectKind
	TargetRole TargetRole
	Amount     int32         // DamageLayer, CritDamage amount; ModifyStat delta/value
	StatID     component.StatID
	StatOp     StatOp
	NewDefID   uint32 // TransformEntity
	DX, DY     int32  // MoveEntity
	MessageID  uint32 // PlayFeedback
}

// RuleDef is the compiled form of an authored interaction rule. The
// runtime consumes these directly; authoring happens via LoadRules or
// LegacyAffordanceRule.
type RuleDef struct {
	RuleID            uint32
	TriggerVerb       component.VerbID
	RequiredCap       component.CapabilityID
	Conditions        []ConditionID
	Difficulty        int32
	CritFailThreshold int32
	CritFailBodyPart  component.BodyPartSlot
	CritFailDamage    int32
	Effects           []RuleEffect
}

// Table is the linear-scan-by-trigger-verb rule table, mirroring
// item.Table's complexity target.
type Table struct {
	rules []RuleDef
}

// NewTable returns an empty rule table.
func NewTable() *Table {
	return &Table{rules: make([]RuleDef, 0, 32)}
}

// Add appends def to the table. Returns ErrTableFull once MaxRules is
// reached.
func (t *Table) Add(def RuleDef) error {
	if len(t.rules) >= MaxRules {
		return ErrTableFull
	}
	t.rules = append(t.rules, def)
	return nil
}

// Count returns the number of loaded rules.
func (t *Table) Count() int { return len(t.rules) }

// FindByVerb linear-scans for the first rule whose TriggerVerb matches
// verb. Returns (rule, true) or (zero, false).
func (t *Table) FindByVerb(verb component.VerbID) (RuleDef, bool) {
	for _, r := range t.rules {
		if r.TriggerVerb == verb {
			return r, true
		}
	}
	return RuleDef{}, false
}

// LegacyAffordanceRule synthesizes a RuleDef equivalent to an item's
// affordance entry: effects = [DamageLayer(Target, 1)] and conditions =
// [TOOL_HARDER_THAN_LAYER]. Feeding affordance-authored items through this
// synthesis means the pipeline only ever needs one evaluator, rather than
// a separate legacy path alongside compiled rules.
func LegacyAffordanceRule(ruleID uint32, verb component.VerbID, requiredCap component.CapabilityID) RuleDef {
	return RuleDef{
		RuleID:      ruleID,
		TriggerVerb: verb,
		RequiredCap: requiredCap,
		Conditions:  []ConditionID{ConditionToolHarderThanLayer},
		Effects: []RuleEffect{
			{Kind: EffectDamageLayer, TargetRole: RoleTarget, Amount: 1},
		},
	}
}
