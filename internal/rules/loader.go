package rules

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/simcore/internal/component"
)

// yamlTable is the on-disk authoring format for the compiled rule table,
// consumed by the `gen` CLI subcommand.
type yamlTable struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	RuleID            uint32       `yaml:"rule_id"`
	Trigger           string       `yaml:"trigger_verb"`
	RequiredCap       string       `yaml:"required_cap"`
	Conditions        []string     `yaml:"conditions"`
	Difficulty        int32        `yaml:"difficulty"`
	CritFailThreshold int32        `yaml:"crit_fail_threshold"`
	CritFailBodyPart  string       `yaml:"crit_fail_bodypart"`
	CritFailDamage    int32        `yaml:"crit_fail_damage"`
	Effects           []yamlEffect `yaml:"effects"`
}

type yamlEffect struct {
	Kind      string `yaml:"kind"`
	Role      string `yaml:"target_role"`
	Amount    int32  `yaml:"amount"`
	Stat      uint8  `yaml:"stat_id"`
	Op        string `yaml:"op"`
	NewDefID  uint32 `yaml:"new_def_id"`
	DX        int32  `yaml:"dx"`
	DY        int32  `yaml:"dy"`
	MessageID uint32 `yaml:"message_id"`
}

var verbNames = map[string]component.VerbID{
	"NONE":   component.VerbNone,
	"CHOP":   component.VerbChop,
	"MINE":   component.VerbMine,
	"STRIKE": component.VerbStrike,
}

var capNames = map[string]component.CapabilityID{
	"NONE":   component.CapabilityNone,
	"CHOP":   component.CapabilityChop,
	"MINE":   component.CapabilityMine,
	"STRIKE": component.CapabilityStrike,
}

var bodyPartNames = map[string]component.BodyPartSlot{
	"NONE":       component.SlotNone,
	"HEAD":       component.SlotHead,
	"TORSO":      component.SlotTorso,
	"LEFT_ARM":   component.SlotLeftArm,
	"RIGHT_ARM":  component.SlotRightArm,
	"LEFT_HAND":  component.SlotLeftHand,
	"RIGHT_HAND": component.SlotRightHand,
	"LEFT_LEG":   component.SlotLeftLeg,
	"RIGHT_LEG":  component.SlotRightLeg,
}

var conditionNames = map[string]ConditionID{
	"NONE":                  ConditionNone,
	"TOOL_HARDER_THAN_LAYER": ConditionToolHarderThanLayer,
	"TARGET_HAS_INTEGRITY":  ConditionTargetHasIntegrity,
}

var effectKindNames = map[string]EffectKind{
	"DAMAGE_LAYER":     EffectDamageLayer,
	"MODIFY_STAT":      EffectModifyStat,
	"TRANSFORM_ENTITY": EffectTransformEntity,
	"MOVE_ENTITY":      EffectMoveEntity,
	"REMOVE_ENTITY":    EffectRemoveEntity,
	"PLAY_FEEDBACK":    EffectPlayFeedback,
}

var roleNames = map[string]TargetRole{
	"ACTOR":  RoleActor,
	"TARGET": RoleTarget,
	"TOOL":   RoleTool,
	"ENV":    RoleEnv,
}

var statOpNames = map[string]StatOp{
	"ADD":      StatOpAdd,
	"SUBTRACT": StatOpSubtract,
	"SET":      StatOpSet,
}

// LoadRules parses a YAML rule table from r, validating bounds and every
// name reference before returning. A malformed rule source is a load-time
// error; the compiled RuleDef the pipeline consumes is never partially
// built.
func LoadRules(r io.Reader) ([]RuleDef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rules: reading: %w", err)
	}

	var raw yamlTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rules: parsing YAML: %w", err)
	}

	defs := make([]RuleDef, 0, len(raw.Rules))
	for _, rr := range raw.Rules {
		def, err := convertRule(rr)
		if err != nil {
			return nil, fmt.Errorf("rules: rule %d: %w", rr.RuleID, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadRulesFile opens path and delegates to LoadRules.
func LoadRulesFile(path string) ([]RuleDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rules: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadRules(f)
}

func convertRule(rr yamlRule) (RuleDef, error) {
	trigger, ok := verbNames[rr.Trigger]
	if !ok {
		return RuleDef{}, fmt.Errorf("unknown trigger_verb %q", rr.Trigger)
	}
	cap, ok := capNames[rr.RequiredCap]
	if !ok {
		return RuleDef{}, fmt.Errorf("unknown required_cap %q", rr.RequiredCap)
	}

	def := RuleDef{
		RuleID:            rr.RuleID,
		TriggerVerb:       trigger,
		RequiredCap:       cap,
		Difficulty:        rr.Difficulty,
		CritFailThreshold: rr.CritFailThreshold,
		CritFailDamage:    rr.CritFailDamage,
	}

	if rr.CritFailBodyPart != "" {
		slot, ok := bodyPartNames[rr.CritFailBodyPart]
		if !ok {
			return RuleDef{}, fmt.Errorf("unknown crit_fail_bodypart %q", rr.CritFailBodyPart)
		}
		def.CritFailBodyPart = slot
	}

	if len(rr.Conditions) > MaxRuleConds {
		return RuleDef{}, fmt.Errorf("%d conditions exceeds max %d", len(rr.Conditions), MaxRuleConds)
	}
	for _, c := range rr.Conditions {
		cid, ok := conditionNames[c]
		if !ok {
			return RuleDef{}, fmt.Errorf("unknown condition %q", c)
		}
		def.Conditions = append(def.Conditions, cid)
	}

	if len(rr.Effects) > MaxRuleEffects {
		return RuleDef{}, fmt.Errorf("%d effects exceeds max %d", len(rr.Effects), MaxRuleEffects)
	}
	for _, e := range rr.Effects {
		kind, ok := effectKindNames[e.Kind]
		if !ok {
			return RuleDef{}, fmt.Errorf("unknown effect kind %q", e.Kind)
		}
		role, ok := roleNames[e.Role]
		if !ok {
			return RuleDef{}, fmt.Errorf("unknown target_role %q", e.Role)
		}
		eff := RuleEffect{
			Kind:       kind,
			TargetRole: role,
			Amount:     e.Amount,
			StatID:     component.StatID(e.Stat),
			NewDefID:   e.NewDefID,
			DX:         e.DX,
			DY:         e.DY,
			MessageID:  e.MessageID,
		}
		if e.Op != "" {
			op, ok := statOpNames[e.Op]
			if !ok {
				return RuleDef{}, fmt.Errorf("unknown stat op %q", e.Op)
			}
			eff.StatOp = op
		}
		def.Effects = append(def.Effects, eff)
	}

	return def, nil
}
