// Package interaction implements the interaction pipeline: the single
// entry point that resolves an actor x verb x target request against the
// compiled rule table, evaluating conditions over material layers and
// tools, and emitting a command batch on success or critical failure.
package interaction

import (
	"github.com/dshills/simcore/internal/command"
	"github.com/dshills/simcore/internal/component"
	"github.com/dshills/simcore/internal/entity"
	"github.com/dshills/simcore/internal/material"
	"github.com/dshills/simcore/internal/rng"
	"github.com/dshills/simcore/internal/rules"
)

// FailureCode is the structured result code returned by Process. Success
// and CritFail are the only codes accompanied by emitted commands.
type FailureCode uint8

const (
	Success FailureCode = iota
	FailNoVerb
	FailNoRule
	FailNoCap
	FailAnatomy
	FailBodyPart
	FailSkillLow
	FailNoAff
	FailCondition
	FailRoll
	CritFail
)

// String renders the failure code for logs and test output.
func (f FailureCode) String() string {
	switch f {
	case Success:
		return "SUCCESS"
	case FailNoVerb:
		return "FAIL_NO_VERB"
	case FailNoRule:
		return "FAIL_NO_RULE"
	case FailNoCap:
		return "FAIL_NO_CAP"
	case FailAnatomy:
		return "FAIL_ANATOMY"
	case FailBodyPart:
		return "FAIL_BODY_PART"
	case FailSkillLow:
		return "FAIL_SKILL_LOW"
	case FailNoAff:
		return "FAIL_NO_AFF"
	case FailCondition:
		return "FAIL_CONDITION"
	case FailRoll:
		return "FAIL_ROLL"
	case CritFail:
		return "CRIT_FAIL"
	default:
		return "UNKNOWN"
	}
}

// Request is an actor x verb x target interaction request submitted by an
// external collaborator.
type Request struct {
	ActorID  entity.ID
	TargetID entity.ID
	VerbID   component.VerbID
}

// Stores is the read-only component-store surface the pipeline consults.
// It never mutates anything reachable through it; world.World is the
// concrete implementation.
type Stores interface {
	Capabilities(id entity.ID) (component.Capabilities, bool)
	Anatomy(id entity.ID) (component.Anatomy, bool)
	BodyParts(id entity.ID) (component.BodyParts, bool)
	Skills(id entity.ID) (component.Skills, bool)
	Affordances(id entity.ID) (component.Affordances, bool)
	Tool(id entity.ID) (component.Tool, bool)
	LayerStack(id entity.ID) (*component.LayerStack, bool)
}

// Process resolves req against ruleTable and stores, and returns the
// structured result code plus any commands to push into the caller's
// command.Buffer. It performs no mutation; the caller is responsible for
// pushing the returned commands and flushing. toolEntity is the entity id
// the RoleTool target resolves to (e.g. the wielded item instance),
// distinct from the actor's Tool material component consulted by
// conditions. scratch is a reusable RNG the roll reseeds per call via
// rng.RollSeed(worldSeed, tick, actor, target). The per-roll seed is a
// pure function of its inputs, never of prior rolls, so passing a
// scratch object avoids allocating one per interaction without breaking
// determinism.
func Process(req Request, ruleTable *rules.Table, stores Stores, toolEntity entity.ID, scratch *rng.RNG, worldSeed uint32, tick uint64) (FailureCode, []command.Command) {
	// Step 1: verb resolution.
	if req.VerbID == component.VerbNone || int(req.VerbID) >= component.MaxVerb {
		return FailNoVerb, nil
	}
	rule, ok := ruleTable.FindByVerb(req.VerbID)
	if !ok {
		return FailNoRule, nil
	}

	// Step 2: capability check.
	caps, _ := stores.Capabilities(req.ActorID)
	if !caps.Has(rule.RequiredCap) {
		return FailNoCap, nil
	}

	capDef := component.CapabilityDefs[rule.RequiredCap]

	// Step 3: anatomy check.
	anat, _ := stores.Anatomy(req.ActorID)
	if anat.Flags&capDef.RequiredAnatomy != capDef.RequiredAnatomy {
		return FailAnatomy, nil
	}

	// Step 4: body-part integrity check (the declarative fine-motor gate;
	// always re-derived, never a stored flag).
	if capDef.BodyPartRequired != component.SlotNone {
		parts, ok := stores.BodyParts(req.ActorID)
		if !ok {
			return FailBodyPart, nil
		}
		partEntity := parts.Get(capDef.BodyPartRequired)
		if partEntity == entity.None {
			return FailBodyPart, nil
		}
		stack, ok := stores.LayerStack(partEntity)
		if !ok || !material.HasIntegrity(stack) {
			return FailBodyPart, nil
		}
	}

	// Step 5: skill check.
	skills, _ := stores.Skills(req.ActorID)
	skillLevel := skills.Level[capDef.RequiredSkill]
	if skillLevel < capDef.MinSkillLevel {
		return FailSkillLow, nil
	}

	// Step 6: affordance check.
	verbDef := component.VerbDefs[req.VerbID]
	if verbDef.TargetAff != component.AffordanceNone {
		aff, ok := stores.Affordances(req.TargetID)
		if !ok || !aff.Has(verbDef.TargetAff) {
			return FailNoAff, nil
		}
	}

	// Step 7: condition evaluation.
	for _, cond := range rule.Conditions {
		if !evaluateCondition(cond, req, stores) {
			return FailCondition, nil
		}
	}

	// Step 8: roll resolution.
	if rule.Difficulty > 0 {
		seed := rng.RollSeed(worldSeed, tick, uint32(req.ActorID), uint32(req.TargetID))
		scratch.Seed(seed)
		roll := scratch.D100()
		threshold := rule.Difficulty - skillLevel
		if threshold < 5 {
			threshold = 5
		}
		if rule.CritFailThreshold > 0 && roll < rule.CritFailThreshold {
			var cmds []command.Command
			if rule.CritFailBodyPart != component.SlotNone {
				parts, ok := stores.BodyParts(req.ActorID)
				if ok {
					partEntity := parts.Get(rule.CritFailBodyPart)
					if partEntity != entity.None {
						cmds = append(cmds, command.Command{
							Type:         command.TypeCritDamage,
							SourceEntity: req.ActorID,
							TargetEntity: partEntity,
							Tick:         tick,
							Amount:       rule.CritFailDamage,
						})
					}
				}
			}
			return CritFail, cmds
		}
		if roll < threshold {
			return FailRoll, nil
		}
	}

	// Step 9: effect emission.
	cmds := make([]command.Command, 0, len(rule.Effects))
	for _, eff := range rule.Effects {
		cmds = append(cmds, buildCommand(eff, req, toolEntity, tick))
	}
	return Success, cmds
}

func evaluateCondition(cond rules.ConditionID, req Request, stores Stores) bool {
	switch cond {
	case rules.ConditionNone:
		return true
	case rules.ConditionToolHarderThanLayer:
		tool, ok := stores.Tool(req.ActorID)
		if !ok {
			return false
		}
		stack, ok := stores.LayerStack(req.TargetID)
		if !ok {
			return false
		}
		return material.ToolHarderThanLayer(tool.Material, stack)
	case rules.ConditionTargetHasIntegrity:
		stack, ok := stores.LayerStack(req.TargetID)
		if !ok {
			return false
		}
		return material.HasIntegrity(stack)
	default:
		return false
	}
}

func resolveRole(role rules.TargetRole, req Request, toolEntity entity.ID) entity.ID {
	switch role {
	case rules.RoleActor:
		return req.ActorID
	case rules.RoleTarget:
		return req.TargetID
	case rules.RoleTool:
		return toolEntity
	default:
		return entity.None
	}
}

func buildCommand(eff rules.RuleEffect, req Request, toolEntity entity.ID, tick uint64) command.Command {
	cmd := command.Command{
		SourceEntity: req.ActorID,
		TargetEntity: resolveRole(eff.TargetRole, req, toolEntity),
		Tick:         tick,
		Amount:       eff.Amount,
		StatID:       eff.StatID,
		NewDefID:     eff.NewDefID,
		DX:           eff.DX,
		DY:           eff.DY,
		MessageID:    eff.MessageID,
	}
	switch eff.Kind {
	case rules.EffectDamageLayer:
		cmd.Type = command.TypeDamageLayer
	case rules.EffectModifyStat:
		cmd.Type = command.TypeModifyStat
		cmd.StatOp = command.StatOp(eff.StatOp)
	case rules.EffectTransformEntity:
		cmd.Type = command.TypeTransformEntity
	case rules.EffectMoveEntity:
		cmd.Type = command.TypeMoveEntity
	case rules.EffectRemoveEntity:
		cmd.Type = command.TypeRemoveEntity
	case rules.EffectPlayFeedback:
		cmd.Type = command.TypePlayFeedback
	default:
		cmd.Type = command.TypeNone
	}
	return cmd
}
