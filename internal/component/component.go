// Package component defines the canonical shape of every component kind
// the interaction pipeline touches. Types here are plain value records;
// behavior lives in the packages that consume them (material, interaction,
// command).
package component

import "github.com/dshills/simcore/internal/entity"

// MaterialID is a closed enum over the small set of layer/tool materials.
// Index into Hardness for the [0,100] static hardness value.
type MaterialID uint8

const (
	MaterialNone MaterialID = iota
	MaterialWood
	MaterialStone
	MaterialIron
	MaterialFlesh
	MaterialBark
	MaterialBone
	materialCount
)

// Hardness is the static [0,100] hardness table, indexed by MaterialID.
var Hardness = [materialCount]int32{
	MaterialNone:  0,
	MaterialWood:  30,
	MaterialStone: 65,
	MaterialIron:  80,
	MaterialFlesh: 10,
	MaterialBark:  25,
	MaterialBone:  40,
}

// Names gives a human-readable label per MaterialID, for logs and the
// debug SVG snapshot.
var Names = [materialCount]string{
	MaterialNone:  "None",
	MaterialWood:  "Wood",
	MaterialStone: "Stone",
	MaterialIron:  "Iron",
	MaterialFlesh: "Flesh",
	MaterialBark:  "Bark",
	MaterialBone:  "Bone",
}

// MaxLayers bounds the length of a LayerStack.
const MaxLayers = 8

// Layer is one element of a material stack: a material with current and
// maximum integrity.
type Layer struct {
	Material     MaterialID
	Integrity    int32
	MaxIntegrity int32
}

// LayerStack is the ordered material stack owned by a destructible entity.
// The 0th element is outermost.
type LayerStack struct {
	Layers []Layer
}

// Outermost returns a pointer to the outermost layer, or nil if the stack
// is empty.
func (ls *LayerStack) Outermost() *Layer {
	if len(ls.Layers) == 0 {
		return nil
	}
	return &ls.Layers[0]
}

// BodyPartSlot is a closed enum of fine-motor-relevant body part slots.
type BodyPartSlot uint8

const (
	SlotNone BodyPartSlot = iota
	SlotHead
	SlotTorso
	SlotLeftArm
	SlotRightArm
	SlotLeftHand
	SlotRightHand
	SlotLeftLeg
	SlotRightLeg
	slotCount
)

// MaxBodyParts bounds the BodyParts table.
const MaxBodyParts = int(slotCount)

// BodyParts maps a body part slot to the EntityId whose LayerStack
// represents that part, or entity.None if the actor has no such part. The
// zero value is NOT ready to use: unset slots must read as entity.None,
// not entity id 0, so always construct via NewBodyParts.
type BodyParts struct {
	Part [MaxBodyParts]entity.ID
}

// NewBodyParts returns a BodyParts value with every slot initialized to
// entity.None.
func NewBodyParts() BodyParts {
	var b BodyParts
	for i := range b.Part {
		b.Part[i] = entity.None
	}
	return b
}

// Get returns the entity for slot, or entity.None if unset/out of range.
func (b *BodyParts) Get(slot BodyPartSlot) entity.ID {
	if int(slot) >= MaxBodyParts {
		return entity.None
	}
	return b.Part[slot]
}

// SkillID is a closed enum of trainable skills.
type SkillID uint8

const (
	SkillNone SkillID = iota
	SkillWoodcutting
	SkillMining
	SkillCombat
	skillCount
)

// MaxSkills bounds the Skills table.
const MaxSkills = int(skillCount)

// Skills is a fixed-width array of integer levels keyed by SkillID.
type Skills struct {
	Level [MaxSkills]int32
}

// AnatomyFlag is a bitfield over anatomy traits.
type AnatomyFlag uint32

const (
	AnatomyArms AnatomyFlag = 1 << iota
	AnatomyLegs
	AnatomyHands
	AnatomyMouth
)

// Anatomy is the bitfield component recording which anatomy traits an
// actor has.
type Anatomy struct {
	Flags AnatomyFlag
}

// CapabilityID is a closed enum of verbs an actor can potentially attempt.
type CapabilityID uint8

const (
	CapabilityNone CapabilityID = iota
	CapabilityChop
	CapabilityMine
	CapabilityStrike
	capabilityCount
)

// CapabilityDef describes the static prerequisites for a capability.
type CapabilityDef struct {
	RequiredAnatomy  AnatomyFlag
	RequiredSkill    SkillID
	MinSkillLevel    int32
	BodyPartRequired BodyPartSlot
}

// CapabilityDefs is the static capability prerequisite table, indexed by
// CapabilityID.
var CapabilityDefs = [capabilityCount]CapabilityDef{
	CapabilityNone:   {0, SkillNone, 0, SlotNone},
	CapabilityChop:   {AnatomyArms | AnatomyHands, SkillWoodcutting, 1, SlotRightHand},
	CapabilityMine:   {AnatomyArms | AnatomyHands, SkillMining, 1, SlotRightHand},
	CapabilityStrike: {AnatomyArms, SkillCombat, 1, SlotNone},
}

// Capabilities is the actor-side bitfield of (1 << CapabilityID) flags.
type Capabilities struct {
	Flags uint64
}

// Has reports whether the actor has the given capability bit set.
func (c Capabilities) Has(id CapabilityID) bool {
	return c.Flags&(1<<uint(id)) != 0
}

// AffordanceID is a closed enum of verbs a target entity admits.
type AffordanceID uint8

const (
	AffordanceNone AffordanceID = iota
	AffordanceChoppable
	AffordanceMineable
	AffordanceHittable
	affordanceCount
)

// MaxAffordance is the size of the affordance bitfield's defined range,
// exported for table-sizing in the rule/verb loaders.
const MaxAffordance = int(affordanceCount)

// Affordances is the target-side bitfield of (1 << AffordanceID) flags.
type Affordances struct {
	Flags uint64
}

// Has reports whether the target admits the given affordance bit.
func (a Affordances) Has(id AffordanceID) bool {
	return a.Flags&(1<<uint(id)) != 0
}

// Tool is the single wielded-tool-material component.
type Tool struct {
	Material MaterialID
}

// VerbID is a closed enum of interaction verbs.
type VerbID uint8

const (
	VerbNone VerbID = iota
	VerbChop
	VerbMine
	VerbStrike
	verbCount
)

// MaxVerb bounds verb-indexed tables.
const MaxVerb = int(verbCount)

// VerbDef binds a verb to the capability it requires on the actor and the
// affordance it requires on the target.
type VerbDef struct {
	ActorCap  CapabilityID
	TargetAff AffordanceID
}

// VerbDefs is the static verb table, indexed by VerbID.
var VerbDefs = [verbCount]VerbDef{
	VerbNone:   {CapabilityNone, AffordanceNone},
	VerbChop:   {CapabilityChop, AffordanceChoppable},
	VerbMine:   {CapabilityMine, AffordanceMineable},
	VerbStrike: {CapabilityStrike, AffordanceHittable},
}

// CItemDef is the per-entity instance component naming which static item
// definition this entity currently is.
type CItemDef struct {
	DefID uint32
}

// MaxStats bounds the generic stat vector backing ModifyStat commands.
const MaxStats = 16

// StatID is an opaque index into CStat.Values; the simulation core does
// not interpret stat semantics, only stores and mutates them.
type StatID uint8

// CStat holds a fixed-width vector of named stat values on an entity
// (health, stamina, mana, ...), mutated only by ModifyStat commands.
type CStat struct {
	Values [MaxStats]int32
}

// CPosition is the opaque 2D location component MoveEntity writes to.
type CPosition struct {
	X, Y int32
}

// MaxFeedbackLog bounds the ring of recent feedback message ids a
// PlayFeedback command appends to, consumed by the snapshot builder.
const MaxFeedbackLog = 16

// CFeedbackLog is a small ring buffer of message ids emitted by
// PlayFeedback commands targeting this entity, most recent last.
type CFeedbackLog struct {
	Messages []uint32
}

// Push appends a message id, evicting the oldest if the ring is full.
func (f *CFeedbackLog) Push(msgID uint32) {
	f.Messages = append(f.Messages, msgID)
	if len(f.Messages) > MaxFeedbackLog {
		f.Messages = f.Messages[len(f.Messages)-MaxFeedbackLog:]
	}
}
