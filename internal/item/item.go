// Package item implements a static lookup of immutable item definitions
// by definition id, with per-item affordance entries, property bags, and
// component-init blueprints.
package item

import (
	"errors"
	"fmt"

	"github.com/dshills/simcore/internal/component"
)

// Capacity bounds for the authored tables.
const (
	MaxAffords   = 8
	MaxProps     = 8
	MaxComps     = 4
	MaxDefs      = 4096
	MaxCompVals  = 4
	maxTableScan = MaxDefs
)

// ErrTableFull is returned by Table.Add once the table reaches MaxDefs.
var ErrTableFull = errors.New("item: definition table full")

// PropertyKey identifies a typed key in an affordance entry's property
// bag. The rule pipeline reads these at effect-emission time; this
// package does not interpret their meaning beyond storage and lookup.
type PropertyKey uint32

// Known property keys. Floats are encoded as fixed-point x100 integers.
const (
	PropNone PropertyKey = iota
	PropHealAmount
	PropMessage
	PropNutrition
	PropTransformID
	PropDamage
	PropStaminaCost
	PropManaCost
	PropDurabilityLoss
	PropGrowthAmount
)

// Prop is one typed key/value pair in an affordance entry's property bag.
type Prop struct {
	Key   PropertyKey
	Value int32
}

// Afford is one affordance entry on an item definition: "this item
// supports verb_id, optionally transforming into transform_to, carrying
// the given properties."
type Afford struct {
	VerbID      component.VerbID
	TransformTo uint32 // 0 = no change
	Props       []Prop
}

// CompType identifies which instance component a component-init
// blueprint spawns when an item is instantiated on an entity.
type CompType uint8

const (
	CompNone CompType = iota
	CompStack
	CompQuality
	CompDurability
	CompGrowth
	CompLight
)

// CompInit is one component-init blueprint: "spawn this component kind
// with these initial values when an instance of this item is created."
type CompInit struct {
	Type   CompType
	Values [MaxCompVals]int32
}

// Def is a static, immutable item definition, shared by every instance
// referencing it via CItemDef.DefID.
type Def struct {
	DefID    uint32
	NameID   uint32
	Weight   int32 // fixed-point x100
	Tags     uint32
	Affords  []Afford
	Comps    []CompInit
}

// Table is the linear-scan-by-def-id lookup table. A hashed or sorted
// index is a valid substitute as long as it preserves the same observable
// behavior.
type Table struct {
	defs []Def
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{defs: make([]Def, 0, 64)}
}

// Add appends def to the table. Returns ErrTableFull once MaxDefs is
// reached.
func (t *Table) Add(def Def) error {
	if len(t.defs) >= MaxDefs {
		return ErrTableFull
	}
	t.defs = append(t.defs, def)
	return nil
}

// Get looks up a definition by id, returning (def, true) or (zero, false).
func (t *Table) Get(defID uint32) (Def, bool) {
	for i := range t.defs {
		if t.defs[i].DefID == defID {
			return t.defs[i], true
		}
	}
	return Def{}, false
}

// Count returns the number of loaded definitions.
func (t *Table) Count() int { return len(t.defs) }

// FindAffordance linear-scans def's affordance entries for one matching
// verb, returning (entry, true) or (zero, false).
func FindAffordance(def Def, verb component.VerbID) (Afford, bool) {
	for _, a := range def.Affords {
		if a.VerbID == verb {
			return a, true
		}
	}
	return Afford{}, false
}

// Property linear-scans entry's property bag for key, returning its value
// or defaultVal if absent.
func Property(entry Afford, key PropertyKey, defaultVal int32) int32 {
	for _, p := range entry.Props {
		if p.Key == key {
			return p.Value
		}
	}
	return defaultVal
}

// validate enforces the authored-table shape bounds; called by loaders,
// not by Add (Add is the hot-path primitive and trusts its caller).
func validate(def Def) error {
	if len(def.Affords) > MaxAffords {
		return fmt.Errorf("item %d: %d affordances exceeds max %d", def.DefID, len(def.Affords), MaxAffords)
	}
	for _, a := range def.Affords {
		if len(a.Props) > MaxProps {
			return fmt.Errorf("item %d: verb %d has %d properties exceeding max %d", def.DefID, a.VerbID, len(a.Props), MaxProps)
		}
	}
	if len(def.Comps) > MaxComps {
		return fmt.Errorf("item %d: %d component blueprints exceeds max %d", def.DefID, len(def.Comps), MaxComps)
	}
	return nil
}
