package item

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/simcore/internal/component"
)

// yamlTable is the on-disk authoring shape for an item definition table.
// It is intentionally flatter than Def/Afford so item authors write
// verb/property names rather than numeric ids.
type yamlTable struct {
	Items []yamlDef `yaml:"items"`
}

type yamlDef struct {
	DefID      uint32            `yaml:"def_id"`
	NameID     uint32            `yaml:"name_id"`
	Weight     int32             `yaml:"weight"`
	Tags       []string          `yaml:"tags"`
	Affordances []yamlAfford     `yaml:"affordances"`
	Components []string          `yaml:"components"`
}

type yamlAfford struct {
	Verb        string           `yaml:"verb"`
	TransformTo uint32           `yaml:"transform_to"`
	Properties  map[string]int32 `yaml:"properties"`
}

var verbNames = map[string]component.VerbID{
	"CHOP":   component.VerbChop,
	"MINE":   component.VerbMine,
	"STRIKE": component.VerbStrike,
}

var propertyNames = map[string]PropertyKey{
	"PROP_HEAL_AMOUNT":     PropHealAmount,
	"PROP_MESSAGE":         PropMessage,
	"PROP_NUTRITION":       PropNutrition,
	"PROP_TRANSFORM_ID":    PropTransformID,
	"PROP_DAMAGE":          PropDamage,
	"PROP_STAMINA_COST":    PropStaminaCost,
	"PROP_MANA_COST":       PropManaCost,
	"PROP_DURABILITY_LOSS": PropDurabilityLoss,
	"PROP_GROWTH_AMOUNT":   PropGrowthAmount,
}

var compNames = map[string]CompType{
	"STACKABLE":  CompStack,
	"QUALITY":    CompQuality,
	"DURABILITY": CompDurability,
	"GROWTH":     CompGrowth,
	"LIGHT":      CompLight,
}

// LoadDefinitions parses a YAML item-definition table from r, validating
// every entry against the capacity bounds in this package before
// returning. Unknown verb/property/component names are a load-time error,
// not a silent skip; authoring mistakes here should fail fast, unlike
// unknown manifest component types, which are a distinct, intentionally
// permissive runtime path.
func LoadDefinitions(r io.Reader) ([]Def, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("item: reading definitions: %w", err)
	}

	var raw yamlTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("item: parsing YAML: %w", err)
	}

	defs := make([]Def, 0, len(raw.Items))
	for _, rd := range raw.Items {
		def, err := convertDef(rd)
		if err != nil {
			return nil, fmt.Errorf("item: def %d: %w", rd.DefID, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadDefinitionsFile opens path and delegates to LoadDefinitions.
func LoadDefinitionsFile(path string) ([]Def, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("item: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadDefinitions(f)
}

func convertDef(rd yamlDef) (Def, error) {
	def := Def{
		DefID:  rd.DefID,
		NameID: rd.NameID,
		Weight: rd.Weight,
	}
	for _, tag := range rd.Tags {
		def.Tags |= tagBit(tag)
	}

	for _, ra := range rd.Affordances {
		verb, ok := verbNames[ra.Verb]
		if !ok {
			return Def{}, fmt.Errorf("unknown verb %q", ra.Verb)
		}
		afford := Afford{VerbID: verb, TransformTo: ra.TransformTo}
		for key, val := range ra.Properties {
			pk, ok := propertyNames[key]
			if !ok {
				return Def{}, fmt.Errorf("unknown property %q", key)
			}
			afford.Props = append(afford.Props, Prop{Key: pk, Value: val})
		}
		def.Affords = append(def.Affords, afford)
	}

	for _, rc := range rd.Components {
		ct, ok := compNames[rc]
		if !ok {
			return Def{}, fmt.Errorf("unknown component %q", rc)
		}
		def.Comps = append(def.Comps, CompInit{Type: ct})
	}

	if err := validate(def); err != nil {
		return Def{}, err
	}
	return def, nil
}

// tagBit maps an authoring tag name to its bit position. Unknown tags are
// folded into a single reserved high bit rather than rejected, since tags
// are advisory metadata (crafting/filtering), not gate conditions the
// pipeline depends on for correctness.
func tagBit(name string) uint32 {
	switch name {
	case "WEAPON":
		return 1 << 0
	case "METAL":
		return 1 << 1
	case "CONSUMABLE":
		return 1 << 2
	case "LIQUID":
		return 1 << 3
	case "FOOD":
		return 1 << 4
	case "ROTTABLE":
		return 1 << 5
	case "TOOL":
		return 1 << 6
	case "SEED":
		return 1 << 7
	case "PLANT":
		return 1 << 8
	default:
		return 1 << 31
	}
}
