package world

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/simcore/internal/component"
	"github.com/dshills/simcore/internal/entity"
)

// yamlManifest is the on-disk world-load manifest shape: a flat sequence
// of entries, each naming an entity index, a component type, and a
// payload.
type yamlManifest struct {
	Entities []yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	Index      entity.ID         `yaml:"index"`
	Components []yamlComponent   `yaml:"components"`
}

type yamlComponent struct {
	Type   string            `yaml:"type"`
	Bits   []string          `yaml:"bits"`
	Values map[string]int32  `yaml:"values"`
	Material string          `yaml:"material"`
	Slots  map[string]uint32 `yaml:"slots"`
	Layers []yamlLayer       `yaml:"layers"`
	DefID  uint32            `yaml:"def_id"`
}

type yamlLayer struct {
	Material     string `yaml:"material"`
	Integrity    int32  `yaml:"integrity"`
	MaxIntegrity int32  `yaml:"max_integrity"`
}

var materialNames = map[string]component.MaterialID{
	"NONE":  component.MaterialNone,
	"WOOD":  component.MaterialWood,
	"STONE": component.MaterialStone,
	"IRON":  component.MaterialIron,
	"FLESH": component.MaterialFlesh,
	"BARK":  component.MaterialBark,
	"BONE":  component.MaterialBone,
}

var capabilityBits = map[string]component.CapabilityID{
	"CHOP":   component.CapabilityChop,
	"MINE":   component.CapabilityMine,
	"STRIKE": component.CapabilityStrike,
}

var anatomyBits = map[string]component.AnatomyFlag{
	"ARMS":  component.AnatomyArms,
	"LEGS":  component.AnatomyLegs,
	"HANDS": component.AnatomyHands,
	"MOUTH": component.AnatomyMouth,
}

var affordanceBits = map[string]component.AffordanceID{
	"CHOPPABLE": component.AffordanceChoppable,
	"MINEABLE":  component.AffordanceMineable,
	"HITTABLE":  component.AffordanceHittable,
}

var skillNames = map[string]component.SkillID{
	"WOODCUTTING": component.SkillWoodcutting,
	"MINING":      component.SkillMining,
	"COMBAT":      component.SkillCombat,
}

var bodyPartSlotNames = map[string]component.BodyPartSlot{
	"HEAD":       component.SlotHead,
	"TORSO":      component.SlotTorso,
	"LEFT_ARM":   component.SlotLeftArm,
	"RIGHT_ARM":  component.SlotRightArm,
	"LEFT_HAND":  component.SlotLeftHand,
	"RIGHT_HAND": component.SlotRightHand,
	"LEFT_LEG":   component.SlotLeftLeg,
	"RIGHT_LEG":  component.SlotRightLeg,
}

// LoadManifest parses a YAML world-load manifest from r into a fresh
// World seeded with worldSeed. The loader allocates entity ids
// contiguously up to the maximum index referenced, then adds each
// component to its store; unknown component types are skipped with a
// logged warning, never an error.
func LoadManifest(r io.Reader, worldSeed uint32) (*World, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("world: reading manifest: %w", err)
	}

	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("world: parsing manifest YAML: %w", err)
	}

	w := New(worldSeed)
	for _, e := range raw.Entities {
		if !w.EnsureEntity(e.Index) {
			return nil, fmt.Errorf("world: entity index %d exceeds MaxEntities %d", e.Index, MaxEntities)
		}
		for _, c := range e.Components {
			if err := applyManifestComponent(w, e.Index, c); err != nil {
				return nil, fmt.Errorf("world: entity %d: %w", e.Index, err)
			}
		}
	}
	return w, nil
}

// LoadManifestFile opens path and delegates to LoadManifest.
func LoadManifestFile(path string, worldSeed uint32) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("world: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadManifest(f, worldSeed)
}

func applyManifestComponent(w *World, idx entity.ID, c yamlComponent) error {
	switch c.Type {
	case "CAPABILITIES":
		var caps component.Capabilities
		for _, b := range c.Bits {
			id, ok := capabilityBits[b]
			if !ok {
				return fmt.Errorf("unknown capability bit %q", b)
			}
			caps.Flags |= 1 << uint(id)
		}
		return w.AddCapabilities(idx, caps)
	case "ANATOMY":
		var anat component.Anatomy
		for _, b := range c.Bits {
			flag, ok := anatomyBits[b]
			if !ok {
				return fmt.Errorf("unknown anatomy bit %q", b)
			}
			anat.Flags |= flag
		}
		return w.AddAnatomy(idx, anat)
	case "SKILLS":
		var skills component.Skills
		for name, level := range c.Values {
			id, ok := skillNames[name]
			if !ok {
				return fmt.Errorf("unknown skill %q", name)
			}
			skills.Level[id] = level
		}
		return w.AddSkills(idx, skills)
	case "AFFORDANCES":
		var aff component.Affordances
		for _, b := range c.Bits {
			id, ok := affordanceBits[b]
			if !ok {
				return fmt.Errorf("unknown affordance bit %q", b)
			}
			aff.Flags |= 1 << uint(id)
		}
		return w.AddAffordances(idx, aff)
	case "TOOL":
		mat, ok := materialNames[c.Material]
		if !ok {
			return fmt.Errorf("unknown material %q", c.Material)
		}
		return w.AddTool(idx, component.Tool{Material: mat})
	case "BODY_PARTS":
		parts := component.NewBodyParts()
		for name, target := range c.Slots {
			slot, ok := bodyPartSlotNames[name]
			if !ok {
				return fmt.Errorf("unknown body part slot %q", name)
			}
			parts.Part[slot] = entity.ID(target)
		}
		return w.AddBodyParts(idx, parts)
	case "LAYER_STACK":
		if len(c.Layers) > component.MaxLayers {
			return fmt.Errorf("%d layers exceeds max %d", len(c.Layers), component.MaxLayers)
		}
		stack := component.LayerStack{Layers: make([]component.Layer, 0, len(c.Layers))}
		for _, l := range c.Layers {
			mat, ok := materialNames[l.Material]
			if !ok {
				return fmt.Errorf("unknown material %q", l.Material)
			}
			stack.Layers = append(stack.Layers, component.Layer{
				Material:     mat,
				Integrity:    l.Integrity,
				MaxIntegrity: l.MaxIntegrity,
			})
		}
		return w.AddLayerStack(idx, stack)
	case "ITEM_DEF":
		return w.AddItemDef(idx, component.CItemDef{DefID: c.DefID})
	default:
		log.Printf("world: manifest entity %d: skipping unknown component type %q", idx, c.Type)
		return nil
	}
}
