// Package material implements the damage/peel applicator over a
// LayerStack and the hardness comparison used by interaction conditions.
package material

import "github.com/dshills/simcore/internal/component"

// Damage applies amount points of damage to stack's outermost layer,
// peeling exhausted layers and carrying remaining damage forward to the
// newly outermost layer. This is the sole mutator of LayerStack integrity
// and backs both the DamageLayer and CritDamage command applicators.
//
// Semantics: for i in [0, amount), while the stack is non-empty,
// decrement layers[0].integrity; if it falls to <= 0, shift the remaining
// layers left by one and decrement the layer count. If the outermost
// layer's integrity I is greater than amount k, the new integrity is I-k
// and the layer identity is unchanged; if I <= k, the outermost layer is
// removed and the remainder of k applies iteratively to the new outermost
// layer.
func Damage(stack *component.LayerStack, amount int32) {
	for i := int32(0); i < amount && len(stack.Layers) > 0; i++ {
		stack.Layers[0].Integrity--
		if stack.Layers[0].Integrity <= 0 {
			stack.Layers = stack.Layers[1:]
		}
	}
}

// ToolHarderThanLayer reports whether toolMaterial's static hardness is
// strictly greater than the hardness of stack's outermost layer. Used by
// the TOOL_HARDER_THAN_LAYER condition; returns false if the stack is
// empty.
func ToolHarderThanLayer(toolMaterial component.MaterialID, stack *component.LayerStack) bool {
	outer := stack.Outermost()
	if outer == nil {
		return false
	}
	return component.Hardness[toolMaterial] > component.Hardness[outer.Material]
}

// HasIntegrity reports whether stack is non-empty and its outermost layer
// has positive integrity. Used by the TARGET_HAS_INTEGRITY condition and
// by the fine-motor body-part gate.
func HasIntegrity(stack *component.LayerStack) bool {
	outer := stack.Outermost()
	return outer != nil && outer.Integrity > 0
}
