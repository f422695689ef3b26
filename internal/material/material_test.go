package material

import (
	"testing"

	"github.com/dshills/simcore/internal/component"
	"pgregory.net/rapid"
)

func cloneLayers(ls []component.Layer) []component.Layer {
	out := make([]component.Layer, len(ls))
	copy(out, ls)
	return out
}

// TestDamageMonotone checks that if I > k, new integrity = I-k and the
// layer identity is unchanged; if I <= k, the outermost layer is removed
// and the remainder applies to the newly outermost layer.
func TestDamageMonotone(t *testing.T) {
	tests := []struct {
		name   string
		layers []component.Layer
		amount int32
		want   []component.Layer
	}{
		{
			name:   "partial damage keeps layer",
			layers: []component.Layer{{Material: component.MaterialBark, Integrity: 3, MaxIntegrity: 3}},
			amount: 1,
			want:   []component.Layer{{Material: component.MaterialBark, Integrity: 2, MaxIntegrity: 3}},
		},
		{
			name: "exact damage peels layer",
			layers: []component.Layer{
				{Material: component.MaterialBark, Integrity: 1, MaxIntegrity: 3},
				{Material: component.MaterialWood, Integrity: 5, MaxIntegrity: 5},
			},
			amount: 1,
			want:   []component.Layer{{Material: component.MaterialWood, Integrity: 5, MaxIntegrity: 5}},
		},
		{
			name: "overflow damage carries to next layer",
			layers: []component.Layer{
				{Material: component.MaterialFlesh, Integrity: 2, MaxIntegrity: 2},
				{Material: component.MaterialBone, Integrity: 3, MaxIntegrity: 3},
			},
			amount: 3,
			want:   []component.Layer{{Material: component.MaterialBone, Integrity: 2, MaxIntegrity: 3}},
		},
		{
			name:   "damage beyond stack empties it",
			layers: []component.Layer{{Material: component.MaterialFlesh, Integrity: 1, MaxIntegrity: 1}},
			amount: 5,
			want:   []component.Layer{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stack := &component.LayerStack{Layers: cloneLayers(tc.layers)}
			Damage(stack, tc.amount)
			if len(stack.Layers) != len(tc.want) {
				t.Fatalf("got %d layers, want %d (%+v)", len(stack.Layers), len(tc.want), stack.Layers)
			}
			for i := range tc.want {
				if stack.Layers[i] != tc.want[i] {
					t.Errorf("layer %d = %+v, want %+v", i, stack.Layers[i], tc.want[i])
				}
			}
		})
	}
}

// TestDamagePropertyNeverGrows fuzzes arbitrary stacks and
// damage amounts and checks the stack only ever shrinks or loses
// integrity, never grows or gains layers.
func TestDamagePropertyNeverGrows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, component.MaxLayers).Draw(t, "n")
		layers := make([]component.Layer, n)
		for i := range layers {
			layers[i] = component.Layer{
				Material:     component.MaterialWood,
				Integrity:    int32(rapid.IntRange(1, 10).Draw(t, "integrity")),
				MaxIntegrity: 10,
			}
		}
		amount := int32(rapid.IntRange(0, 50).Draw(t, "amount"))

		stack := &component.LayerStack{Layers: layers}
		before := len(stack.Layers)
		Damage(stack, amount)
		if len(stack.Layers) > before {
			t.Fatalf("layer count grew from %d to %d", before, len(stack.Layers))
		}
		for _, l := range stack.Layers {
			if l.Integrity <= 0 {
				t.Fatalf("surviving layer has non-positive integrity: %+v", l)
			}
		}
	})
}

func TestToolHarderThanLayer(t *testing.T) {
	stack := &component.LayerStack{Layers: []component.Layer{{Material: component.MaterialBark, Integrity: 1}}}
	if !ToolHarderThanLayer(component.MaterialIron, stack) {
		t.Error("iron (80) should be harder than bark (25)")
	}
	stone := &component.LayerStack{Layers: []component.Layer{{Material: component.MaterialStone, Integrity: 1}}}
	if ToolHarderThanLayer(component.MaterialWood, stone) {
		t.Error("wood (30) should not be harder than stone (65)")
	}
}

func TestToolHarderThanLayerEmptyStack(t *testing.T) {
	stack := &component.LayerStack{}
	if ToolHarderThanLayer(component.MaterialIron, stack) {
		t.Error("empty stack should never satisfy the hardness condition")
	}
}

func TestHasIntegrity(t *testing.T) {
	empty := &component.LayerStack{}
	if HasIntegrity(empty) {
		t.Error("empty stack should not have integrity")
	}
	zero := &component.LayerStack{Layers: []component.Layer{{Integrity: 0}}}
	if HasIntegrity(zero) {
		t.Error("zero-integrity outer layer should not have integrity")
	}
	ok := &component.LayerStack{Layers: []component.Layer{{Integrity: 1}}}
	if !HasIntegrity(ok) {
		t.Error("positive-integrity outer layer should have integrity")
	}
}
