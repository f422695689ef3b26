// Package snapshot builds an observer-facing, read-only view of the world
// for external consumers, constructed only after a tick's commands have
// flushed: per visible entity, position, outermost layer, hp/max_hp, and
// an alive flag.
package snapshot

import (
	"github.com/dshills/simcore/internal/component"
	"github.com/dshills/simcore/internal/entity"
	"github.com/dshills/simcore/internal/world"
)

// EntityView is the snapshot record for one visible entity.
type EntityView struct {
	ID             entity.ID
	X, Y           int32
	OuterMaterial  component.MaterialID
	Integrity      int32
	MaxIntegrity   int32
	HP, MaxHP      int32
	Alive          bool
	RecentMessages []uint32
}

// StatHP and StatMaxHP are the stat indices a snapshot reads as current
// and maximum hit points. Defined here rather than in component, since
// "which stat slots mean HP" is a snapshot-consumer convention, not a
// core invariant the pipeline itself depends on.
const (
	StatHP    component.StatID = 0
	StatMaxHP component.StatID = 1
)

// Snapshot is a stable, read-only view over a chosen set of entities,
// built once after a tick's flush.
type Snapshot struct {
	Tick     uint64
	Entities []EntityView
}

// Build constructs a Snapshot for the given entity ids by reading w's
// stores. It performs no mutation and may be called freely between ticks.
func Build(w *world.World, ids []entity.ID) Snapshot {
	snap := Snapshot{Tick: w.Tick, Entities: make([]EntityView, 0, len(ids))}
	for _, id := range ids {
		snap.Entities = append(snap.Entities, buildView(w, id))
	}
	return snap
}

func buildView(w *world.World, id entity.ID) EntityView {
	view := EntityView{ID: id}

	if pos, ok := w.Position(id); ok {
		view.X, view.Y = pos.X, pos.Y
	}

	if stack, ok := w.LayerStack(id); ok {
		if outer := stack.Outermost(); outer != nil {
			view.OuterMaterial = outer.Material
			view.Integrity = outer.Integrity
			view.MaxIntegrity = outer.MaxIntegrity
		}
	}

	if stat, ok := w.Stat(id); ok {
		view.HP = stat.Values[StatHP]
		view.MaxHP = stat.Values[StatMaxHP]
	}

	if fb, ok := w.FeedbackLog(id); ok {
		view.RecentMessages = fb.Messages
	}

	view.Alive = view.HP > 0 || view.Integrity > 0
	return view
}
