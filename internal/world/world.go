// Package world aggregates every component store, the item and rule
// tables, the entity allocator, and the command buffer into the single
// object the tick scheduler drives. It is the concrete implementation of
// interaction.Stores and command.Applicator, and therefore the only
// package in the core that mutates component stores.
package world

import (
	"github.com/dshills/simcore/internal/command"
	"github.com/dshills/simcore/internal/component"
	"github.com/dshills/simcore/internal/entity"
	"github.com/dshills/simcore/internal/interaction"
	"github.com/dshills/simcore/internal/item"
	"github.com/dshills/simcore/internal/material"
	"github.com/dshills/simcore/internal/rng"
	"github.com/dshills/simcore/internal/rules"
	"github.com/dshills/simcore/internal/store"
)

// MaxEntities bounds every per-entity store.
const MaxEntities = 65536

// World holds every component store plus the static tables and deferred
// command buffer a tick advances.
type World struct {
	Allocator *entity.Allocator

	capabilities *store.Store[component.Capabilities]
	anatomy      *store.Store[component.Anatomy]
	bodyParts    *store.Store[component.BodyParts]
	skills       *store.Store[component.Skills]
	affordances  *store.Store[component.Affordances]
	tools        *store.Store[component.Tool]
	layers       *store.Store[component.LayerStack]
	itemDefs     *store.Store[component.CItemDef]
	stats        *store.Store[component.CStat]
	positions    *store.Store[component.CPosition]
	feedback     *store.Store[component.CFeedbackLog]

	Items *item.Table
	Rules *rules.Table
	Cmds  *command.Buffer

	WorldSeed uint32
	Tick      uint64

	intake *intakeQueue
}

// New returns an initialized World with every store bounded to
// MaxEntities and an empty command buffer bounded to command.MaxCommands.
func New(worldSeed uint32) *World {
	return &World{
		Allocator:    entity.NewAllocator(MaxEntities),
		capabilities: store.New[component.Capabilities](MaxEntities),
		anatomy:      store.New[component.Anatomy](MaxEntities),
		bodyParts:    store.New[component.BodyParts](MaxEntities),
		skills:       store.New[component.Skills](MaxEntities),
		affordances:  store.New[component.Affordances](MaxEntities),
		tools:        store.New[component.Tool](MaxEntities),
		layers:       store.New[component.LayerStack](MaxEntities),
		itemDefs:     store.New[component.CItemDef](MaxEntities),
		stats:        store.New[component.CStat](MaxEntities),
		positions:    store.New[component.CPosition](MaxEntities),
		feedback:     store.New[component.CFeedbackLog](MaxEntities),
		Items:        item.NewTable(),
		Rules:        rules.NewTable(),
		Cmds:         command.NewBuffer(command.MaxCommands),
		WorldSeed:    worldSeed,
		intake:       newIntakeQueue(maxPendingRequests),
	}
}

// ProcessRequest runs req through interaction.Process against this
// world's current store state and rule table, and pushes any emitted
// commands into Cmds. It does not flush; the caller (normally the
// scheduler's interaction phase) controls when mutation happens. scratch
// is a caller-owned RNG reused across requests within a tick to avoid
// per-request allocation.
func (w *World) ProcessRequest(req interaction.Request, toolEntity entity.ID, scratch *rng.RNG) interaction.FailureCode {
	result, cmds := interaction.Process(req, w.Rules, w, toolEntity, scratch, w.WorldSeed, w.Tick)
	for _, cmd := range cmds {
		w.Cmds.Push(cmd)
	}
	return result
}

// CreateEntity allocates the next entity id, or entity.None if the world
// is at MaxEntities.
func (w *World) CreateEntity() entity.ID {
	return w.Allocator.Create()
}

// EnsureEntity bumps the allocator to cover n if needed, for manifest
// loading where entity indices arrive out of order and ids must be
// allocated contiguously up to the maximum index referenced.
func (w *World) EnsureEntity(n entity.ID) bool {
	return w.Allocator.EnsureAtLeast(n + 1)
}

// Component-add accessors, used by the manifest loader and by tests that
// build fixtures directly. These are the only way to populate stores
// outside of the command-buffer applicators; they are not part of the
// tick hot path.

func (w *World) AddCapabilities(id entity.ID, c component.Capabilities) error {
	return w.capabilities.Add(id, c)
}
func (w *World) AddAnatomy(id entity.ID, a component.Anatomy) error { return w.anatomy.Add(id, a) }
func (w *World) AddBodyParts(id entity.ID, b component.BodyParts) error {
	return w.bodyParts.Add(id, b)
}
func (w *World) AddSkills(id entity.ID, s component.Skills) error { return w.skills.Add(id, s) }
func (w *World) AddAffordances(id entity.ID, a component.Affordances) error {
	return w.affordances.Add(id, a)
}
func (w *World) AddTool(id entity.ID, t component.Tool) error { return w.tools.Add(id, t) }
func (w *World) AddLayerStack(id entity.ID, l component.LayerStack) error {
	return w.layers.Add(id, l)
}
func (w *World) AddItemDef(id entity.ID, c component.CItemDef) error {
	return w.itemDefs.Add(id, c)
}
func (w *World) AddStat(id entity.ID, s component.CStat) error { return w.stats.Add(id, s) }
func (w *World) AddPosition(id entity.ID, p component.CPosition) error {
	return w.positions.Add(id, p)
}
func (w *World) AddFeedbackLog(id entity.ID, f component.CFeedbackLog) error {
	return w.feedback.Add(id, f)
}

// Stat returns entity id's stat vector, for snapshot consumers.
func (w *World) Stat(id entity.ID) (component.CStat, bool) { return get(w.stats, id) }

// Position returns entity id's position, for snapshot consumers.
func (w *World) Position(id entity.ID) (component.CPosition, bool) { return get(w.positions, id) }

// ItemDef returns entity id's current item-definition reference, for
// snapshot consumers.
func (w *World) ItemDef(id entity.ID) (component.CItemDef, bool) { return get(w.itemDefs, id) }

// FeedbackLog returns entity id's recent feedback message ids, for
// snapshot consumers.
func (w *World) FeedbackLog(id entity.ID) (component.CFeedbackLog, bool) {
	return get(w.feedback, id)
}

// interaction.Stores implementation. Each accessor reads a single store
// and never mutates it; this is what keeps the read-only phase of a tick
// genuinely read-only.

func (w *World) Capabilities(id entity.ID) (component.Capabilities, bool) {
	return get(w.capabilities, id)
}
func (w *World) Anatomy(id entity.ID) (component.Anatomy, bool) { return get(w.anatomy, id) }
func (w *World) BodyParts(id entity.ID) (component.BodyParts, bool) {
	return get(w.bodyParts, id)
}
func (w *World) Skills(id entity.ID) (component.Skills, bool) { return get(w.skills, id) }
func (w *World) Affordances(id entity.ID) (component.Affordances, bool) {
	return get(w.affordances, id)
}
func (w *World) Tool(id entity.ID) (component.Tool, bool) { return get(w.tools, id) }

// LayerStack returns a pointer into the layers store, not a copy, since
// material.Damage mutates in place and the applicators need the same
// pointer the pipeline's read-only condition checks saw.
func (w *World) LayerStack(id entity.ID) (*component.LayerStack, bool) {
	return w.layers.Get(id)
}

func get[T any](s *store.Store[T], id entity.ID) (T, bool) {
	v, ok := s.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

// command.Applicator implementation. This is the sole place in the core
// that mutates component stores, called only from Buffer.Flush during a
// tick's flush phase.

func (w *World) ApplyDamageLayer(target entity.ID, amount int32) bool {
	stack, ok := w.layers.Get(target)
	if !ok || len(stack.Layers) == 0 {
		return false
	}
	material.Damage(stack, amount)
	return true
}

func (w *World) ApplyCritDamage(target entity.ID, amount int32) bool {
	return w.ApplyDamageLayer(target, amount)
}

func (w *World) ApplyModifyStat(target entity.ID, stat component.StatID, op command.StatOp, amount int32) bool {
	s, ok := w.stats.Get(target)
	if !ok {
		return false
	}
	switch op {
	case command.StatOpAdd:
		s.Values[stat] += amount
	case command.StatOpSubtract:
		s.Values[stat] -= amount
	case command.StatOpSet:
		s.Values[stat] = amount
	}
	return true
}

func (w *World) ApplyTransformEntity(target entity.ID, newDefID uint32) bool {
	def, ok := w.itemDefs.Get(target)
	if !ok {
		return false
	}
	def.DefID = newDefID
	return true
}

func (w *World) ApplyMoveEntity(target entity.ID, dx, dy int32) bool {
	pos, ok := w.positions.Get(target)
	if !ok {
		return false
	}
	pos.X += dx
	pos.Y += dy
	return true
}

// ApplyRemoveEntity removes target from every store that holds it. Never
// rejected once entered; absence from a given store is not a failure,
// since not every entity carries every component.
func (w *World) ApplyRemoveEntity(target entity.ID) bool {
	w.capabilities.Remove(target)
	w.anatomy.Remove(target)
	w.bodyParts.Remove(target)
	w.skills.Remove(target)
	w.affordances.Remove(target)
	w.tools.Remove(target)
	w.layers.Remove(target)
	w.itemDefs.Remove(target)
	w.stats.Remove(target)
	w.positions.Remove(target)
	w.feedback.Remove(target)
	return true
}

// ApplyPlayFeedback never fails; it records msgID for the snapshot and is
// a no-op on an entity with no feedback log component.
func (w *World) ApplyPlayFeedback(target entity.ID, msgID uint32) bool {
	fb, ok := w.feedback.Get(target)
	if !ok {
		return true
	}
	fb.Push(msgID)
	return true
}
