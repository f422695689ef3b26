// Package command implements the deferred mutation queue interaction
// processing pushes into, and the flush applicators that are the single
// place in the core allowed to mutate component stores.
package command

import (
	"errors"
	"log"

	"github.com/dshills/simcore/internal/component"
	"github.com/dshills/simcore/internal/entity"
)

// ErrBufferFull is returned by Push when the buffer is at capacity. The
// command is dropped and counted, not queued or retried.
var ErrBufferFull = errors.New("command: buffer full")

// Type is a closed enum over command kinds, dispatched by Flush.
type Type uint8

const (
	TypeNone Type = iota
	TypeDamageLayer
	TypeCritDamage
	TypeModifyStat
	TypeTransformEntity
	TypeMoveEntity
	TypeRemoveEntity
	TypePlayFeedback
)

// StatOp names the mutation a ModifyStat command applies.
type StatOp uint8

const (
	StatOpAdd StatOp = iota
	StatOpSubtract
	StatOpSet
)

// MaxCommands bounds a single tick's command batch.
const MaxCommands = 4096

// Command is one deferred mutation produced by the interaction pipeline.
// Field meaning depends on Type; unused fields are zero.
type Command struct {
	Type         Type
	SourceEntity entity.ID
	TargetEntity entity.ID
	Tick         uint64

	Amount    int32 // DamageLayer, CritDamage amount; ModifyStat delta/value
	StatID    component.StatID
	StatOp    StatOp
	NewDefID  uint32 // TransformEntity
	DX, DY    int32  // MoveEntity
	MessageID uint32 // PlayFeedback
}

// Applicator is the store-mutation surface Flush dispatches against. A
// concrete implementation (world.World) composes the component stores and
// the material engine; command itself holds no store state, preserving
// the single-writer discipline at the package boundary rather than inside
// any one store.
type Applicator interface {
	ApplyDamageLayer(target entity.ID, amount int32) bool
	ApplyCritDamage(target entity.ID, amount int32) bool
	ApplyModifyStat(target entity.ID, stat component.StatID, op StatOp, amount int32) bool
	ApplyTransformEntity(target entity.ID, newDefID uint32) bool
	ApplyMoveEntity(target entity.ID, dx, dy int32) bool
	ApplyRemoveEntity(target entity.ID) bool
	ApplyPlayFeedback(target entity.ID, msgID uint32) bool
}

// Buffer is the fixed-capacity deferred command queue. Construct it with
// NewBuffer; Init keeps the existing capacity, so a zero-value Buffer has
// capacity 0 and drops every Push.
type Buffer struct {
	commands []Command
	capacity int
	applied  int
	rejected int
	dropped  int
}

// NewBuffer returns a buffer with the given fixed capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{commands: make([]Command, 0, capacity), capacity: capacity}
}

// Init resets the buffer to empty, preserving capacity. Counters from the
// prior batch are cleared; callers that need them must read before the
// next Init/Flush.
func (b *Buffer) Init() {
	b.commands = b.commands[:0]
	b.applied = 0
	b.rejected = 0
	b.dropped = 0
}

// Count returns the number of pending commands.
func (b *Buffer) Count() int { return len(b.commands) }

// Applied returns the applicator-success count from the last Flush.
func (b *Buffer) Applied() int { return b.applied }

// Rejected returns the applicator-failure count from the last Flush.
func (b *Buffer) Rejected() int { return b.rejected }

// Dropped returns the number of Push calls that found the buffer full
// since the last Init. A drop is an overflow event distinct from a flush
// rejection.
func (b *Buffer) Dropped() int { return b.dropped }

// Push appends cmd if the buffer has room. A full buffer drops the
// command with a logged warning and returns ErrBufferFull, rather than
// blocking or aborting the interaction that produced it.
func (b *Buffer) Push(cmd Command) error {
	if len(b.commands) >= b.capacity {
		b.dropped++
		log.Printf("command: buffer full (capacity %d), dropping %v command for entity %d", b.capacity, cmd.Type, cmd.TargetEntity)
		return ErrBufferFull
	}
	b.commands = append(b.commands, cmd)
	return nil
}

// Flush dispatches every pending command to app in push order, then
// resets the buffer to empty. Applied/rejected counters reflect only this
// batch. This is the sole place in the core that mutates component
// stores.
func (b *Buffer) Flush(app Applicator) {
	applied, rejected := 0, 0
	for _, cmd := range b.commands {
		ok := dispatch(app, cmd)
		if ok {
			applied++
		} else {
			rejected++
		}
	}
	b.applied = applied
	b.rejected = rejected
	b.commands = b.commands[:0]
}

func dispatch(app Applicator, cmd Command) bool {
	switch cmd.Type {
	case TypeDamageLayer:
		return app.ApplyDamageLayer(cmd.TargetEntity, cmd.Amount)
	case TypeCritDamage:
		return app.ApplyCritDamage(cmd.TargetEntity, cmd.Amount)
	case TypeModifyStat:
		return app.ApplyModifyStat(cmd.TargetEntity, cmd.StatID, cmd.StatOp, cmd.Amount)
	case TypeTransformEntity:
		return app.ApplyTransformEntity(cmd.TargetEntity, cmd.NewDefID)
	case TypeMoveEntity:
		return app.ApplyMoveEntity(cmd.TargetEntity, cmd.DX, cmd.DY)
	case TypeRemoveEntity:
		return app.ApplyRemoveEntity(cmd.TargetEntity)
	case TypePlayFeedback:
		return app.ApplyPlayFeedback(cmd.TargetEntity, cmd.MessageID)
	default:
		// TypeNone and any other unrecognized type count as rejected rather
		// than aborting the flush; a malformed rule table must not take down
		// a tick in progress.
		return false
	}
}
