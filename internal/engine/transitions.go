package engine

import (
	"go.uber.org/zap"

	"github.com/soroush/shazam/internal/types"
)

// validTransitions lists the states each state may move to
var validTransitions = map[types.CycleState][]types.CycleState{
	types.StateIdle:                 {types.StateGenerating},
	types.StateGenerating:           {types.StateSanitizing, types.StateFailed, types.StateCancelled},
	types.StateSanitizing:           {types.StateClassifying, types.StateFailed},
	types.StateClassifying:          {types.StateAwaitingConfirmation, types.StateExecuting},
	types.StateAwaitingConfirmation: {types.StateExecuting, types.StateCancelled},
	types.StateExecuting:            {types.StateSucceeded, types.StateFailed},
}

// CanTransition reports whether the cycle may move from one state to another
func CanTransition(from, to types.CycleState) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (c *Controller) transition(to types.CycleState) {
	from := c.state
	if !CanTransition(from, to) {
		// Development loggers panic here
		c.logger.DPanic("invalid cycle transition",
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}
	c.state = to
	c.logger.Debug("cycle transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}
