package actorutil

import (
	"github.com/asynkron/protoactor-go/actor"
)

// ActorWithStates is a behavior whose handlers are named states, so the
// current one can be reported in logs and health replies.
type ActorWithStates struct {
	Behavior actor.Behavior
	state    ActorState
}

type ActorState interface {
	Name() string
	Receive(actor.Context)
}

func (s *ActorWithStates) Become(state ActorState) {
	s.state = state
	s.Behavior.Become(state.Receive)
}

func (s *ActorWithStates) StateName() string {
	if s.state == nil {
		return ""
	}
	return s.state.Name()
}
