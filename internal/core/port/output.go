package port

import (
	"context"

	"github.com/shockbridge/shockbridge/internal/core/domain"
)

// OutputChannel delivers canonical commands to the physical actuator.
// Send must not retry; a failed command is dropped.
type OutputChannel interface {
	Name() domain.Transport
	Send(ctx context.Context, cmd domain.CanonicalCommand) error
	Status() domain.OutputStatus
}

// RawLineWriter is implemented by outputs that accept free-form lines.
type RawLineWriter interface {
	WriteLine(line string) error
}
