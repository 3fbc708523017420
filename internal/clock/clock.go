package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies current time to components that do calendar arithmetic or
// TTL decisions, so tests can pin it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
