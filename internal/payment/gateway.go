package payment

import (
	"context"
	"time"

	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Processor is the external payment step of the contribution lifecycle. It
// may block; it never rolls back a committed ledger write.
type Processor interface {
	Charge(ctx context.Context, contribution contributiondomain.Contribution) error
}

const defaultGatewayDelay = 500 * time.Millisecond

// StubGateway simulates a gateway round trip with a fixed delay and always
// approves. Real gateway integration is out of scope.
type StubGateway struct {
	log   *zap.Logger
	delay time.Duration
}

func NewStubGateway(log *zap.Logger, delay time.Duration) *StubGateway {
	if delay <= 0 {
		delay = defaultGatewayDelay
	}
	return &StubGateway{
		log:   log.Named("payment.gateway"),
		delay: delay,
	}
}

func (g *StubGateway) Charge(ctx context.Context, contribution contributiondomain.Contribution) error {
	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	g.log.Info("payment approved",
		zap.String("contribution_id", contribution.ID.String()),
		zap.Float64("amount", contribution.Amount),
	)
	return nil
}

func provide(log *zap.Logger) Processor {
	return NewStubGateway(log, defaultGatewayDelay)
}

var Module = fx.Module("payment",
	fx.Provide(provide),
)
