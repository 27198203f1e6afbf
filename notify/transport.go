package notify

import (
	"context"

	"go.uber.org/zap"
)

// Transport delivers a single message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type TransportFunc func(ctx context.Context, msg Message) error

func (f TransportFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Chain sends through primary and then every secondary transport. Only a
// primary failure fails the delivery; secondary failures are logged.
func Chain(log *zap.Logger, primary Transport, secondary ...Transport) Transport {
	return TransportFunc(func(ctx context.Context, msg Message) error {
		if err := primary.Send(ctx, msg); err != nil {
			return err
		}
		for _, t := range secondary {
			if err := t.Send(ctx, msg); err != nil {
				log.Warn("secondary notification transport failed",
					zap.String("kind", string(msg.Kind)),
					zap.Uint("recipient_id", msg.To.ID),
					zap.Error(err))
			}
		}
		return nil
	})
}
