package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// watchCollection drives a live snapshot-replace subscription: refresh runs
// once up front, then again after every change-stream event on coll and on
// every tick (for queries whose filter slides with the clock). Each refresh
// re-runs the full query, so consumers always receive an authoritative
// replacement of the result set, never a diff. The loop runs until ctx is
// cancelled. Change streams require a replica-set deployment.
func watchCollection(ctx context.Context, coll *mongo.Collection, tick time.Duration, refresh func(context.Context) error) error {
	if err := refresh(ctx); err != nil {
		return err
	}

	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer stream.Close(context.Background())

	events := make(chan struct{}, 1)
	streamDone := make(chan error, 1)
	go func() {
		for stream.Next(ctx) {
			// Coalesce bursts: one pending refresh is enough.
			select {
			case events <- struct{}{}:
			default:
			}
		}
		streamDone <- stream.Err()
	}()

	var tickC <-chan time.Time
	if tick > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-streamDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return ctx.Err()
		case <-events:
			if err := refresh(ctx); err != nil {
				return err
			}
		case <-tickC:
			if err := refresh(ctx); err != nil {
				return err
			}
		}
	}
}
