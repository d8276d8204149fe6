package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// runTxn executes fn inside one multi-document transaction. The driver's
// WithTransaction serializes conflicting transactions with automatic retry on
// transient/conflict aborts, so every read-then-increment in fn is atomic
// with respect to concurrent callers. Errors returned by fn abort the
// transaction and propagate unchanged.
func runTxn(ctx context.Context, client *mongo.Client, fn func(mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
