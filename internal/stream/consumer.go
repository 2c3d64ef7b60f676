package stream

import "context"

// StreamConsumer receives report requests from a message stream and runs
// each one through the scoring pipeline.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
