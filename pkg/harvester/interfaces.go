package harvester

import (
	"context"

	"tlharvest/pkg/twitter"
)

// Pager fetches one page of a user's timeline older than cursor
type Pager interface {
	Page(ctx context.Context, userID int64, cursor int64) ([]twitter.Item, error)
}

// RecordWriter persists records as JSON lines
type RecordWriter interface {
	Write(v any) error
	Close() error
	Files() []string
}

// Pacer is waited on after every fetched page
type Pacer interface {
	Wait(ctx context.Context) error
}

// UserProcessor paginates a single user's timeline
type UserProcessor interface {
	ProcessUser(ctx context.Context, userID int64) (UserResult, error)
}
