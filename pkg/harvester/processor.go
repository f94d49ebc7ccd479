package harvester

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/filter"
	"tlharvest/pkg/logger"
	"tlharvest/pkg/models"
)

// StopReason tells why pagination of a user ended
type StopReason string

const (
	// StopExhausted means the API returned an empty page
	StopExhausted StopReason = "exhausted"
	// StopPassedWindow means the oldest post seen is older than the window
	StopPassedWindow StopReason = "passed_window"
	// StopStalled means a non-empty page did not move the cursor
	StopStalled StopReason = "stalled"
	// StopFailed means a page request failed or the run was interrupted
	StopFailed StopReason = "failed"
)

// UserResult summarizes the pagination of one user
type UserResult struct {
	UserID   int64
	Pages    int
	Items    int
	Written  int
	Dropped  int
	LastSeen time.Time
	Stop     StopReason
}

// Processor walks one user's timeline from newest to oldest, writing the
// items the policy accepts
type Processor struct {
	pager        Pager
	writer       RecordWriter
	pacer        Pacer
	policy       filter.Policy
	stopOnWindow bool
	logger       logger.Logger
}

// NewProcessor creates a processor. With stopOnWindow false pagination only
// ends on an empty page.
func NewProcessor(pager Pager, writer RecordWriter, pacer Pacer, policy filter.Policy, stopOnWindow bool, log logger.Logger) *Processor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Processor{
		pager:        pager,
		writer:       writer,
		pacer:        pacer,
		policy:       policy,
		stopOnWindow: stopOnWindow,
		logger:       log,
	}
}

// ProcessUser pages through userID's timeline until it is exhausted, the
// window has been passed, or a page makes no progress. Page request errors
// are returned wrapped; write errors are logged and the item is dropped.
func (p *Processor) ProcessUser(ctx context.Context, userID int64) (UserResult, error) {
	res := UserResult{UserID: userID, Stop: StopFailed}
	log := p.logger.WithField("user_id", userID)

	var cursor int64
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		items, err := p.pager.Page(ctx, userID, cursor)
		if err != nil {
			return res, fmt.Errorf("user %d: %w", userID, err)
		}
		res.Pages++
		res.Items += len(items)

		prev := cursor
		for _, item := range items {
			post, err := filter.Extract(item)
			if err != nil {
				if filter.HasMessage(item) {
					p.write(log, item, &res)
				} else {
					log.WithError(err).Debug("Skipping item without id or timestamp")
				}
				continue
			}

			cursor = post.ID
			res.LastSeen = post.CreatedAt
			if p.policy.Accepts(post) {
				p.write(log, item, &res)
			}
		}

		if err := p.pacer.Wait(ctx); err != nil {
			return res, err
		}

		switch {
		case len(items) == 0:
			if err := p.writer.Write(models.NewReachedLimit(userID, res.LastSeen)); err != nil {
				log.WithError(err).Error("Failed to write reached_limit record")
			}
			res.Stop = StopExhausted
			return res, nil
		case p.stopOnWindow && !res.LastSeen.IsZero() && res.LastSeen.Before(p.policy.Window.Min):
			res.Stop = StopPassedWindow
			return res, nil
		case cursor == prev:
			log.WarnWithFields("Page did not advance the cursor, stopping user", map[string]interface{}{
				"cursor": cursor,
				"items":  len(items),
			})
			res.Stop = StopStalled
			return res, nil
		}
	}
}

func (p *Processor) write(log logger.Logger, v any, res *UserResult) {
	err := p.writer.Write(v)
	switch {
	case err == nil:
		res.Written++
	case errors.Is(err, errs.ErrSerialization):
		res.Dropped++
	default:
		log.WithError(err).Error("Failed to write record")
	}
}
