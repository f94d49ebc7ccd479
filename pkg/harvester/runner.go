package harvester

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"tlharvest/pkg/config"
	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/filter"
	"tlharvest/pkg/logger"
	"tlharvest/pkg/output"
	"tlharvest/pkg/ratelimit"
	"tlharvest/pkg/retry"
)

// Report is the outcome of a run
type Report struct {
	RunID       string
	Users       []UserResult
	Failed      []int64
	Written     int
	Dropped     int
	Files       []string
	Interrupted bool
	Duration    time.Duration

	// PageWaits and Paced report time spent under the rate limit; both stay
	// zero when the controller has no pacing source
	PageWaits int
	Paced     time.Duration
}

// PacingStats reports how often and how long the page pacer slept
type PacingStats interface {
	Period() time.Duration
	Stats() (waits int, slept time.Duration)
}

// Controller processes every user of a run in order, sharing one writer
// and one backoff across users
type Controller struct {
	userIDs   []int64
	processor UserProcessor
	writer    RecordWriter
	backoff   *retry.Doubling
	pacing    PacingStats
	logger    logger.Logger

	// OnUser, when set, is called after each user with the number of users
	// handled so far
	OnUser func(done, total int, res UserResult, err error)
}

// NewController wires a controller from its parts
func NewController(userIDs []int64, processor UserProcessor, writer RecordWriter, backoff *retry.Doubling, log logger.Logger) *Controller {
	if log == nil {
		log = logger.GetLogger()
	}
	ids := make([]int64, len(userIDs))
	copy(ids, userIDs)
	return &Controller{
		userIDs:   ids,
		processor: processor,
		writer:    writer,
		backoff:   backoff,
		logger:    log,
	}
}

// NewFromRunConfig builds the writer, pacer, policy and backoff described by
// rc around pager
func NewFromRunConfig(rc config.RunConfig, pager Pager, log logger.Logger) (*Controller, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	writer, err := output.NewWriter(output.Options{
		Directory:      rc.Directory,
		Prefix:         rc.Prefix,
		RowsPerFile:    rc.RowsPerFile,
		SequenceDigits: rc.SequenceDigits,
		Naming:         rc.Naming,
		Compress:       rc.Compress,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}

	policy := filter.Policy{
		Window:  filter.Window{Min: rc.Since, Max: rc.Until},
		GeoOnly: rc.GeoOnly,
	}
	pacer := ratelimit.NewInterval(rc.RateLimit)
	processor := NewProcessor(pager, writer, pacer, policy, rc.StopOnWindow, log)

	c := NewController(rc.UserIDs, processor, writer, retry.NewDoubling(rc.InitialRetryDelay, rc.MaxRetryDelay), log)
	c.SetPacing(pacer)
	return c, nil
}

// SetPacing attaches the pacer whose counters end up in the report
func (c *Controller) SetPacing(p PacingStats) {
	c.pacing = p
}

// Run processes all users. A request failure for a user escalates the
// backoff and waits before the next user; the failed user is not retried.
// When ctx is cancelled the open file is closed on a best-effort basis and
// errors.ErrInterrupted is returned.
func (c *Controller) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{RunID: newRunID()}
	log := c.logger.WithField("run_id", report.RunID)

	fields := map[string]interface{}{"users": len(c.userIDs)}
	if c.pacing != nil {
		fields["rate_limit"] = c.pacing.Period().String()
	}
	log.InfoWithFields("Starting harvest", fields)

	for i, uid := range c.userIDs {
		if ctx.Err() != nil {
			return c.interrupted(report, start, log)
		}

		res, err := c.processor.ProcessUser(ctx, uid)
		report.Users = append(report.Users, res)
		report.Written += res.Written
		report.Dropped += res.Dropped

		if err != nil && ctx.Err() != nil {
			return c.interrupted(report, start, log)
		}

		if c.OnUser != nil {
			c.OnUser(i+1, len(c.userIDs), res, err)
		}

		if err == nil {
			logger.LogUserDone(log, uid, res.Pages, res.Written, string(res.Stop))
			continue
		}

		report.Failed = append(report.Failed, uid)
		if !errs.IsRequestFailure(err) {
			log.WithError(err).WithField("user_id", uid).Error("Failed to process user")
			continue
		}

		delay := c.backoff.Escalate()
		logger.LogBackoff(log, uid, delay, err)
		if err := retry.Wait(ctx, delay); err != nil {
			return c.interrupted(report, start, log)
		}
	}

	closeErr := c.writer.Close()
	report.Files = c.writer.Files()
	report.Duration = time.Since(start)
	c.collectPacing(&report)

	log.InfoWithFields("Harvest finished", map[string]interface{}{
		"users":      len(report.Users),
		"failed":     len(report.Failed),
		"written":    report.Written,
		"dropped":    report.Dropped,
		"files":      len(report.Files),
		"page_waits": report.PageWaits,
		"paced":      report.Paced.String(),
	})

	if closeErr != nil {
		return report, fmt.Errorf("failed to close output: %w", closeErr)
	}
	return report, nil
}

func (c *Controller) interrupted(report Report, start time.Time, log logger.Logger) (Report, error) {
	if err := c.writer.Close(); err != nil {
		log.WithError(err).Debug("Ignoring close error after interrupt")
	}
	report.Files = c.writer.Files()
	report.Interrupted = true
	report.Duration = time.Since(start)
	c.collectPacing(&report)

	log.WarnWithFields("Harvest interrupted", map[string]interface{}{
		"users":   len(report.Users),
		"written": report.Written,
	})
	return report, errs.ErrInterrupted
}

func (c *Controller) collectPacing(report *Report) {
	if c.pacing == nil {
		return
	}
	report.PageWaits, report.Paced = c.pacing.Stats()
}

// newRunID returns a unique id that tags every log line of one run
func newRunID() string {
	return fmt.Sprintf("harvest-%s", uuid.NewString())
}
