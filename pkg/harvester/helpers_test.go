package harvester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/twitter"
)

var base = time.Date(2017, 9, 22, 0, 0, 0, 0, time.UTC)

func post(id int64, ts time.Time) twitter.Item {
	return twitter.Item{Raw: json.RawMessage(fmt.Sprintf(
		`{"id":%d,"created_at":%q,"text":"post %d","coordinates":null,"place":null}`,
		id, ts.Format(twitter.CreatedAtLayout), id))}
}

func geoPost(id int64, ts time.Time) twitter.Item {
	return twitter.Item{Raw: json.RawMessage(fmt.Sprintf(
		`{"id":%d,"created_at":%q,"coordinates":null,"place":{"id":"abc"}}`,
		id, ts.Format(twitter.CreatedAtLayout)))}
}

func message(text string) twitter.Item {
	return twitter.Item{Raw: json.RawMessage(fmt.Sprintf(`{"message":%q}`, text))}
}

func days(n int) time.Time {
	return base.AddDate(0, 0, -n)
}

type pageResult struct {
	items []twitter.Item
	err   error
}

type pageCall struct {
	userID int64
	cursor int64
}

// scriptedPager replays pages per user; once a script runs out it returns
// empty pages
type scriptedPager struct {
	mu     sync.Mutex
	script map[int64][]pageResult
	calls  []pageCall
}

func (p *scriptedPager) Page(ctx context.Context, userID int64, cursor int64) ([]twitter.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pageCall{userID, cursor})

	pages := p.script[userID]
	if len(pages) == 0 {
		return nil, nil
	}
	next := pages[0]
	p.script[userID] = pages[1:]
	return next.items, next.err
}

func (p *scriptedPager) cursors(userID int64) []int64 {
	var out []int64
	for _, c := range p.calls {
		if c.userID == userID {
			out = append(out, c.cursor)
		}
	}
	return out
}

// memWriter keeps records as JSON strings
type memWriter struct {
	records  []string
	failNext bool
	dropNext bool
	closes   int
	closeErr error
}

func (w *memWriter) Write(v any) error {
	if w.failNext {
		w.failNext = false
		return errors.New("disk full")
	}
	if w.dropNext {
		w.dropNext = false
		return fmt.Errorf("%w: unsupported value", errs.ErrSerialization)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSerialization, err)
	}
	w.records = append(w.records, string(data))
	return nil
}

func (w *memWriter) Close() error {
	w.closes++
	return w.closeErr
}

func (w *memWriter) Files() []string {
	if len(w.records) == 0 {
		return nil
	}
	return []string{"mem-001.json"}
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}
