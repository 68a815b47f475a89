package services

import (
	"context"
	"fmt"
	"launchpad/internal/models"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	CaptionEmpty       = "No notifications posted yet"
	CaptionUnavailable = "Unable to get notification history"

	captionLatest    = "Last notification posted %s"
	captionLastKnown = "Last known notification posted %s"
)

// Caption is the line shown under the history. Relative captions embed the
// time since Posted and go stale; fixed ones never change.
type Caption struct {
	text   string
	format string
	posted time.Time
}

// NewCaption picks the caption for the outcome of a sync cycle.
func NewCaption(records models.History, fetchFailed bool) Caption {
	newest, ok := records.Newest()
	switch {
	case !ok && fetchFailed:
		return Caption{text: CaptionUnavailable}
	case !ok:
		return Caption{text: CaptionEmpty}
	case fetchFailed:
		return Caption{format: captionLastKnown, posted: newest.Posted}
	default:
		return Caption{format: captionLatest, posted: newest.Posted}
	}
}

func (c Caption) Relative() bool {
	return c.format != ""
}

func (c Caption) Render(now time.Time) string {
	if !c.Relative() {
		return c.text
	}
	return fmt.Sprintf(c.format, humanize.RelTime(c.posted, now, "ago", "from now"))
}

// CaptionTicker re-renders a relative caption on every tick until its context
// is cancelled.
type CaptionTicker struct {
	caption  Caption
	interval time.Duration
	now      func() time.Time
	apply    func(string)
}

func NewCaptionTicker(caption Caption, interval time.Duration, now func() time.Time, apply func(string)) *CaptionTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &CaptionTicker{caption: caption, interval: interval, now: now, apply: apply}
}

func (c *CaptionTicker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.apply(c.caption.Render(c.now()))
		}
	}
}
