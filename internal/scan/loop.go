package scan

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/kioskworks/qrkiosk/internal/common"
	"github.com/kioskworks/qrkiosk/internal/logging"
	"github.com/kioskworks/qrkiosk/internal/models"
	"github.com/kioskworks/qrkiosk/internal/service"
)

// FrameSource produces camera frames one at a time. Next blocks until a
// frame is available, the source is exhausted (io.EOF), or ctx is done.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// Decoder extracts at most one QR payload from a frame. ok is false when the
// frame holds no code; a non-nil error means the frame was malformed and
// should be skipped.
type Decoder interface {
	Decode(frame image.Image) (code string, ok bool, err error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(image.Image) (string, bool, error)

func (f DecoderFunc) Decode(frame image.Image) (string, bool, error) {
	return f(frame)
}

// SnapshotWriter persists the annotated audit image for one scan event.
type SnapshotWriter interface {
	Save(frame image.Image, message string, clr color.Color, code, timestamp string) (path string, err error)
}

var (
	colorLogin  = color.RGBA{G: 255, A: 255}
	colorLogout = color.RGBA{R: 255, A: 255}
)

// Loop is the kiosk's control loop: pull one frame, decode, deduplicate,
// run the presence transition, persist the snapshot, pause, repeat. Strictly
// sequential; timestamps are sampled once per accepted event, so ledger
// order matches frame order.
type Loop struct {
	source    FrameSource
	decoder   Decoder
	directory *service.DirectoryService
	presence  *service.PresenceService
	snapshots SnapshotWriter
	dedup     *Deduplicator
	log       logging.Logger

	now   func() time.Time
	delay time.Duration
}

func NewLoop(
	source FrameSource,
	decoder Decoder,
	directory *service.DirectoryService,
	presence *service.PresenceService,
	snapshots SnapshotWriter,
	delay time.Duration,
	log logging.Logger,
) *Loop {
	return &Loop{
		source:    source,
		decoder:   decoder,
		directory: directory,
		presence:  presence,
		snapshots: snapshots,
		dedup:     NewDeduplicator(),
		log:       log.With("component", "scanloop"),
		now:       time.Now,
		delay:     delay,
	}
}

// Run processes frames until the source is exhausted or ctx is cancelled.
// Per-frame failures are logged and never terminate the loop.
func (l *Loop) Run(ctx context.Context) error {
	for {
		frame, err := l.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
				l.log.Info(ctx, "frame source closed, shutting down")
				return nil
			}
			if errors.Is(err, ErrBadFrame) {
				l.log.Warn(ctx, "skipping unreadable frame", "error", err)
				continue
			}
			return err
		}

		if l.processFrame(ctx, frame) {
			// hold the confirmation on screen; doubles as the minimum
			// inter-scan interval
			l.pause(ctx)
		}
	}
}

// processFrame handles one frame end to end and reports whether it produced
// an accepted scan event.
func (l *Loop) processFrame(ctx context.Context, frame image.Image) bool {
	code, ok, err := l.decoder.Decode(frame)
	if err != nil {
		// malformed frame: skip it, leave the dedup memory alone
		l.log.Warn(ctx, "decode failed, skipping frame", "error", err)
		return false
	}

	if !l.dedup.Observe(code, ok) {
		return false
	}

	whitelisted, err := l.directory.IsWhitelisted(ctx, code)
	if err != nil {
		l.log.Error(ctx, "whitelist check failed", "code", code, "error", err)
		return false
	}
	if !whitelisted {
		l.log.Warn(ctx, "unrecognized code scanned", "code", code)
		return false
	}

	det := models.Detection{Code: code, At: l.now()}

	result, err := l.presence.Observe(ctx, det.Code, det.At)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNoOpenSession):
			l.log.Error(ctx, "ledger desync: logout with no open session, scan dropped", "code", det.Code)
		case errors.Is(err, common.ErrorNotFound):
			l.log.Warn(ctx, "code vanished between whitelist check and transition", "code", det.Code)
		default:
			l.log.Error(ctx, "presence transition failed", "code", det.Code, "error", err)
		}
		return false
	}

	clr := colorLogin
	if result == service.ResultLoggedOut {
		clr = colorLogout
	}

	path, err := l.snapshots.Save(frame, result.String(), clr, det.Code, det.Timestamp())
	if err != nil {
		// the transition is already committed; a lost snapshot is not fatal
		l.log.Error(ctx, "failed to save snapshot", "code", det.Code, "error", err)
	} else {
		l.log.Info(ctx, "scan recorded", "code", det.Code, "result", result.String(), "snapshot", path)
	}

	return true
}

func (l *Loop) pause(ctx context.Context) {
	if l.delay <= 0 {
		return
	}
	t := time.NewTimer(l.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
