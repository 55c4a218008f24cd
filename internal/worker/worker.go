// Package worker implements spec.md §4.3's per-source worker: a blocking
// capture loop, one per active NDI source, that rate-limits, encodes, and
// publishes JPEG frames until it idles out or the source dies.
package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hassler-labs/streambridge/internal/hooks"
	"github.com/hassler-labs/streambridge/internal/logger"
	"github.com/hassler-labs/streambridge/internal/ndiapi"
	"github.com/hassler-labs/streambridge/internal/ndierrors"
	"github.com/hassler-labs/streambridge/internal/pixelconv"
	"github.com/hassler-labs/streambridge/internal/receivermgr"
)

// idlePoll is how long the worker sleeps before rechecking subscriber count
// when it finds none (spec.md §4.3 step 2).
const idlePoll = 100 * time.Millisecond

// captureTimeout bounds each capture_video call (spec.md §4.3 step 3).
const captureTimeout = 1000

// Config carries the two knobs that shape a worker's behavior.
type Config struct {
	MaxFPS      int
	JPEGQuality int
}

// Run executes the per-source worker loop described by spec.md §4.3. It owns
// recv and scratch exclusively until it returns, at which point it calls
// onExit exactly once (the manager's self-removal hook). recv is closed
// before onExit runs.
//
// Run never returns until the worker's exit condition is met; callers spawn
// it on its own goroutine (the Go analog of spec.md's dedicated OS thread —
// the blocking NDI capture call never yields to the Go scheduler in a way
// that would stall other goroutines, since it crosses into native code).
func Run(ctx context.Context, rec *receivermgr.Record, recv *ndiapi.ReceiveInstance, cfg Config, hookMgr *hooks.Manager, onExit func()) {
	log := logger.WithSource(logger.Logger(), rec.SourceName)
	defer func() {
		recv.Close()
		onExit()
		if hookMgr != nil {
			hookMgr.Fire(hooks.NewEvent(hooks.WorkerStopped).WithSource(rec.SourceName))
		}
		log.Info("worker stopped")
	}()

	if hookMgr != nil {
		hookMgr.Fire(hooks.NewEvent(hooks.WorkerStarted).WithSource(rec.SourceName))
	}
	log.Info("worker started")

	var limiter *rate.Limiter
	if cfg.MaxFPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxFPS), 1)
	}

	scratch := pixelconv.NewScratch()

	for {
		if rec.StopRequested() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		if rec.Idle() {
			time.Sleep(idlePoll)
			if rec.Idle() {
				return
			}
			continue
		}

		frameType, vf := recv.Capture(captureTimeout)
		switch frameType {
		case ndiapi.FrameTypeVideo:
			handleVideoFrame(rec, recv, vf, limiter, cfg, scratch, log)
		case ndiapi.FrameTypeError:
			err := ndierrors.NewCaptureError(rec.SourceName, nil)
			if ndierrors.IsFatal(err) {
				log.Warn("capture returned fatal error; worker exiting", "error", err)
				if hookMgr != nil {
					hookMgr.Fire(hooks.NewEvent(hooks.SourceLost).WithSource(rec.SourceName))
				}
				rec.Broadcast.Close()
			}
			return
		case ndiapi.FrameTypeNone:
			// 1s timeout expired with no data; loop.
		default:
			// Audio / Metadata / StatusChange: ignored.
		}
	}
}

func handleVideoFrame(rec *receivermgr.Record, recv *ndiapi.ReceiveInstance, vf *ndiapi.VideoFrame, limiter *rate.Limiter, cfg Config, scratch *pixelconv.Scratch, log *slog.Logger) {
	defer recv.FreeVideo(vf)

	rec.Stats.AddFramesIn(1)

	if limiter != nil && !limiter.Allow() {
		rec.Stats.AddDropped(1)
		return
	}

	start := time.Now()
	jpegBytes, err := pixelconv.EncodeFrame(vf.Data, vf.Width, vf.Height, vf.StrideBytes, vf.FourCC, cfg.JPEGQuality, scratch)
	if err != nil {
		log.Warn("frame encode failed", "fourcc", vf.FourCC.String(), "error", err)
		rec.Stats.AddDropped(1)
		return
	}
	elapsedUs := time.Since(start).Microseconds()

	rec.Stats.AddEncodeTimeUs(uint64(elapsedUs))
	rec.Stats.AddEncodeCount(1)
	rec.Stats.AddBytesOut(uint64(len(jpegBytes)))
	rec.Stats.AddFramesOut(1)

	rec.Broadcast.Publish(jpegBytes)
}
