package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/world"
)

// RunOptions control the tick loop.
type RunOptions struct {
	TickRate int
	// MaxDuration stops the loop after this much simulated time. Zero runs
	// until the tour ends or ctx is done.
	MaxDuration time.Duration
	// Realtime paces ticks with a wall clock ticker. Otherwise ticks run
	// back to back.
	Realtime bool
	Tour     *Tour
	// Changes delivers paths of edited world files.
	Changes <-chan string
}

// Tour takes a fixed list of teleports, staying Dwell seconds at each stop
// once the previous teleport has finished.
type Tour struct {
	Stops []*location.TeleportEdge
	Dwell float64

	next  int
	stay  float64
	taken int
}

// NewTour resolves edge names against w.
func NewTour(w *world.World, names []string, dwell time.Duration) (*Tour, error) {
	t := &Tour{Dwell: dwell.Seconds()}
	for _, n := range names {
		e, ok := w.Edge(n)
		if !ok {
			return nil, fmt.Errorf("tour stop %q: %w", n, ErrUnknownEdge)
		}
		t.Stops = append(t.Stops, e)
	}
	return t, nil
}

// Done reports whether every stop was taken.
func (t *Tour) Done() bool { return t.next >= len(t.Stops) }

// Taken returns how many teleports were started.
func (t *Tour) Taken() int { return t.taken }

func (t *Tour) update(v *Viewer, dt float64) error {
	if t.Done() || v.teleport.Busy() {
		t.stay = 0
		return nil
	}
	t.stay += dt
	if t.stay < t.Dwell {
		return nil
	}
	e := t.Stops[t.next]
	t.next++
	t.stay = 0
	if err := v.TakeEdge(e); err != nil {
		return err
	}
	t.taken++
	return nil
}

// Run ticks the viewer until the tour ends, MaxDuration passes or ctx is
// done. The viewer must be started.
func (v *Viewer) Run(ctx context.Context, opts RunOptions) error {
	if !v.started {
		return ErrNotStarted
	}
	if opts.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", opts.TickRate)
	}
	step := time.Second / time.Duration(opts.TickRate)
	dt := step.Seconds()

	var tick <-chan time.Time
	if opts.Realtime {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		tick = ticker.C
	}

	begin := v.elapsed
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}

		v.drainChanges(opts.Changes)
		if opts.Tour != nil {
			if err := opts.Tour.update(v, dt); err != nil {
				return err
			}
		}
		v.Step(dt)

		if opts.Tour != nil && opts.Tour.Done() && !v.teleport.Busy() && !v.fader.Busy() {
			v.log.Info("tour finished", zap.Int("teleports", opts.Tour.Taken()))
			return nil
		}
		if opts.MaxDuration > 0 && v.elapsed-begin >= opts.MaxDuration.Seconds() {
			v.log.Info("max duration reached", zap.Duration("duration", opts.MaxDuration))
			return nil
		}
	}
}

func (v *Viewer) drainChanges(ch <-chan string) {
	if ch == nil {
		return
	}
	for {
		select {
		case path, ok := <-ch:
			if !ok {
				return
			}
			src, err := v.loader.Load(path)
			if err != nil {
				v.log.Error("world reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			v.Reload(src)
		default:
			return
		}
	}
}
