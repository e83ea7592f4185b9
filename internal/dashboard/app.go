package dashboard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-globe/internal/geo"
	"github.com/i474232898/weather-globe/internal/globe"
	"github.com/i474232898/weather-globe/internal/weather"
)

// ErrStopped is returned by calls made after the loop has exited.
var ErrStopped = errors.New("dashboard loop stopped")

// FrameRecorder is told about every rendered frame.
type FrameRecorder interface {
	RecordFrame(f globe.Frame)
}

// App runs the dashboard loop. Frames, events and incoming records are all
// applied to State from the single goroutine running Run.
type App struct {
	state    *State
	interval time.Duration
	logger   *zap.Logger
	recorder FrameRecorder

	cmds    chan func()
	stopped chan struct{}
}

func NewApp(state *State, frameInterval time.Duration, logger *zap.Logger, recorder FrameRecorder) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if frameInterval <= 0 {
		frameInterval = 16 * time.Millisecond
	}
	return &App{
		state:    state,
		interval: frameInterval,
		logger:   logger,
		recorder: recorder,
		cmds:     make(chan func()),
		stopped:  make(chan struct{}),
	}
}

// Run ticks the scene every frame interval and serves queued calls until ctx
// is done. It must be called once.
func (a *App) Run(ctx context.Context) error {
	defer close(a.stopped)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("dashboard loop started", zap.Duration("frame_interval", a.interval))

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("dashboard loop stopped")
			return nil
		case <-ticker.C:
			f := a.state.Tick()
			if a.recorder != nil {
				a.recorder.RecordFrame(f)
			}
		case fn := <-a.cmds:
			fn()
		}
	}
}

// do runs fn on the loop goroutine and waits for it to finish.
func (a *App) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}

	select {
	case a.cmds <- wrapped:
	case <-a.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done
	return nil
}

// OnRecord implements weather.Listener.
func (a *App) OnRecord(ctx context.Context, rec weather.CityRecord) error {
	return a.do(ctx, func() { a.state.ApplyRecord(rec) })
}

func (a *App) SelectCity(ctx context.Context, id string) (Slide, error) {
	return a.slideCall(ctx, func() (Slide, error) { return a.state.SelectCity(id) })
}

func (a *App) Next(ctx context.Context) (Slide, error) {
	return a.slideCall(ctx, a.state.Next)
}

func (a *App) Prev(ctx context.Context) (Slide, error) {
	return a.slideCall(ctx, a.state.Prev)
}

func (a *App) slideCall(ctx context.Context, fn func() (Slide, error)) (Slide, error) {
	var (
		s   Slide
		err error
	)
	if doErr := a.do(ctx, func() { s, err = fn() }); doErr != nil {
		return Slide{}, doErr
	}
	return s, err
}

func (a *App) Resize(ctx context.Context, width, height int) error {
	var err error
	if doErr := a.do(ctx, func() { err = a.state.Resize(width, height) }); doErr != nil {
		return doErr
	}
	return err
}

func (a *App) LookAt(ctx context.Context, target geo.Vec3) error {
	var err error
	if doErr := a.do(ctx, func() { err = a.state.LookAt(target) }); doErr != nil {
		return doErr
	}
	return err
}

func (a *App) View(ctx context.Context) (View, error) {
	var v View
	err := a.do(ctx, func() { v = a.state.View() })
	return v, err
}
