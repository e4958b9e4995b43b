package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Guliveer/rctop/internal/collector"
	"github.com/Guliveer/rctop/internal/config"
	"github.com/Guliveer/rctop/internal/input"
	"github.com/Guliveer/rctop/internal/render"
	"github.com/Guliveer/rctop/internal/sampler"
	"github.com/Guliveer/rctop/internal/snapshot"
	"github.com/Guliveer/rctop/internal/terminal"
)

// startupError is a failure before the dashboard is up and running.
type startupError struct {
	err error
}

func (e *startupError) Error() string { return e.err.Error() }
func (e *startupError) Unwrap() error { return e.err }

// runDashboard acquires the terminal and runs until the user quits, ctx is
// cancelled or the terminal fails.
func runDashboard(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return &startupError{err: errors.New("stdout is not a terminal")}
	}
	theme, err := themeFromConfig(cfg)
	if err != nil {
		return &startupError{err: err}
	}

	tty, err := terminal.Open()
	if err != nil {
		return &startupError{err: err}
	}

	provider := collector.NewSystem(logger,
		collector.WithPseudoFilesystems(cfg.Collection.IncludePseudoFS))

	logger.Info("Starting rctop",
		zap.String("version", version),
		zap.Duration("interval", cfg.Collection.Interval.Duration),
		zap.Duration("refresh", cfg.Display.RefreshInterval.Duration))

	err = dashboard(ctx, tty, provider, cfg, theme, logger)
	if err != nil {
		logger.Error("rctop stopped", zap.Error(err))
	} else {
		logger.Info("rctop stopped")
	}
	return err
}

// dashboard wires the sampler, renderer and input listener together. A quit
// key or a cancelled ctx is a clean exit. The terminal is always restored
// before dashboard returns.
func dashboard(
	ctx context.Context,
	tty *terminal.Terminal,
	provider collector.Provider,
	cfg *config.Config,
	theme render.Theme,
	logger *zap.Logger,
) error {
	defer tty.Restore()

	store := snapshot.NewStore()
	smp := sampler.New(provider, store, cfg, logger)
	rnd := render.New(tty, store, render.Options{
		Interval: cfg.Display.RefreshInterval.Duration,
		Theme:    theme,
		Version:  version,
	}, logger)
	lst := input.New(tty, rnd, logger)

	g, gctx := errgroup.WithContext(ctx)

	// Restoring the terminal ends the event stream, which is the only way
	// to unblock the listener.
	g.Go(func() error {
		<-gctx.Done()
		tty.Restore()
		return nil
	})

	g.Go(func() error {
		if err := smp.Sample(gctx); err != nil {
			if gctx.Err() != nil {
				return nil
			}
			return &startupError{err: fmt.Errorf("initial sample: %w", err)}
		}
		rnd.Repaint()
		return smp.Run(gctx)
	})

	g.Go(func() error { return rnd.Run(gctx) })
	g.Go(func() error { return lst.Run(gctx) })

	err := g.Wait()
	if errors.Is(err, input.ErrQuit) {
		return nil
	}
	return err
}

func themeFromConfig(cfg *config.Config) (render.Theme, error) {
	colors := cfg.Display.Colors
	var theme render.Theme
	for _, c := range []struct {
		name   string
		target *tcell.Color
	}{
		{colors.CPU, &theme.CPU},
		{colors.Memory, &theme.Memory},
		{colors.Disk, &theme.Disk},
		{colors.Header, &theme.Header},
	} {
		parsed, err := config.ParseColor(c.name)
		if err != nil {
			return render.Theme{}, fmt.Errorf("invalid color: %w", err)
		}
		*c.target = parsed
	}
	return theme, nil
}
