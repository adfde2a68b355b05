package probe

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/viewmode"
	"github.com/okian/atlas/pkg/logger"
)

// Views are the dashboard responses one probe run checks.
type Views struct {
	Sectors []dashboard.Card
	Heatmap []dashboard.HeatmapRow
	Risks   []dashboard.RiskRow
	Modes   []viewmode.Config
}

// Run checks the service health, fetches the dashboard views concurrently
// and verifies them against sc. A nil sc uses the default weights.
func Run(ctx context.Context, cfg *Config, sc *scoring.Scorer) (*Stats, error) {
	if sc == nil {
		sc = scoring.NewScorer()
	}
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting atlas probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("year", cfg.Year),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg)
	if err := c.get(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}

	views, err := fetch(ctx, c, stats, cfg.Verbose)
	if err != nil {
		return stats, err
	}

	stats.Sectors = len(views.Sectors)
	for _, card := range views.Sectors {
		if card.HasData() {
			stats.WithData++
		}
	}

	v := &verifier{scorer: sc}
	v.sectors(views.Sectors)
	v.heatmap(views.Heatmap, stats.WithData)
	v.risks(views.Risks)
	v.modes(views.Modes)
	stats.Checks = v.checks
	stats.Violations = v.violations
	stats.Duration = time.Since(stats.StartTime)

	for _, msg := range stats.Violations {
		log.Warn(ctx, "check failed", logger.String("violation", msg))
	}
	log.Info(ctx, "probe finished",
		logger.Int("requests", stats.Requests),
		logger.Int("sectors", stats.Sectors),
		logger.Int("withData", stats.WithData),
		logger.Int("checks", stats.Checks),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration))

	if !stats.OK() {
		return stats, fmt.Errorf("%w: %d of %d checks", ErrVerification, len(stats.Violations), stats.Checks)
	}
	return stats, nil
}

// fetch retrieves every view concurrently. The first failure cancels the rest.
func fetch(ctx context.Context, c *client, stats *Stats, verbose bool) (*Views, error) {
	var (
		views    Views
		requests atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	get := func(path string, out any) {
		g.Go(func() error {
			took, err := timed(func() error { return c.get(gctx, path, out) })
			requests.Add(1)
			if verbose {
				logger.Get().Debug(gctx, "fetched", logger.String("path", path), logger.Duration("latency", took))
			}
			return err
		})
	}
	get("/v1/sectors", &views.Sectors)
	get("/v1/heatmap", &views.Heatmap)
	get("/v1/risks", &views.Risks)
	get("/v1/modes", &views.Modes)

	err := g.Wait()
	stats.Requests = int(requests.Load()) + 1 // health check
	if err != nil {
		return nil, err
	}
	return &views, nil
}
