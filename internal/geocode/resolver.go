package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docgeo/constants"
	"github.com/joseph-ayodele/docgeo/internal/common"
)

// ResolverConfig controls one Resolver.
type ResolverConfig struct {
	Enabled     bool
	MinInterval time.Duration // spacing of consecutive calls within one resolution
}

// Resolver runs the two-phase provider cascade.
type Resolver struct {
	cfg        ResolverConfig
	structured StructuredProvider
	primary    FreeTextProvider
	secondary  FreeTextProvider
	throttles  *ThrottleRegistry
	logger     *slog.Logger
}

// NewResolver wires providers to a shared throttle registry. secondary may be nil.
func NewResolver(cfg ResolverConfig, structured StructuredProvider, primary, secondary FreeTextProvider, throttles *ThrottleRegistry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if throttles == nil {
		throttles = NewThrottleRegistry(cfg.MinInterval)
	}
	return &Resolver{
		cfg:        cfg,
		structured: structured,
		primary:    primary,
		secondary:  secondary,
		throttles:  throttles,
		logger:     logger,
	}
}

// Resolve tries structured queries first, then free-text queries against the
// primary and secondary providers. freeText is only called when phase one
// finds nothing. Every provider call is recorded in order.
func (r *Resolver) Resolve(ctx context.Context, structured []StructuredQuery, freeText func(ctx context.Context) []string) Outcome {
	if !r.cfg.Enabled {
		return Outcome{Enabled: false, Attempts: []Attempt{}}
	}
	out := Outcome{Enabled: true, Attempts: []Attempt{}}
	start := time.Now()
	pace := r.throttles.newThrottle()

	if r.structured != nil {
		for i := range structured {
			q := structured[i]
			res, err := r.call(ctx, pace, r.structured.Name(), func(ctx context.Context) (*Result, error) {
				return r.structured.ResolveStructured(ctx, q)
			})
			out.Attempts = append(out.Attempts, attempt(constants.PhaseStructured, r.structured.Name(), &q, "", res, err))
			if res != nil {
				out.Primary = res
				r.logDone(out, start)
				return out
			}
			if ctx.Err() != nil {
				r.logDone(out, start)
				return out
			}
		}
	}

	if freeText == nil {
		r.logDone(out, start)
		return out
	}
	for _, q := range freeText(ctx) {
		for _, p := range []FreeTextProvider{r.primary, r.secondary} {
			if p == nil {
				continue
			}
			res, err := r.call(ctx, pace, p.Name(), func(ctx context.Context) (*Result, error) {
				return p.Resolve(ctx, q)
			})
			out.Attempts = append(out.Attempts, attempt(constants.PhaseFreeText, p.Name(), nil, q, res, err))
			if res != nil {
				out.Primary = res
				r.logDone(out, start)
				return out
			}
			if ctx.Err() != nil {
				r.logDone(out, start)
				return out
			}
		}
	}
	r.logDone(out, start)
	return out
}

// call waits for both the resolution pace and the provider's shared slot.
func (r *Resolver) call(ctx context.Context, pace *Throttle, provider string, fn func(ctx context.Context) (*Result, error)) (*Result, error) {
	if err := pace.Wait(ctx); err != nil {
		return nil, err
	}
	if err := r.throttles.For(provider).Wait(ctx); err != nil {
		return nil, err
	}
	res, err := fn(ctx)
	if err != nil {
		r.logger.Warn("geocode.provider.error",
			"provider", provider,
			"error", fmt.Errorf("%w: %w", common.ErrGeocodingProvider, err),
		)
		return nil, err
	}
	r.logger.Debug("geocode.provider.done", "provider", provider, "matched", res != nil)
	return res, nil
}

func attempt(phase constants.Phase, provider string, sq *StructuredQuery, q string, res *Result, err error) Attempt {
	a := Attempt{Phase: phase, Provider: provider, Structured: sq, Query: q, Result: res}
	if err != nil {
		a.Error = err.Error()
	}
	return a
}

func (r *Resolver) logDone(out Outcome, start time.Time) {
	r.logger.Info("geocode.resolve.done",
		"attempts", len(out.Attempts),
		"matched", out.Primary != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
