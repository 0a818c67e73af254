package sky

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of one load.
type Result struct {
	Stars []Star
	// Fallback is set when the stars were synthesized instead of fetched.
	Fallback bool
	Err      error
}

// Loader fetches stars from a Source and substitutes random stars on any
// failure, so a load always yields something to draw.
type Loader struct {
	Source      Source
	RandomCount int
	Offline     bool
	Timeout     time.Duration
	Rand        *rand.Rand
	Logger      *zap.Logger

	mu sync.Mutex
}

// Load returns the catalog stars or the random fallback.
func (l *Loader) Load(ctx context.Context) Result {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if l.Offline || l.Source == nil {
		log.Info("offline, generating random stars", zap.Int("count", l.RandomCount))
		return Result{Stars: l.random(), Fallback: true}
	}

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	stars, err := l.Source.Fetch(ctx)
	switch {
	case err == nil:
		log.Info("loaded star catalog", zap.Int("count", len(stars)))
		return Result{Stars: stars}
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// Superseded by a newer load; the caller discards this result.
		return Result{Err: err}
	case errors.Is(err, ErrEmptyCatalog):
		log.Warn("no star data received, generating random stars", zap.Int("count", l.RandomCount))
	default:
		log.Error("error fetching star data, generating random stars", zap.Error(err), zap.Int("count", l.RandomCount))
	}
	return Result{Stars: l.random(), Fallback: true, Err: err}
}

func (l *Loader) random() []Star {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Rand == nil {
		l.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	rng := l.Rand
	return GenerateRandom(l.RandomCount, rng)
}
