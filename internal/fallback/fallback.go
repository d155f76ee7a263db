package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dubboard/internal/logging"
)

// Strategy is one entry in an ordered fallback list. Run returns the value
// produced by the attempt or an error that advances evaluation to the next
// strategy.
type Strategy[T any] struct {
	Name string
	Run  func(context.Context) (T, error)
}

// ErrExhausted reports that every strategy in the list failed.
var ErrExhausted = errors.New("all strategies failed")

// First evaluates strategies in order and returns the first successful
// result. Each failing attempt is logged and absorbed; once the list is
// exhausted the errors are joined under ErrExhausted. Context cancellation
// stops evaluation between attempts.
func First[T any](ctx context.Context, logger *slog.Logger, strategies []Strategy[T]) (T, error) {
	var zero T
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(strategies) == 0 {
		return zero, fmt.Errorf("%w: empty strategy list", ErrExhausted)
	}

	errs := make([]error, 0, len(strategies))
	for i, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		logger.Debug("trying strategy",
			logging.String("strategy", strategy.Name),
			logging.Int("attempt", i+1),
			logging.Int("total", len(strategies)),
		)

		value, err := strategy.Run(ctx)
		if err == nil {
			if i > 0 {
				logger.Info("strategy succeeded after fallback",
					logging.String("strategy", strategy.Name),
					logging.Int("attempt", i+1),
				)
			}
			return value, nil
		}

		logger.Warn("strategy failed",
			logging.String("strategy", strategy.Name),
			logging.Int("attempt", i+1),
			logging.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", strategy.Name, err))
	}

	return zero, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}
