package poll

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: a poll never runs more than MaxAttempts attempts and completes on
// exactly the attempt that reports done
func TestPollAttemptBudget(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("attempts are bounded by the budget", prop.ForAll(
		func(maxAttempts, doneAt int) bool {
			h := Start(context.Background(), Options{Interval: 100 * time.Microsecond, MaxAttempts: maxAttempts},
				func(ctx context.Context, attempt int) (bool, error) {
					return attempt == doneAt, nil
				})
			<-h.Done()
			res := h.Result()

			if doneAt <= maxAttempts {
				return res.Outcome == OutcomeCompleted && res.Attempts == doneAt
			}
			return res.Outcome == OutcomeExhausted && res.Attempts == maxAttempts
		},
		gen.IntRange(1, 15),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
