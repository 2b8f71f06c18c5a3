package scoring

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"contentboost/apperr"
	"contentboost/models"
)

// Evaluator scores one submission against a task. The random mock and a
// future model-backed evaluator share this contract.
type Evaluator interface {
	Evaluate(ctx context.Context, task models.Task, content string) (models.Result, error)
}

const (
	MinPercentage = 60
	MaxPercentage = 90

	DefaultDelay = 1500 * time.Millisecond
)

type RandomEvaluator struct {
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomEvaluator returns the mock evaluator. A nil src seeds from the clock.
func NewRandomEvaluator(delay time.Duration, src rand.Source) *RandomEvaluator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	return &RandomEvaluator{delay: delay, rnd: rand.New(src)}
}

func (e *RandomEvaluator) Evaluate(ctx context.Context, task models.Task, content string) (models.Result, error) {
	if strings.TrimSpace(content) == "" {
		return models.Result{}, apperr.Validation("submission content is empty")
	}

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return models.Result{}, ctx.Err()
		}
	}

	e.mu.Lock()
	percentage := MinPercentage + e.rnd.IntN(MaxPercentage-MinPercentage+1)
	feedback := pick(FeedbackFor(TierOf(percentage)), e.rnd)
	e.mu.Unlock()

	return models.Result{
		Points:     Points(percentage, task.MaxPoints),
		Percentage: percentage,
		Feedback:   feedback,
	}, nil
}

// Points converts a percentage into an award, floor(p/100 * max), kept
// within [0, maxPoints].
func Points(percentage, maxPoints int) int {
	if maxPoints <= 0 {
		return 0
	}
	percentage = min(max(percentage, 0), 100)
	return percentage * maxPoints / 100
}

func pick(options []string, rnd *rand.Rand) string {
	if len(options) == 0 {
		return ""
	}
	return options[rnd.IntN(len(options))]
}
