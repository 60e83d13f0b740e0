package batch

import (
	"context"
	"time"

	"ezproduct/internal/logger"
	"ezproduct/internal/services/generation"
	"ezproduct/internal/services/shopify"
)

const (
	StatusSynced  = "synced"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

type Processor interface {
	Run(ctx context.Context, in generation.Input) (*generation.Result, error)
}

type RowResult struct {
	Row       int    `json:"row"`
	Keywords  string `json:"keywords"`
	Status    string `json:"status"`
	ProductID string `json:"productId,omitempty"`
	Message   string `json:"message,omitempty"`
	DebugID   string `json:"debugId,omitempty"`
}

type Summary struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Results   []RowResult `json:"results"`
	Problems  []string    `json:"problems,omitempty"`
}

// Runner processes upload rows one after another with a fixed pause between
// submissions.
type Runner struct {
	processor Processor
	delay     time.Duration
	logger    *logger.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewRunner(processor Processor, delay time.Duration, logger *logger.Logger) *Runner {
	return &Runner{
		processor: processor,
		delay:     delay,
		logger:    logger.Component("batch"),
		sleep:     sleepContext,
	}
}

// Run validates and submits each row. inputFor supplies the credentials and
// debug id for a row. A re-authentication redirect stops the run and is
// returned with the partial summary.
func (r *Runner) Run(ctx context.Context, rows []Row, problems []string, inputFor func(Row) generation.Input) (*Summary, error) {
	summary := &Summary{Total: len(rows), Problems: problems, Results: make([]RowResult, 0, len(rows))}

	submitted := 0
	for _, row := range rows {
		result := RowResult{Row: row.Number, Keywords: row.Keywords}

		if invalid := Validate(row); len(invalid) > 0 {
			result.Status = StatusInvalid
			result.Message = invalid[0]
			summary.Failed++
			summary.Results = append(summary.Results, result)
			continue
		}

		if submitted > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				return summary, err
			}
		}
		submitted++

		in := inputFor(row)
		in.Request = row.Request()
		result.DebugID = in.DebugID

		res, err := r.processor.Run(ctx, in)
		if err != nil {
			if _, ok := shopify.AsReauth(err); ok {
				return summary, err
			}
			result.Status = StatusFailed
			result.Message = generation.Truncate(err.Error(), 180)
			summary.Failed++
			r.logger.Warn().Int("row", row.Number).Str("debug_id", in.DebugID).Err(err).Msg("batch row failed")
		} else {
			result.Status = StatusSynced
			result.ProductID = res.Outcome.ProductID
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, result)
	}

	r.logger.Info().Int("total", summary.Total).Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Msg("batch finished")
	return summary, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
