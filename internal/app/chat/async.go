package chat

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

type ClassificationResult struct {
	Category domain.Category
	Err      error
}

type ResponseResult struct {
	Reply string
	Err   error
}

// Analysis describes a message without persisting anything.
type Analysis struct {
	Classification   domain.Category         `json:"classification"`
	ConfidenceScores domain.ConfidenceScores `json:"confidence_scores"`
	Timestamp        domain.Timestamp        `json:"timestamp"`
}

// ClassifyMessageAsync classifies text on its own goroutine. The returned
// channel yields exactly one result and is then closed; if ctx is done
// first the result carries ctx.Err(). The channel is buffered so the
// goroutine never blocks on an abandoned receiver.
func (s *Service) ClassifyMessageAsync(ctx context.Context, text string) <-chan ClassificationResult {
	out := make(chan ClassificationResult, 1)
	go func() {
		defer close(out)

		done := make(chan ClassificationResult, 1)
		go func() {
			category, err := s.classify(text)
			done <- ClassificationResult{Category: category, Err: err}
		}()

		select {
		case res := <-done:
			out <- res
		case <-ctx.Done():
			out <- ClassificationResult{Err: domain.E(domain.ErrClassification, "chat.ClassifyMessageAsync", ctx.Err())}
		}
	}()
	return out
}

// GenerateResponseAsync produces the template reply for text on its own
// goroutine, with the same delivery rules as ClassifyMessageAsync.
func (s *Service) GenerateResponseAsync(ctx context.Context, text string, category domain.Category) <-chan ResponseResult {
	const op = "chat.GenerateResponseAsync"

	out := make(chan ResponseResult, 1)
	go func() {
		defer close(out)

		done := make(chan ResponseResult, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- ResponseResult{Err: domain.E(domain.ErrGeneration, op, fmt.Errorf("panic: %v", r))}
				}
			}()
			done <- ResponseResult{Reply: s.generator.GenerateResponse(text, category)}
		}()

		select {
		case res := <-done:
			out <- res
		case <-ctx.Done():
			out <- ResponseResult{Err: domain.E(domain.ErrGeneration, op, ctx.Err())}
		}
	}()
	return out
}

// MessageAnalysis classifies text and scores every category concurrently.
func (s *Service) MessageAnalysis(ctx context.Context, text string) (Analysis, error) {
	const op = "chat.MessageAnalysis"

	var (
		category domain.Category
		scores   domain.ConfidenceScores
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := <-s.ClassifyMessageAsync(gctx, text)
		category = res.Category
		return res.Err
	})
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = domain.E(domain.ErrClassification, op, fmt.Errorf("panic: %v", r))
			}
		}()
		scores = s.classifier.ConfidenceScores(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Analysis{}, domain.Wrap(domain.ErrClassification, op, err)
	}

	return Analysis{
		Classification:   category,
		ConfidenceScores: scores,
		Timestamp:        s.now(),
	}, nil
}
