package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/tasktalk/internal/app/classifier"
	"github.com/PabloGalante/tasktalk/internal/domain"
)

func TestClassifyMessageAsync(t *testing.T) {
	svc := newService()

	res, ok := <-svc.ClassifyMessageAsync(context.Background(), "hello")
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.CategoryGreeting, res.Category)

	want := classifier.New().ClassifyMessage("remind me about the deadline")
	res = <-svc.ClassifyMessageAsync(context.Background(), "remind me about the deadline")
	assert.Equal(t, want, res.Category)
}

func TestClassifyMessageAsyncDeliversOnce(t *testing.T) {
	ch := newService().ClassifyMessageAsync(context.Background(), "add a task")

	<-ch
	_, ok := <-ch
	assert.False(t, ok)
}

func TestClassifyMessageAsyncCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-newService().ClassifyMessageAsync(ctx, "add a task")
	if res.Err != nil {
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.ErrorIs(t, res.Err, domain.ErrClassification)
	} else {
		assert.Equal(t, domain.CategoryTaskRelated, res.Category)
	}
}

func TestGenerateResponseAsync(t *testing.T) {
	res := <-newService().GenerateResponseAsync(context.Background(), "hello", domain.CategoryGreeting)
	require.NoError(t, res.Err)
	assert.NotEmpty(t, res.Reply)
}

func TestMessageAnalysis(t *testing.T) {
	a, err := newService().MessageAnalysis(context.Background(), "How do I add a task?")
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryTaskRelated, a.Classification)
	require.Len(t, a.ConfidenceScores, 3)

	var sum float64
	best := domain.Category("")
	for c, v := range a.ConfidenceScores {
		sum += v
		if best == "" || v > a.ConfidenceScores[best] {
			best = c
		}
	}
	assert.InDelta(t, 1.0, sum, 0.01)
	assert.Equal(t, a.Classification, best)
	assert.False(t, a.Timestamp.IsZero())
}

func TestMessageAnalysisClassifierPanic(t *testing.T) {
	f := newFixture(t, panickingClassifier{classifier.New()}, nil)

	_, err := f.svc.MessageAnalysis(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassification)
}
