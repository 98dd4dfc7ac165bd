package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/chefvision/server/internal/services/recipe"
)

type mockDetails struct {
	mock.Mock
}

func (m *mockDetails) GenerateDetails(ctx context.Context, req recipe.Request) (*recipe.Details, error) {
	args := m.Called(ctx, req)
	details, _ := args.Get(0).(*recipe.Details)
	return details, args.Error(1)
}

type mockNutrition struct {
	mock.Mock
	mu       sync.Mutex
	calledAt time.Time
}

func (m *mockNutrition) GenerateNutrition(ctx context.Context, ingredients []string) (recipe.NutritionalInfo, error) {
	m.mu.Lock()
	m.calledAt = time.Now()
	m.mu.Unlock()
	args := m.Called(ctx, ingredients)
	info, _ := args.Get(0).(recipe.NutritionalInfo)
	return info, args.Error(1)
}

// fakeImages records calls and can block until the context is done.
type fakeImages struct {
	mu         sync.Mutex
	image      string
	err        error
	delay      time.Duration
	calls      int
	prompts    []string
	finishedAt time.Time
	sawCancel  bool
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	var err error
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishedAt = time.Now()
	if err != nil {
		f.sawCancel = true
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	return f.image, nil
}
