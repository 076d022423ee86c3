package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"blink-quiz-service/internal/app"
	"blink-quiz-service/internal/domain"
	"blink-quiz-service/internal/infra/memory"
)

type stubIconResolver struct {
	url   string
	err   error
	calls []string
}

func (r *stubIconResolver) ResolveIcon(_ context.Context, question string) (string, error) {
	r.calls = append(r.calls, question)
	if r.err != nil {
		return "", r.err
	}
	return r.url, nil
}

func newDescribeFixture(t *testing.T) (*app.ActionService, *stubIconResolver, string) {
	t.Helper()
	store := memory.NewQuizStore()
	saved, _, err := store.Save(context.Background(), domain.Quiz{
		Address: "author-1",
		Questions: []domain.Question{
			{
				Number: 1,
				Text:   "Capital of France?",
				Options: []domain.Option{
					{Number: 1, Text: "Paris"},
					{Number: 2, Text: "Rome"},
				},
				CorrectOption: 1,
			},
		},
		PricePerQuestion: "0.002",
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	icons := &stubIconResolver{url: "https://img.example/q1.png"}
	service := app.NewActionService(store, icons, app.ActionConfig{
		BaseURL:        "https://blink.example/",
		PaymentAddress: "4WEkZJprSsHxadCitfqNdVS3i44sgTP41iETZe4AzS92",
		DefaultPrice:   "0.001",
	})
	return service, icons, saved.ID
}

func TestDescribeMapsEveryOptionInOrder(t *testing.T) {
	service, icons, quizID := newDescribeFixture(t)

	meta, err := service.Describe(context.Background(), quizID, 1)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	if meta.Type != "action" || meta.Icon != "https://img.example/q1.png" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if meta.Title != "Question 1" {
		t.Fatalf("unexpected title %q", meta.Title)
	}
	actions := meta.Links.Actions
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Label != "Paris" || actions[1].Label != "Rome" {
		t.Fatalf("actions out of order: %+v", actions)
	}
	for _, a := range actions {
		if a.Type != "post" {
			t.Fatalf("expected post action, got %q", a.Type)
		}
		if !strings.Contains(a.Href, "amount=0.002") {
			t.Fatalf("href missing quiz price: %s", a.Href)
		}
		if !strings.Contains(a.Href, "address=4WEkZJprSsHxadCitfqNdVS3i44sgTP41iETZe4AzS92") {
			t.Fatalf("href missing payment address: %s", a.Href)
		}
		if !strings.HasPrefix(a.Href, "https://blink.example/api/actions/quiz/question?") {
			t.Fatalf("unexpected href base: %s", a.Href)
		}
	}

	if len(icons.calls) != 1 || icons.calls[0] != "Capital of France?" {
		t.Fatalf("expected one icon lookup keyed by question text, got %v", icons.calls)
	}
}

func TestDescribeUnknownQuiz(t *testing.T) {
	service, _, _ := newDescribeFixture(t)
	_, err := service.Describe(context.Background(), "11111111-2222-3333-4444-555555555555", 1)
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestDescribeUnknownQuestion(t *testing.T) {
	service, _, quizID := newDescribeFixture(t)
	_, err := service.Describe(context.Background(), quizID, 9)
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestDescribePropagatesIconFailure(t *testing.T) {
	store := memory.NewQuizStore()
	saved, _, err := store.Save(context.Background(), domain.Quiz{
		Address: "author-1",
		Questions: []domain.Question{
			{Number: 1, Text: "Q", Options: []domain.Option{{Number: 1, Text: "a"}}, CorrectOption: 1},
		},
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	icons := &stubIconResolver{err: fmt.Errorf("image service down")}
	service := app.NewActionService(store, icons, app.ActionConfig{BaseURL: "http://x", PaymentAddress: "p", DefaultPrice: "0.001"})

	if _, err := service.Describe(context.Background(), saved.ID, 1); err == nil {
		t.Fatalf("expected icon failure to propagate")
	}
}

func TestDescribeFallsBackToDefaultPrice(t *testing.T) {
	store := memory.NewQuizStore()
	saved, _, err := store.Save(context.Background(), domain.Quiz{
		Address: "author-1",
		Questions: []domain.Question{
			{Number: 1, Text: "Q", Options: []domain.Option{{Number: 1, Text: "a"}}, CorrectOption: 1},
		},
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	service := app.NewActionService(store, &stubIconResolver{url: "u"}, app.ActionConfig{
		BaseURL:        "http://x",
		PaymentAddress: "p",
		DefaultPrice:   "0.001",
	})
	meta, err := service.Describe(context.Background(), saved.ID, 1)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(meta.Links.Actions[0].Href, "amount=0.001") {
		t.Fatalf("expected default price in href: %s", meta.Links.Actions[0].Href)
	}
}
