package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"blink-quiz-service/internal/domain"
)

func TestSaveCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	first, created, err := store.Save(ctx, sampleQuiz("addr-1", false))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !created || first.ID == "" {
		t.Fatalf("expected creation with assigned id, got created=%v id=%q", created, first.ID)
	}

	second, created, err := store.Save(ctx, sampleQuiz("addr-1", false))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if created {
		t.Fatalf("expected update on second save")
	}
	if second.ID != first.ID {
		t.Fatalf("id not preserved: %s vs %s", first.ID, second.ID)
	}
}

func TestSaveRejectsPaidQuiz(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	if _, _, err := store.Save(ctx, sampleQuiz("addr-1", true)); err != nil {
		t.Fatalf("paid save: %v", err)
	}
	_, _, err := store.Save(ctx, sampleQuiz("addr-1", false))
	if !errors.Is(err, domain.ErrQuizAlreadyPaid) {
		t.Fatalf("expected ErrQuizAlreadyPaid, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	saved, _, err := store.Save(ctx, sampleQuiz("addr-1", false))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Address != "addr-1" {
		t.Fatalf("wrong quiz: %+v", got)
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	// A dangling id entry must not surface a zero-valued quiz.
	store.byID["dangling"] = "no-such-address"
	if _, err := store.FindByID(ctx, "dangling"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound for dangling id, got %v", err)
	}
}

func sampleQuiz(address string, paid bool) domain.Quiz {
	return domain.Quiz{
		Address: address,
		Questions: []domain.Question{
			{
				Number: 1,
				Text:   "What is 2 + 2?",
				Options: []domain.Option{
					{Number: 1, Text: "3"},
					{Number: 2, Text: "4"},
				},
				CorrectOption: 2,
			},
		},
		PricePerQuestion: "0.001",
		PaymentDone:      paid,
		LastSaved:        time.Now(),
	}
}
