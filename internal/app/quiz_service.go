package app

import (
	"context"
	"time"

	"blink-quiz-service/internal/domain"
)

// QuizStore abstracts the document store holding one quiz per address
// (in-memory, Redis, Postgres). Save is an insert-or-update conditional on
// the stored document not being paid for; implementations must make the
// paid check and the write a single atomic operation.
type QuizStore interface {
	FindByAddress(ctx context.Context, address string) (domain.Quiz, error)
	FindByID(ctx context.Context, id string) (domain.Quiz, error)
	// Save persists the document and reports whether it was created rather
	// than updated. Fails with domain.ErrQuizAlreadyPaid when the address
	// already holds a paid quiz.
	Save(ctx context.Context, quiz domain.Quiz) (domain.Quiz, bool, error)
}

// SaveRequest is the authoring client's submitted draft.
type SaveRequest struct {
	Address          string
	Questions        []domain.Question
	PricePerQuestion string
	PaymentDone      bool
}

// QuizService owns the quiz authoring lifecycle: drafts may be overwritten
// freely, a paid quiz is terminal.
type QuizService struct {
	store QuizStore
	now   func() time.Time
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{store: store, now: time.Now}
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(store QuizStore, now func() time.Time) *QuizService {
	return &QuizService{store: store, now: now}
}

// Save normalizes the draft and commits it, stamping lastSaved (and
// paymentDoneAt on the draft-to-paid transition). The returned bool reports
// whether a new document was created.
func (s *QuizService) Save(ctx context.Context, req SaveRequest) (domain.Quiz, bool, error) {
	questions, err := NormalizeQuestions(req.Questions)
	if err != nil {
		return domain.Quiz{}, false, err
	}

	now := s.now()
	quiz := domain.Quiz{
		Address:          req.Address,
		Questions:        questions,
		PricePerQuestion: req.PricePerQuestion,
		PaymentDone:      req.PaymentDone,
		LastSaved:        now,
	}
	if req.PaymentDone {
		quiz.PaymentDoneAt = &now
	}
	return s.store.Save(ctx, quiz)
}

// Fetch returns the most recently saved quiz for an address.
func (s *QuizService) Fetch(ctx context.Context, address string) (domain.Quiz, error) {
	return s.store.FindByAddress(ctx, address)
}
