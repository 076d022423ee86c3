package memory

import (
	"context"
	"sync"

	"blink-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// QuizStore is an in-memory implementation of app.QuizStore, used when no
// Redis or Postgres is configured and in tests.
type QuizStore struct {
	mu        sync.RWMutex
	byAddress map[string]domain.Quiz
	byID      map[string]string
	newID     func() string
}

func NewQuizStore() *QuizStore {
	return &QuizStore{
		byAddress: make(map[string]domain.Quiz),
		byID:      make(map[string]string),
		newID:     uuid.NewString,
	}
}

func (s *QuizStore) FindByAddress(_ context.Context, address string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.byAddress[address]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizStore) FindByID(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.byID[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz, ok := s.byAddress[address]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// Save upserts the document under its address. The paid check and the write
// happen under one lock, so a paid quiz can never be overwritten.
func (s *QuizStore) Save(_ context.Context, quiz domain.Quiz) (domain.Quiz, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.byAddress[quiz.Address]
	if exists {
		if existing.PaymentDone {
			return domain.Quiz{}, false, domain.ErrQuizAlreadyPaid
		}
		quiz.ID = existing.ID
	} else {
		quiz.ID = s.newID()
	}

	s.byAddress[quiz.Address] = quiz
	s.byID[quiz.ID] = quiz.Address
	return quiz, !exists, nil
}
