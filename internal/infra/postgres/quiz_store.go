package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blink-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizStore persists quiz documents as JSONB rows keyed by address.
type QuizStore struct {
	pool  *pgxpool.Pool
	newID func() string
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool, newID: uuid.NewString}
}

func (s *QuizStore) FindByAddress(ctx context.Context, address string) (domain.Quiz, error) {
	return s.findOne(ctx, `SELECT data FROM quizzes WHERE address = $1`, address)
}

func (s *QuizStore) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	return s.findOne(ctx, `SELECT data FROM quizzes WHERE id = $1::uuid`, id)
}

func (s *QuizStore) findOne(ctx context.Context, query, arg string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, query, arg).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

// Save upserts in a single statement whose update arm is guarded by
// payment_done = false, so a paid quiz cannot be overwritten even under
// concurrent saves. No row coming back means the guard fired.
func (s *QuizStore) Save(ctx context.Context, quiz domain.Quiz) (domain.Quiz, bool, error) {
	existing, err := s.FindByAddress(ctx, quiz.Address)
	switch {
	case err == nil:
		quiz.ID = existing.ID
	case errors.Is(err, domain.ErrQuizNotFound):
		quiz.ID = s.newID()
	default:
		return domain.Quiz{}, false, err
	}

	data, err := json.Marshal(quiz)
	if err != nil {
		return domain.Quiz{}, false, fmt.Errorf("marshal quiz: %w", err)
	}

	var created bool
	err = s.pool.QueryRow(ctx, `
		INSERT INTO quizzes (address, id, data, payment_done, last_saved)
		VALUES ($1, $2::uuid, $3, $4, $5)
		ON CONFLICT (address) DO UPDATE
		SET data = EXCLUDED.data,
		    payment_done = EXCLUDED.payment_done,
		    last_saved = EXCLUDED.last_saved
		WHERE quizzes.payment_done = FALSE
		RETURNING (xmax = 0)`,
		quiz.Address, quiz.ID, data, quiz.PaymentDone, quiz.LastSaved,
	).Scan(&created)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, false, domain.ErrQuizAlreadyPaid
	}
	if err != nil {
		return domain.Quiz{}, false, fmt.Errorf("save quiz: %w", err)
	}
	return quiz, created, nil
}
