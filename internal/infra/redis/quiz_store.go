package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"blink-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Documents live as JSON at quiz:addr:{address}, with quiz:id:{id} mapping a
// quiz id back to its address and quiz:paid:{address} marking a locked quiz.
// The script makes the paid check and the write one atomic unit; two racing
// draft saves may still interleave, which is acceptable, but a paid quiz is
// never overwritten.
var saveScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
local created = 1
if redis.call("EXISTS", KEYS[1]) == 1 then
  created = 2
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("SET", KEYS[3], ARGV[2])
if ARGV[3] == "1" then
  redis.call("SET", KEYS[2], "1")
end
return created
`)

// QuizStore is a Redis-backed implementation of app.QuizStore.
type QuizStore struct {
	client *redis.Client
	newID  func() string
}

func NewQuizStore(client *redis.Client) *QuizStore {
	return &QuizStore{client: client, newID: uuid.NewString}
}

func (s *QuizStore) FindByAddress(ctx context.Context, address string) (domain.Quiz, error) {
	raw, err := s.client.Get(ctx, addressKey(address)).Bytes()
	if err == redis.Nil {
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

func (s *QuizStore) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	address, err := s.client.Get(ctx, idKey(id)).Result()
	if err == redis.Nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("resolve quiz id: %w", err)
	}
	return s.FindByAddress(ctx, address)
}

func (s *QuizStore) Save(ctx context.Context, quiz domain.Quiz) (domain.Quiz, bool, error) {
	// Reuse the existing id so action links survive draft overwrites. The
	// read races with concurrent draft saves, which is benign; the paid
	// gate below is what must hold.
	existing, err := s.FindByAddress(ctx, quiz.Address)
	switch {
	case err == nil:
		quiz.ID = existing.ID
	case err == domain.ErrQuizNotFound:
		quiz.ID = s.newID()
	default:
		return domain.Quiz{}, false, err
	}

	data, err := json.Marshal(quiz)
	if err != nil {
		return domain.Quiz{}, false, fmt.Errorf("marshal quiz: %w", err)
	}

	paid := "0"
	if quiz.PaymentDone {
		paid = "1"
	}
	keys := []string{addressKey(quiz.Address), paidKey(quiz.Address), idKey(quiz.ID)}
	res, err := saveScript.Run(ctx, s.client, keys, string(data), quiz.Address, paid).Int64()
	if err != nil {
		return domain.Quiz{}, false, fmt.Errorf("save quiz: %w", err)
	}
	if res == 0 {
		return domain.Quiz{}, false, domain.ErrQuizAlreadyPaid
	}
	return quiz, res == 1, nil
}

func addressKey(address string) string {
	return "quiz:addr:" + address
}

func idKey(id string) string {
	return "quiz:id:" + id
}

func paidKey(address string) string {
	return "quiz:paid:" + address
}
