package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"blink-quiz-service/internal/domain"
)

// IconResolver obtains an icon URL for a question from the external image
// service. Called once per describe; failures propagate, there is no
// fallback icon.
type IconResolver interface {
	ResolveIcon(ctx context.Context, question string) (string, error)
}

// ActionConfig carries the fixed parts of the action links: where the build
// verb lives and who gets paid.
type ActionConfig struct {
	BaseURL        string
	PaymentAddress string
	DefaultPrice   string
}

// ActionMetadata is the wire form consumed by blink renderers.
type ActionMetadata struct {
	Type        string      `json:"type"`
	Icon        string      `json:"icon"`
	Title       string      `json:"title"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Links       ActionLinks `json:"links"`
}

type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

type LinkedAction struct {
	Type       string            `json:"type"`
	Href       string            `json:"href"`
	Label      string            `json:"label"`
	Parameters []ActionParameter `json:"parameters"`
}

type ActionParameter struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// ActionService builds the metadata payload for a single question.
type ActionService struct {
	store QuizStore
	icons IconResolver
	cfg   ActionConfig
}

func NewActionService(store QuizStore, icons IconResolver, cfg ActionConfig) *ActionService {
	return &ActionService{store: store, icons: icons, cfg: cfg}
}

// Describe resolves the quiz and question, fetches the icon, and maps every
// option to exactly one linked action in option order.
func (s *ActionService) Describe(ctx context.Context, quizID string, questionNumber int) (ActionMetadata, error) {
	quiz, err := s.store.FindByID(ctx, quizID)
	if err != nil {
		return ActionMetadata{}, err
	}

	question, ok := quiz.FindQuestion(questionNumber)
	if !ok {
		return ActionMetadata{}, domain.ErrQuestionNotFound
	}

	icon, err := s.icons.ResolveIcon(ctx, question.Text)
	if err != nil {
		return ActionMetadata{}, fmt.Errorf("resolve icon: %w", err)
	}

	price := quiz.PricePerQuestion
	if price == "" {
		price = s.cfg.DefaultPrice
	}
	href := fmt.Sprintf("%s/api/actions/quiz/question?amount=%s&address=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"),
		url.QueryEscape(price),
		url.QueryEscape(s.cfg.PaymentAddress),
	)

	actions := make([]LinkedAction, 0, len(question.Options))
	for _, opt := range question.Options {
		actions = append(actions, LinkedAction{
			Type:       "post",
			Href:       href,
			Label:      opt.Text,
			Parameters: []ActionParameter{},
		})
	}

	return ActionMetadata{
		Type:  "action",
		Icon:  icon,
		Title: fmt.Sprintf("Question %d", question.Number),
		Links: ActionLinks{Actions: actions},
	}, nil
}
