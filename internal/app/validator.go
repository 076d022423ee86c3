package app

import (
	"strings"

	"blink-quiz-service/internal/domain"
)

// NormalizeQuestions turns a submitted question list into its persisted form.
// Option numbers are derived from array position in the submission; the
// numbers carried in the payload are ignored. Options whose trimmed text is
// empty are dropped, and a question is dropped entirely when its declared
// correctOption points at a dropped option. Survivors are renumbered densely
// from 1 with correctOption remapped to the surviving option's new number.
//
// A correctOption that matches no submitted option at all is a client bug,
// not a trimming casualty, and fails the whole submission.
func NormalizeQuestions(in []domain.Question) ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(in))

	for _, q := range in {
		if q.CorrectOption < 1 || q.CorrectOption > len(q.Options) {
			return nil, domain.ErrInvalidCorrectOption
		}

		type keptOption struct {
			position int // 1-based position in the submission
			text     string
		}
		kept := make([]keptOption, 0, len(q.Options))
		for i, opt := range q.Options {
			text := strings.TrimSpace(opt.Text)
			if text == "" {
				continue
			}
			kept = append(kept, keptOption{position: i + 1, text: text})
		}

		correct := 0
		options := make([]domain.Option, 0, len(kept))
		for i, opt := range kept {
			options = append(options, domain.Option{Number: i + 1, Text: opt.text})
			if opt.position == q.CorrectOption {
				correct = i + 1
			}
		}
		if len(options) == 0 || correct == 0 {
			continue
		}

		out = append(out, domain.Question{
			Number:        len(out) + 1,
			Text:          strings.TrimSpace(q.Text),
			Options:       options,
			CorrectOption: correct,
		})
	}

	if len(out) == 0 {
		return nil, domain.ErrNoValidQuestions
	}
	return out, nil
}
