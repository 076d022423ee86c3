package domain

import "time"

// Option is a selectable answer for a question. Numbers are a dense 1-based
// index derived from array position, never taken from client input.
type Option struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Question models an MCQ question. CorrectOption references the Number of one
// of its own Options.
type Question struct {
	Number        int      `json:"number"`
	Text          string   `json:"question"`
	Options       []Option `json:"options"`
	CorrectOption int      `json:"correctOption"`
}

// Quiz is the single document stored per authoring wallet address. Once
// PaymentDone is set the document is terminal and the store refuses further
// writes for the address.
type Quiz struct {
	ID               string     `json:"id"`
	Address          string     `json:"address"`
	Questions        []Question `json:"questions"`
	PricePerQuestion string     `json:"pricePerQuestion"`
	PaymentDone      bool       `json:"paymentDone"`
	PaymentDoneAt    *time.Time `json:"paymentDoneAt,omitempty"`
	LastSaved        time.Time  `json:"lastSaved"`
}

// FindQuestion returns the question with the given number, if any.
func (q Quiz) FindQuestion(number int) (Question, bool) {
	for _, question := range q.Questions {
		if question.Number == number {
			return question, true
		}
	}
	return Question{}, false
}
