package domain

import "errors"

var (
	// ErrQuizNotFound indicates no quiz document matches the given id or address.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the quiz holds no question with the requested number.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuizAlreadyPaid is returned when a save targets an address whose quiz is already paid for.
	ErrQuizAlreadyPaid = errors.New("quiz already paid for")
	// ErrNoValidQuestions is returned when normalization leaves no usable question.
	ErrNoValidQuestions = errors.New("no valid questions in submission")
	// ErrInvalidCorrectOption indicates a question's correctOption references none of its options.
	ErrInvalidCorrectOption = errors.New("correct option does not match any option")
)
