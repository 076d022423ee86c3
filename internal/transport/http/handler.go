package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"blink-quiz-service/internal/app"
	"blink-quiz-service/internal/domain"
	"blink-quiz-service/internal/ledger"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// actionsCORSHeaders is the permissive header set blink clients expect on
// both action verbs and the preflight.
var actionsCORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":   "*",
	"Access-Control-Allow-Methods":  "GET,POST,PUT,OPTIONS",
	"Access-Control-Allow-Headers":  "Content-Type, Authorization, Content-Encoding, Accept-Encoding, X-Accept-Action-Version, X-Accept-Blockchain-Ids",
	"Access-Control-Expose-Headers": "X-Action-Version, X-Blockchain-Ids",
}

// Handler exposes the action protocol verbs plus the authoring save/fetch
// endpoints.
type Handler struct {
	quizzes *app.QuizService
	actions *app.ActionService
	builder *ledger.TransferBuilder
}

func NewHandler(quizzes *app.QuizService, actions *app.ActionService, builder *ledger.TransferBuilder) *Handler {
	return &Handler{quizzes: quizzes, actions: actions, builder: builder}
}

// Register wires the handler's routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/actions/quiz/question", h.handleQuestionAction)
	mux.HandleFunc("/api/quiz/save", h.handleSave)
	mux.HandleFunc("/api/quiz/fetch", h.handleFetch)
}

func (h *Handler) handleQuestionAction(w http.ResponseWriter, r *http.Request) {
	for k, v := range actionsCORSHeaders {
		w.Header().Set(k, v)
	}
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		h.describe(w, r)
	case http.MethodPost:
		h.build(w, r)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// describe is the metadata verb of the action protocol.
func (h *Handler) describe(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("id")
	if _, err := uuid.Parse(quizID); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	number := 1
	if raw := r.URL.Query().Get("number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeMessage(w, http.StatusBadRequest, "Invalid question number")
			return
		}
		number = n
	}

	meta, err := h.actions.Describe(r.Context(), quizID, number)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeMessage(w, http.StatusNotFound, "Quiz not found")
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeMessage(w, http.StatusNotFound, "Question not found")
	case err != nil:
		log.Printf("describe question %d of quiz %s: %v", number, quizID, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, meta)
	}
}

type buildRequest struct {
	Account string `json:"account"`
}

type buildResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message"`
}

// build is the transaction verb: it returns an unsigned transfer for the
// wallet to sign and submit. Quiz state is never touched here.
func (h *Handler) build(w http.ResponseWriter, r *http.Request) {
	amount := r.URL.Query().Get("amount")
	recipient := r.URL.Query().Get("address")
	if amount == "" || recipient == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	var body buildRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Account == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	payer, err := solana.PublicKeyFromBase58(body.Account)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid account provided")
		return
	}
	to, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid recipient address")
		return
	}
	amountSOL, err := ledger.ParseAmount(amount)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	tx, err := h.builder.Build(r.Context(), payer, to, amountSOL)
	if err != nil {
		log.Printf("build transfer to %s: %v", recipient, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	encoded, err := tx.ToBase64()
	if err != nil {
		log.Printf("encode transaction: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, buildResponse{
		Transaction: encoded,
		Message:     fmt.Sprintf("Transfer %s SOL to %s", amount, recipient),
	})
}

type saveRequest struct {
	Address          string            `json:"address"`
	Questions        []domain.Question `json:"questions"`
	PricePerQuestion string            `json:"pricePerQuestion"`
	PaymentDone      bool              `json:"paymentDone"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var body saveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Address == "" {
		writeMessage(w, http.StatusBadRequest, "Address is required")
		return
	}

	_, created, err := h.quizzes.Save(r.Context(), app.SaveRequest{
		Address:          body.Address,
		Questions:        body.Questions,
		PricePerQuestion: body.PricePerQuestion,
		PaymentDone:      body.PaymentDone,
	})
	switch {
	case errors.Is(err, domain.ErrQuizAlreadyPaid):
		writeMessage(w, http.StatusBadRequest, "Quiz already paid for.")
	case errors.Is(err, domain.ErrInvalidCorrectOption), errors.Is(err, domain.ErrNoValidQuestions):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case err != nil:
		log.Printf("save quiz for %s: %v", body.Address, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to save quiz")
	case created:
		writeMessage(w, http.StatusCreated, "Quiz saved successfully")
	default:
		writeMessage(w, http.StatusOK, "Quiz updated successfully")
	}
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		writeMessage(w, http.StatusBadRequest, "Address is required")
		return
	}

	quiz, err := h.quizzes.Fetch(r.Context(), address)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		// Absence is a normal answer for a fresh address, not an error.
		writeMessage(w, http.StatusOK, "No quiz exists for this address")
	case err != nil:
		log.Printf("fetch quiz for %s: %v", address, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch quiz")
	default:
		writeJSON(w, http.StatusOK, quiz)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
