package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wellmed/internal/middleware"
	"wellmed/internal/models"
	"wellmed/internal/services"
)

const replyTimeout = 2 * time.Minute

type ChatHandler struct {
	db        *sqlx.DB
	assistant *services.Assistant
	logger    *zap.Logger
}

func NewChatHandler(db *sqlx.DB, assistant *services.Assistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{db: db, assistant: assistant, logger: logger}
}

func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	var body struct {
		Title string `json:"title"`
	}
	// Body is optional; an empty one gets the default title.
	_ = json.NewDecoder(r.Body).Decode(&body)
	title := strings.TrimSpace(body.Title)
	if title == "" {
		title = "New Conversation"
	}

	var conv models.Conversation
	err := h.db.QueryRowx(
		`INSERT INTO conversations (id, user_id, title)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, title, created_at, updated_at`,
		uuid.New(), userID, title,
	).StructScan(&conv)
	if err != nil {
		http.Error(w, "could not create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok || !requireSelf(w, r, userID) {
		return
	}
	out := []models.Conversation{}
	if err := h.db.Select(&out, `SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE user_id=$1 ORDER BY updated_at DESC`, userID); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type conversationWithMessages struct {
	models.Conversation
	Messages []models.Message `json:"messages"`
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var conv models.Conversation
	err := h.db.Get(&conv, `SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if !requireSelf(w, r, conv.UserID) {
		return
	}

	msgs := []models.Message{}
	if err := h.db.Select(&msgs, `SELECT id, conversation_id, role, content, created_at FROM messages WHERE conversation_id=$1 ORDER BY created_at`, id); err != nil {
		http.Error(w, "could not fetch messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, conversationWithMessages{Conversation: conv, Messages: msgs})
}

func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var ownerID uuid.UUID
	err := h.db.Get(&ownerID, `SELECT user_id FROM conversations WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if !requireSelf(w, r, ownerID) {
		return
	}
	if _, err := h.db.Exec(`DELETE FROM conversations WHERE id=$1`, id); err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type messageRequest struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
}

// SendMessage stores the user's message and returns immediately; the
// assistant's reply is generated out of band and appended to the
// conversation when ready. Failures become a canned fallback message, so the
// conversation always resolves.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Role != "user" {
		http.Error(w, "only user messages can be sent through this endpoint", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content required", http.StatusBadRequest)
		return
	}

	var ownerID uuid.UUID
	err := h.db.Get(&ownerID, `SELECT user_id FROM conversations WHERE id=$1`, req.ConversationID)
	if err == sql.ErrNoRows {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not fetch conversation", http.StatusInternalServerError)
		return
	}
	if !requireSelf(w, r, ownerID) {
		return
	}

	// The message insert and the conversation bump commit together so a
	// stored message always moves its conversation to the top of the list.
	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	var msg models.Message
	err = tx.QueryRowx(
		`INSERT INTO messages (id, conversation_id, role, content)
		 VALUES ($1, $2, 'user', $3)
		 RETURNING id, conversation_id, role, content, created_at`,
		uuid.New(), req.ConversationID, req.Content,
	).StructScan(&msg)
	if err != nil {
		http.Error(w, "could not save message", http.StatusInternalServerError)
		return
	}
	if _, err := tx.Exec(`UPDATE conversations SET updated_at=NOW() WHERE id=$1`, req.ConversationID); err != nil {
		http.Error(w, "could not save message", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, "could not save message", http.StatusInternalServerError)
		return
	}

	go h.reply(req.ConversationID)

	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) reply(conversationID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	var rows []models.Message
	if err := h.db.SelectContext(ctx, &rows, `SELECT id, conversation_id, role, content, created_at FROM messages WHERE conversation_id=$1 ORDER BY created_at`, conversationID); err != nil {
		h.logger.Error("could not load conversation history", zap.String("conversation_id", conversationID.String()), zap.Error(err))
		return
	}

	history := make([]services.ChatTurn, 0, len(rows))
	for _, m := range rows {
		history = append(history, services.ChatTurn{Role: m.Role, Content: m.Content})
	}

	content, err := h.assistant.Reply(ctx, history)
	if err != nil {
		content = services.ChatFallback
	}

	tx, err := h.db.Beginx()
	if err != nil {
		h.logger.Error("could not store assistant reply", zap.String("conversation_id", conversationID.String()), zap.Error(err))
		return
	}
	defer tx.Rollback()
	if _, err := tx.Exec(
		`INSERT INTO messages (id, conversation_id, role, content) VALUES ($1, $2, 'assistant', $3)`,
		uuid.New(), conversationID, content,
	); err != nil {
		h.logger.Error("could not store assistant reply", zap.String("conversation_id", conversationID.String()), zap.Error(err))
		return
	}
	if _, err := tx.Exec(`UPDATE conversations SET updated_at=NOW() WHERE id=$1`, conversationID); err != nil {
		h.logger.Error("could not bump conversation", zap.String("conversation_id", conversationID.String()), zap.Error(err))
		return
	}
	if err := tx.Commit(); err != nil {
		h.logger.Error("could not store assistant reply", zap.String("conversation_id", conversationID.String()), zap.Error(err))
	}
}
