package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSendMessageRejectsAssistantRole(t *testing.T) {
	h := NewChatHandler(nil, nil, zap.NewNop())
	w := httptest.NewRecorder()
	body := `{"conversation_id":"` + uuid.NewString() + `","role":"assistant","content":"hello"}`
	h.SendMessage(w, authedRequest(http.MethodPost, "/api/chatbot/messages", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user messages")
}

func TestSendMessageRequiresContent(t *testing.T) {
	h := NewChatHandler(nil, nil, zap.NewNop())
	w := httptest.NewRecorder()
	body := `{"conversation_id":"` + uuid.NewString() + `","role":"user","content":"   "}`
	h.SendMessage(w, authedRequest(http.MethodPost, "/api/chatbot/messages", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "content required")
}

func TestSendMessageRejectsInvalidBody(t *testing.T) {
	h := NewChatHandler(nil, nil, zap.NewNop())
	w := httptest.NewRecorder()
	h.SendMessage(w, authedRequest(http.MethodPost, "/api/chatbot/messages", `not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
