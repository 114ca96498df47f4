package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kossodo/expokossodo-leads/internal/entity"
	"github.com/kossodo/expokossodo-leads/internal/usecase"
)

type mockIngestor struct {
	mock.Mock
}

func (m *mockIngestor) Execute(ctx context.Context, input usecase.IngestLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

const leadgenBody = `{
	"entry": [{
		"changes": [{
			"field": "leadgen",
			"value": {"leadgen_id": 777001, "form_id": 888001, "page_id": 999001}
		}]
	}]
}`

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestHandleVerify(t *testing.T) {
	h := NewWebhookHandler("token123", "", nil)

	t.Run("handshake correcto devuelve el challenge", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/facebook/webhook?hub.mode=subscribe&hub.verify_token=token123&hub.challenge=desafio42", nil)
		w := httptest.NewRecorder()
		h.HandleVerify(w, r)

		assert.Equal(t, 200, w.Code)
		assert.Equal(t, "desafio42", w.Body.String())
	})

	t.Run("token equivocado es 403", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/facebook/webhook?hub.mode=subscribe&hub.verify_token=otro&hub.challenge=desafio42", nil)
		w := httptest.NewRecorder()
		h.HandleVerify(w, r)

		assert.Equal(t, 403, w.Code)
	})

	t.Run("sin challenge es 403", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/facebook/webhook?hub.mode=subscribe&hub.verify_token=token123", nil)
		w := httptest.NewRecorder()
		h.HandleVerify(w, r)

		assert.Equal(t, 403, w.Code)
	})
}

func TestHandleReceive(t *testing.T) {
	t.Run("notificación válida ingesta el lead", func(t *testing.T) {
		ingest := new(mockIngestor)
		ingest.On("Execute", mock.Anything, usecase.IngestLeadInput{
			LeadgenID: "777001",
			FormID:    "888001",
			PageID:    "999001",
		}).Return(&entity.Lead{ID: 777001, Enviado: true}, nil)

		h := NewWebhookHandler("token123", "", ingest)
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader(leadgenBody))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 200, w.Code)
		assert.Equal(t, "OK", w.Body.String())
		ingest.AssertExpectations(t)
	})

	t.Run("firma válida acepta la entrega", func(t *testing.T) {
		ingest := new(mockIngestor)
		ingest.On("Execute", mock.Anything, mock.Anything).Return(&entity.Lead{Enviado: false}, nil)

		h := NewWebhookHandler("token123", "secreto", ingest)
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader(leadgenBody))
		r.Header.Set("X-Hub-Signature-256", sign("secreto", leadgenBody))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 200, w.Code)
		ingest.AssertExpectations(t)
	})

	t.Run("firma inválida es 403 sin ingesta", func(t *testing.T) {
		ingest := new(mockIngestor)
		h := NewWebhookHandler("token123", "secreto", ingest)
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader(leadgenBody))
		r.Header.Set("X-Hub-Signature-256", sign("otro-secreto", leadgenBody))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 403, w.Code)
		ingest.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("sin header de firma es 403 cuando hay secreto", func(t *testing.T) {
		ingest := new(mockIngestor)
		h := NewWebhookHandler("token123", "secreto", ingest)
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader(leadgenBody))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 403, w.Code)
	})

	t.Run("un lead caído no aborta la entrega", func(t *testing.T) {
		body := `{
			"entry": [{
				"changes": [
					{"field": "leadgen", "value": {"leadgen_id": 1}},
					{"field": "leadgen", "value": {"leadgen_id": 2}}
				]
			}]
		}`
		ingest := new(mockIngestor)
		ingest.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.IngestLeadInput) bool {
			return in.LeadgenID == "1"
		})).Return(nil, errors.New("graph api caído"))
		ingest.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.IngestLeadInput) bool {
			return in.LeadgenID == "2"
		})).Return(&entity.Lead{ID: 2, Enviado: true}, nil)

		h := NewWebhookHandler("token123", "", ingest)
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 200, w.Code)
		ingest.AssertNumberOfCalls(t, "Execute", 2)
	})

	t.Run("cambios que no son leadgen se ignoran", func(t *testing.T) {
		body := `{"entry": [{"changes": [{"field": "feed", "value": {}}]}]}`
		ingest := new(mockIngestor)
		h := NewWebhookHandler("token123", "", ingest)
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 200, w.Code)
		ingest.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("JSON roto es 400", func(t *testing.T) {
		h := NewWebhookHandler("token123", "", new(mockIngestor))
		r := httptest.NewRequest("POST", "/facebook/webhook", strings.NewReader("{no es json"))
		w := httptest.NewRecorder()
		h.HandleReceive(w, r)

		assert.Equal(t, 400, w.Code)
	})
}
