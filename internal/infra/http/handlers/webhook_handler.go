package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kossodo/expokossodo-leads/internal/entity"
	"github.com/kossodo/expokossodo-leads/internal/infra/http/middleware"
	"github.com/kossodo/expokossodo-leads/internal/usecase"
)

// LeadIngestor es lo que el webhook necesita del caso de uso de ingesta.
type LeadIngestor interface {
	Execute(ctx context.Context, input usecase.IngestLeadInput) (*entity.Lead, error)
}

type WebhookHandler struct {
	VerifyToken string
	AppSecret   string
	Ingest      LeadIngestor
}

func NewWebhookHandler(verifyToken, appSecret string, ingest LeadIngestor) *WebhookHandler {
	return &WebhookHandler{
		VerifyToken: verifyToken,
		AppSecret:   appSecret,
		Ingest:      ingest,
	}
}

// Envelope de Lead Ads: entry[].changes[] con field "leadgen".
type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				LeadgenID json.Number `json:"leadgen_id"`
				FormID    json.Number `json:"form_id"`
				PageID    json.Number `json:"page_id"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleVerify responde el handshake de suscripción (GET).
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken && challenge != "" {
		log.Println("✅ Webhook verificado")
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Verification failed", http.StatusForbidden)
}

// HandleReceive procesa las notificaciones (POST). Cada lead se ingesta en
// secuencia; una falla se loguea y se sigue con el próximo, nunca se
// aborta la entrega completa.
func (h *WebhookHandler) HandleReceive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if h.AppSecret != "" && !h.validSignature(r.Header.Get("X-Hub-Signature-256"), body) {
		middleware.RecordLeadReceived("firma_invalida")
		http.Error(w, "Invalid signature", http.StatusForbidden)
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	// Correlación de logs por entrega.
	deliveryID := uuid.New().String()[:8]

	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			if change.Field != "leadgen" {
				continue
			}

			input := usecase.IngestLeadInput{
				LeadgenID: change.Value.LeadgenID.String(),
				FormID:    change.Value.FormID.String(),
				PageID:    change.Value.PageID.String(),
			}
			log.Printf("📥 [%s] Nuevo lead recibido: %s", deliveryID, input.LeadgenID)

			lead, err := h.Ingest.Execute(r.Context(), input)
			if err != nil {
				middleware.RecordLeadReceived("error")
				log.Printf("❌ [%s] Error procesando lead %s: %v", deliveryID, input.LeadgenID, err)
				continue
			}
			middleware.RecordLeadReceived("ok")
			if lead.Enviado {
				middleware.RecordLeadConsolidated("ok")
			} else {
				middleware.RecordLeadConsolidated("pendiente")
			}
		}
	}

	w.Write([]byte("OK"))
}

func (h *WebhookHandler) validSignature(header string, body []byte) bool {
	if !strings.HasPrefix(header, "sha256=") {
		return false
	}
	received := strings.TrimPrefix(header, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.AppSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// Comparación en tiempo constante.
	return hmac.Equal([]byte(received), []byte(expected))
}
