package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kossodo/expokossodo-leads/internal/entity"
)

// Prefijo de sala en el nombre del anuncio: "S3 - De la Microscopía..."
var salaPrefixRe = regexp.MustCompile(`^(S\d+)\s*-\s*(.+)$`)

type IngestLeadInput struct {
	LeadgenID string
	FormID    string
	PageID    string
}

// IngestLeadUseCase trae el lead completo del Graph API, lo enriquece con
// los nombres de campaña/adset/anuncio y lo guarda. Si hay consolidador
// configurado, consolida de inmediato; la falla de consolidación no tumba
// la ingesta (el lead queda pendiente para el batch).
type IngestLeadUseCase struct {
	Graph        GraphClient
	Leads        LeadStore
	Consolidator LeadConsolidator // nil = solo guardar
}

func NewIngestLeadUseCase(graph GraphClient, leads LeadStore, consolidator LeadConsolidator) *IngestLeadUseCase {
	return &IngestLeadUseCase{
		Graph:        graph,
		Leads:        leads,
		Consolidator: consolidator,
	}
}

func (uc *IngestLeadUseCase) Execute(ctx context.Context, input IngestLeadInput) (*entity.Lead, error) {
	payload, err := uc.Graph.FetchLead(ctx, input.LeadgenID)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo lead %s: %w", input.LeadgenID, err)
	}

	leadID, err := strconv.ParseInt(payload.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("lead id inválido %q: %w", payload.ID, err)
	}

	createdTime, err := parseGraphTime(payload.CreatedTime)
	if err != nil {
		return nil, fmt.Errorf("created_time inválido %q: %w", payload.CreatedTime, err)
	}

	fields := payload.FieldMap()
	fullName := fields["full_name"]
	if fullName == "" {
		fullName = fields["name"]
	}
	phone := fields["phone_number"]
	if phone == "" {
		phone = fields["phone"]
	}

	// Cada lookup de nombre es opcional: sin MKT_TOKEN o con la llamada
	// caída se sigue con el nombre vacío.
	campaignName := uc.fetchName(ctx, "campaña", payload.CampaignID)
	adsetName := uc.fetchName(ctx, "adset", payload.AdsetID)
	adNameRaw := uc.fetchName(ctx, "anuncio", payload.AdID)

	sala, adName := extractSala(adNameRaw)

	formID := parseIDOr(payload.FormID, input.FormID)
	pageID := parseIDOr("", input.PageID)

	lead := &entity.Lead{
		ID:           leadID,
		FormID:       formID,
		PageID:       pageID,
		CampaignID:   payload.CampaignID,
		AdsetID:      payload.AdsetID,
		AdID:         payload.AdID,
		CampaignName: campaignName,
		AdsetName:    adsetName,
		AdName:       adName,
		Sala:         sala,
		FullName:     fullName,
		Email:        fields["email"],
		Phone:        phone,
		Empresa:      fields["empresa"],
		Cargo:        fields["cargo"],
		CreatedTime:  createdTime,
		RawJSON:      payload.Raw,
	}

	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		return nil, fmt.Errorf("error guardando lead %d: %w", leadID, err)
	}
	log.Printf("💾 Lead %d guardado (anuncio: %q, sala: %q)", leadID, adName, sala)

	if uc.Consolidator != nil {
		if err := uc.Consolidator.Execute(ctx, lead); err != nil {
			// Queda con enviado=false; processleads lo reintenta.
			log.Printf("⚠️ Lead %d guardado pero sin consolidar: %v", leadID, err)
		}
	}

	return lead, nil
}

func (uc *IngestLeadUseCase) fetchName(ctx context.Context, kind, objectID string) string {
	if objectID == "" {
		return ""
	}
	name, err := uc.Graph.FetchObjectName(ctx, objectID)
	if err != nil {
		log.Printf("⚠️ Error obteniendo nombre de %s %s: %v", kind, objectID, err)
		return ""
	}
	return name
}

// extractSala separa el prefijo de sala del nombre del anuncio. Sin
// prefijo, la sala queda vacía y el nombre se usa tal cual.
func extractSala(adName string) (sala, clean string) {
	m := salaPrefixRe.FindStringSubmatch(strings.TrimSpace(adName))
	if m == nil {
		return "", adName
	}
	return m[1], strings.TrimSpace(m[2])
}

// El Graph API manda fechas tipo "2025-08-21T10:00:00+0000"; RFC3339 queda
// como fallback por si algún día normalizan el offset.
func parseGraphTime(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05-0700", value)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseIDOr(primary, fallback string) int64 {
	for _, s := range []string{primary, fallback} {
		if s == "" {
			continue
		}
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id
		}
	}
	return 0
}
