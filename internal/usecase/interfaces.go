package usecase

import (
	"context"

	"github.com/kossodo/expokossodo-leads/internal/entity"
	"github.com/kossodo/expokossodo-leads/internal/infra/integration/graphapi"
)

// GraphClient es lo que la ingesta necesita del Graph API de Facebook.
type GraphClient interface {
	FetchLead(ctx context.Context, leadgenID string) (*graphapi.LeadPayload, error)
	FetchObjectName(ctx context.Context, objectID string) (string, error)
}

// LeadStore persiste leads fuera de la transacción de consolidación.
type LeadStore interface {
	Upsert(ctx context.Context, lead *entity.Lead) error
}

// PendingLeadSource entrega los leads con enviado=false, más antiguos
// primero.
type PendingLeadSource interface {
	FindPending(ctx context.Context) ([]entity.Lead, error)
}

// ConsolidationStore abre la transacción todo-o-nada de un lead. Si fn
// devuelve error no queda ningún write.
type ConsolidationStore interface {
	WithinTx(ctx context.Context, fn func(tx ConsolidationTx) error) error
}

// ConsolidationTx son las operaciones disponibles dentro de esa transacción.
type ConsolidationTx interface {
	FindAllEvents(ctx context.Context) ([]entity.Event, error)
	// FindRegistrantByEmail devuelve (nil, nil) si no existe registro.
	FindRegistrantByEmail(ctx context.Context, email string) (*entity.Registrant, error)
	UpdateRegistrantEvents(ctx context.Context, registrantID int64, eventIDs []int64) error
	CreateRegistrant(ctx context.Context, r *entity.Registrant) error
	MarkLeadSent(ctx context.Context, leadID int64) error
}

// LeadConsolidator permite inyectar el consolidador en la ingesta y en el
// batch (y mockearlo en tests).
type LeadConsolidator interface {
	Execute(ctx context.Context, lead *entity.Lead) error
}

// MailSender envía el correo de confirmación con el QR adjunto. Puede ser
// nil: sin SMTP configurado simplemente no se envía nada.
type MailSender interface {
	SendConfirmation(to, name string, qrPNG []byte) error
}
