package usecase

import (
	"context"
	"log"
	"time"

	"github.com/kossodo/expokossodo-leads/internal/entity"
)

type ProcessPendingSummary struct {
	Procesados int
	Errores    int
	Total      int
	Elapsed    time.Duration
}

// ProcessPendingLeadsUseCase recorre todos los leads con enviado=false y
// los consolida uno por uno. Cada lead tiene su propia transacción: un
// corte a mitad de lote deja los completados marcados y los demás
// reintentables. Un lead malo nunca aborta el lote.
type ProcessPendingLeadsUseCase struct {
	Leads        PendingLeadSource
	Consolidator LeadConsolidator
}

func NewProcessPendingLeadsUseCase(leads PendingLeadSource, consolidator LeadConsolidator) *ProcessPendingLeadsUseCase {
	return &ProcessPendingLeadsUseCase{
		Leads:        leads,
		Consolidator: consolidator,
	}
}

func (uc *ProcessPendingLeadsUseCase) Execute(ctx context.Context) (ProcessPendingSummary, error) {
	pending, err := uc.Leads.FindPending(ctx)
	if err != nil {
		return ProcessPendingSummary{}, err
	}
	return uc.Process(ctx, pending), nil
}

// Process consolida el lote recibido. processleads lo llama con la lista
// ya consultada: lo que el operador confirmó es exactamente lo que se
// procesa, sin releer la tabla.
func (uc *ProcessPendingLeadsUseCase) Process(ctx context.Context, pending []entity.Lead) ProcessPendingSummary {
	start := time.Now()

	summary := ProcessPendingSummary{Total: len(pending)}

	for i := range pending {
		lead := &pending[i]
		log.Printf("🔄 Procesando lead %d/%d - ID: %d (%s)",
			i+1, len(pending), lead.ID, lead.Email)

		if err := uc.Consolidator.Execute(ctx, lead); err != nil {
			summary.Errores++
			log.Printf("❌ Lead %d sin consolidar: %v", lead.ID, err)
			continue
		}
		summary.Procesados++
	}

	summary.Elapsed = time.Since(start)
	return summary
}
