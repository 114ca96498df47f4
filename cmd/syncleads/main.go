// syncleads trae el histórico de leads de un formulario de Facebook
// (paginando el Graph API) y los guarda en fb_leads. No consolida: para
// eso está processleads.
//
// Uso:
//
//	syncleads -form-id 2559418034391311
//	syncleads -form-id 2559418034391311 -since 2025-08-01 -until 2025-08-21
//	syncleads -form-id 2559418034391311 -limit 200
package main

import (
	"context"
	"flag"
	"log"

	"github.com/kossodo/expokossodo-leads/internal/config"
	"github.com/kossodo/expokossodo-leads/internal/infra/database"
	"github.com/kossodo/expokossodo-leads/internal/infra/integration/graphapi"
	"github.com/kossodo/expokossodo-leads/internal/usecase"
)

func main() {
	formID := flag.String("form-id", "", "ID del formulario de Facebook (obligatorio)")
	since := flag.String("since", "", "fecha desde (YYYY-MM-DD o timestamp unix)")
	until := flag.String("until", "", "fecha hasta (YYYY-MM-DD o timestamp unix)")
	limit := flag.Int("limit", 100, "leads por página")
	flag.Parse()

	if *formID == "" {
		log.Fatal("❌ -form-id es obligatorio")
	}

	cfg := config.Load()
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := cfg.RequirePageToken(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx := context.Background()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Error conectando a la base de datos: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	graph := graphapi.NewClient(cfg.GraphBaseURL, cfg.PageToken, cfg.MarketingToken)
	leadRepo := database.NewLeadRepository(db)

	// Sin consolidador: la sincronización histórica solo guarda.
	ingest := usecase.NewIngestLeadUseCase(graph, leadRepo, nil)

	log.Printf("🚀 Sincronización histórica del formulario %s", *formID)

	var processed, saved, errored int
	pages, err := graph.FetchFormLeads(ctx, *formID, graphapi.FormLeadsOptions{
		Since: *since,
		Until: *until,
		Limit: *limit,
	}, func(ref graphapi.LeadRef) error {
		processed++
		log.Printf("🔄 Lead %d: %s (%s)", processed, ref.ID, ref.CreatedTime)

		_, err := ingest.Execute(ctx, usecase.IngestLeadInput{
			LeadgenID: ref.ID,
			FormID:    *formID,
			PageID:    cfg.PageID,
		})
		if err != nil {
			errored++
			log.Printf("❌ Error con lead %s: %v", ref.ID, err)
			return nil // un lead malo no corta la sincronización
		}
		saved++
		return nil
	})
	if err != nil {
		log.Printf("⚠️ Paginación interrumpida: %v", err)
	}

	log.Printf("📊 Sincronización completada: páginas=%d procesados=%d guardados=%d errores=%d",
		pages, processed, saved, errored)
	if errored > 0 {
		log.Printf("⚠️ Terminó con %d errores; los leads faltantes se pueden reintentar", errored)
	}
}
