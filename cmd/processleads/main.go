// processleads consolida todos los leads pendientes (enviado=false) hacia
// expokossodo_registros, uno por uno, y reporta el resumen.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/kossodo/expokossodo-leads/internal/config"
	"github.com/kossodo/expokossodo-leads/internal/infra/database"
	"github.com/kossodo/expokossodo-leads/internal/infra/mail"
	"github.com/kossodo/expokossodo-leads/internal/usecase"
)

func main() {
	yes := flag.Bool("y", false, "procesar sin pedir confirmación")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx := context.Background()
	runID := uuid.New().String()[:8]
	log.Printf("🚀 [%s] Iniciando procesamiento de leads pendientes", runID)

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Error conectando a la base de datos: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	leadRepo := database.NewLeadRepository(db)
	store := database.NewStore(db)

	var mailer usecase.MailSender
	if cfg.MailEnabled() {
		mailer = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}

	consolidator := usecase.NewConsolidateLeadUseCase(store, mailer)

	pending, err := leadRepo.FindPending(ctx)
	if err != nil {
		log.Fatalf("❌ Error buscando leads pendientes: %v", err)
	}
	if len(pending) == 0 {
		log.Println("✅ No hay leads pendientes de procesar")
		return
	}

	log.Printf("📋 Encontrados %d leads pendientes", len(pending))
	if !*yes && !confirm(len(pending)) {
		log.Println("❌ Procesamiento cancelado por el usuario")
		return
	}

	uc := usecase.NewProcessPendingLeadsUseCase(leadRepo, consolidator)
	summary := uc.Process(ctx, pending)

	// Sin esta espera los correos de confirmación del lote se perderían
	// al terminar el proceso.
	consolidator.Wait()

	log.Printf("📊 [%s] Resumen: procesados=%d errores=%d total=%d tiempo=%.2fs",
		runID, summary.Procesados, summary.Errores, summary.Total,
		summary.Elapsed.Seconds())
}

func confirm(n int) bool {
	fmt.Printf("⚠️  Se van a procesar %d leads. ¿Continuar? (s/N): ", n)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer)) == "s"
}
