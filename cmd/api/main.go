package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kossodo/expokossodo-leads/internal/config"
	"github.com/kossodo/expokossodo-leads/internal/infra/database"
	"github.com/kossodo/expokossodo-leads/internal/infra/http/handlers"
	"github.com/kossodo/expokossodo-leads/internal/infra/http/middleware"
	"github.com/kossodo/expokossodo-leads/internal/infra/integration/graphapi"
	"github.com/kossodo/expokossodo-leads/internal/infra/mail"
	"github.com/kossodo/expokossodo-leads/internal/usecase"
)

func main() {
	cfg := config.Load()

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Error conectando a la base de datos: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	// 1. Repositorios
	leadRepo := database.NewLeadRepository(db)
	regRepo := database.NewRegistrantRepository(db)
	store := database.NewStore(db)

	// 2. Integraciones
	graph := graphapi.NewClient(cfg.GraphBaseURL, cfg.PageToken, cfg.MarketingToken)

	var mailer usecase.MailSender
	if cfg.MailEnabled() {
		mailer = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		log.Println("⚠️ SMTP no configurado: no se enviarán correos de confirmación")
	}

	// 3. Casos de uso
	consolidator := usecase.NewConsolidateLeadUseCase(store, mailer)
	ingest := usecase.NewIngestLeadUseCase(graph, leadRepo, consolidator)

	// 4. Handlers
	webhookHandler := handlers.NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, ingest)
	healthHandler := handlers.NewHealthHandler(db, cfg.PageToken, cfg.MarketingToken)
	registrantHandler := handlers.NewRegistrantHandler(regRepo)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/facebook/webhook", webhookHandler.HandleVerify)
	r.Post("/facebook/webhook", webhookHandler.HandleReceive)
	r.Get("/registros/{correo}", registrantHandler.HandleGet)
	r.Get("/registros/{correo}/qr", registrantHandler.HandleQR)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", homeHandler)

	addr := ":" + cfg.Port
	log.Printf("🔥 Webhook de leads ExpoKossodo escuchando en %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "running",
		"webhook_url": "/facebook/webhook",
	})
}
