package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/siteseeker/backend/internal/config"
	"github.com/siteseeker/backend/internal/infra/cache"
	"github.com/siteseeker/backend/internal/infra/database"
	"github.com/siteseeker/backend/internal/infra/http/handlers"
	"github.com/siteseeker/backend/internal/infra/http/middleware"
	"github.com/siteseeker/backend/internal/infra/integration/places"
	"github.com/siteseeker/backend/internal/infra/mail"
	"github.com/siteseeker/backend/internal/infra/queue"
	"github.com/siteseeker/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Redis segura o cache de buscas e o espelho de leads. Sem ele o
	// serviço funciona, só perde as leituras baratas.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️ Redis indisponível (%v), seguindo sem cache", err)
		rdb = nil
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios e adapters
	leadRepo := database.NewLeadRepository(db)
	searchCache := cache.NewSearchCache(rdb)
	leadMirror := cache.NewLeadMirror(rdb)

	// 2. Integrações
	placesClient := places.NewClient(cfg.PlacesAPIKey, cfg.PlacesBaseURL, cfg.PlacesProxyURL)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. Worker de notificação (consome a fila e avisa o operador)
	var notifier queue.LeadNotifier
	if !cfg.MailDisabled {
		notifier = mail.NewLeadNotifier(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.NotifyEmail)
	}
	worker := queue.NewWorker(rabbitMQ.Ch, notifier)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	resolveUC := usecase.NewResolveLeadsUseCase(leadRepo, searchCache, placesClient, producer, leadMirror)
	leadService := usecase.NewLeadService(leadRepo, leadMirror, producer)
	sessions := usecase.NewSessionRegistry()

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(leadService)
	searchHandler := handlers.NewSearchHandler(resolveUC, sessions)
	dashboardHandler := handlers.NewDashboardHandler(leadService)
	healthHandler := handlers.NewHealthHandler(db, rdb, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/search", searchHandler.Handle)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", leadHandler.HandleList)
		r.Post("/", leadHandler.HandleCreate)
		r.Get("/{id}", leadHandler.HandleGet)
		r.Put("/{id}", leadHandler.HandleUpdate)
		r.Patch("/{id}/status", leadHandler.HandleUpdateStatus)
		r.Delete("/{id}", leadHandler.HandleDelete)
	})

	r.Get("/dashboard/summary", dashboardHandler.HandleSummary)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	log.Printf("🔥 Site Seeker API rodando na porta %s", addr)
	http.ListenAndServe(addr, r)
}
