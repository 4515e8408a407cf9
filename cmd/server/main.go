package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wellmed/internal/activity"
	"wellmed/internal/db"
	"wellmed/internal/handlers"
	"wellmed/internal/logger"
	mw "wellmed/internal/middleware"
	"wellmed/internal/services"
)

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	log := logger.New(os.Getenv("LOG_FILE"))
	defer log.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	port := getenv("PORT", "8080")
	uploadDir := getenv("UPLOAD_DIR", "uploads")
	ollamaURL := getenv("OLLAMA_URL", "http://localhost:11434")
	ollamaModel := getenv("OLLAMA_MODEL", "gemma3:12b")

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		log.Fatal("failed to open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		log.Fatal("failed to ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		log.Fatal("failed migrations", zap.Error(err))
	}

	assistant, err := services.NewAssistant(ollamaURL, ollamaModel, log)
	if err != nil {
		log.Fatal("failed to create assistant", zap.Error(err))
	}

	activityStore := activity.NewStore(dbConn)

	authHandler := handlers.NewAuthHandler(dbConn, []byte(jwtSecret))
	userHandler := handlers.NewUserHandler(dbConn)
	moodHandler := handlers.NewMoodHandler(dbConn)
	microHandler := handlers.NewMicroAssessmentHandler(dbConn)
	mbiHandler := handlers.NewMBIHandler(dbConn)
	journalHandler := handlers.NewJournalHandler(dbConn, assistant, uploadDir, log)
	goalHandler := handlers.NewGoalHandler(dbConn)
	chatHandler := handlers.NewChatHandler(dbConn, assistant, log)
	wellnessHandler := handlers.NewWellnessHandler(dbConn, activityStore)
	activityHandler := handlers.NewActivityHandler(activityStore)
	riskHandler := handlers.NewRiskHandler(dbConn)
	courseHandler := handlers.NewCourseHandler(dbConn)
	healthHandler := handlers.NewHealthHandler(dbConn, assistant)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Get)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	r.Route("/api", func(api chi.Router) {
		api.Post("/users/register", authHandler.Register)
		api.Post("/users/login", authHandler.Login)

		// Course content is global; only progress needs an identity.
		api.Get("/courses", courseHandler.List)
		api.Get("/courses/{courseID}", courseHandler.Get)
		api.Get("/courses/{courseID}/modules", courseHandler.Modules)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)

			pr.Get("/users/me", userHandler.GetMe)
			pr.Put("/users/me", userHandler.UpdateMe)

			pr.Post("/moods", moodHandler.Create)
			pr.Get("/moods/user/{userID}", moodHandler.ListByUser)

			pr.Post("/micro", microHandler.Create)
			pr.Get("/micro/user/{userID}", microHandler.ListByUser)
			pr.Get("/micro/{id}", microHandler.Get)

			pr.Post("/mbi", mbiHandler.Submit)
			pr.Get("/mbi/user/{userID}", mbiHandler.ListByUser)

			pr.Post("/journals", journalHandler.Create)
			pr.Get("/journals/user/{userID}", journalHandler.ListByUser)
			pr.Get("/journals/{id}", journalHandler.Get)

			pr.Post("/goals", goalHandler.Create)
			pr.Get("/goals/user/{userID}", goalHandler.ListByUser)
			pr.Delete("/goals/{id}", goalHandler.Delete)

			pr.Post("/chatbot/conversations", chatHandler.CreateConversation)
			pr.Get("/chatbot/conversations/user/{userID}", chatHandler.ListConversations)
			pr.Get("/chatbot/conversations/{id}", chatHandler.GetConversation)
			pr.Delete("/chatbot/conversations/{id}", chatHandler.DeleteConversation)
			pr.Post("/chatbot/messages", chatHandler.SendMessage)

			pr.Post("/wellness", wellnessHandler.Record)
			pr.Get("/wellness/user/{userID}", wellnessHandler.ListByUser)
			pr.Get("/wellness/user/{userID}/stats", wellnessHandler.Stats)
			pr.Get("/wellness/{id}", wellnessHandler.Get)

			pr.Get("/activity/user/{userID}/daily", activityHandler.Daily)
			pr.Get("/activity/user/{userID}/streaks", activityHandler.Streaks)
			pr.Get("/risk/user/{userID}", riskHandler.Get)

			pr.Post("/courses", courseHandler.Create)
			pr.Post("/courses/user/{userID}/courses/{courseID}/start", courseHandler.Start)
			pr.Post("/courses/user/{userID}/courses/{courseID}/modules/{moduleID}/complete", courseHandler.CompleteModule)
			pr.Put("/courses/user/{userID}/courses/{courseID}/modules/{moduleID}/time", courseHandler.UpdateModuleTime)
			pr.Get("/courses/user/{userID}/stats", courseHandler.Stats)
			pr.Get("/courses/user/{userID}/courses/{courseID}/progress", courseHandler.GetProgress)
			pr.Get("/courses/user/{userID}/progress", courseHandler.ListProgress)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Info("server starting", zap.String("addr", ":"+port), zap.String("model", ollamaModel))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("server stopped")
}
