package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blink-quiz-service/internal/app"
	"blink-quiz-service/internal/config"
	"blink-quiz-service/internal/imageservice"
	"blink-quiz-service/internal/infra/memory"
	pgstore "blink-quiz-service/internal/infra/postgres"
	redisstore "blink-quiz-service/internal/infra/redis"
	"blink-quiz-service/internal/ledger"
	transport "blink-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz action server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var store app.QuizStore = memory.NewQuizStore()
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.NewQuizStore(pool)
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		store = redisstore.NewQuizStore(client)
	}

	imageURL := cfg.ImageService.URL
	if imageURL == "" {
		imageURL = "http://localhost:8000"
	}
	icons := imageservice.NewClient(imageURL, config.Duration(cfg.ImageService.Timeout, 10*time.Second))

	baseURL := cfg.Server.ActionBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + finalPort
	}
	defaultPrice := cfg.Solana.DefaultPrice
	if defaultPrice == "" {
		defaultPrice = "0.001"
	}

	rpcURL := cfg.Solana.RPCURL
	if rpcURL == "" {
		rpcURL = "https://api.mainnet-beta.solana.com"
	}
	memoTag := cfg.Solana.MemoTag
	if memoTag == "" {
		memoTag = "sol_transfer"
	}
	computeUnitPrice := cfg.Solana.ComputeUnitPrice
	if computeUnitPrice == 0 {
		computeUnitPrice = 1000
	}

	quizzes := app.NewQuizService(store)
	actions := app.NewActionService(store, icons, app.ActionConfig{
		BaseURL:        baseURL,
		PaymentAddress: cfg.Solana.PaymentAddress,
		DefaultPrice:   defaultPrice,
	})
	builder := ledger.NewTransferBuilder(ledger.NewRPCBlockhashProvider(rpcURL), ledger.BuilderConfig{
		MemoTag:          memoTag,
		ComputeUnitPrice: computeUnitPrice,
	})

	handler := transport.NewHandler(quizzes, actions, builder)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz action service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
