package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"deliciasmz/chef"
	"deliciasmz/config"
	"deliciasmz/db"
	"deliciasmz/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	stopCleanup := make(chan struct{})
	go a.limiter.Run(time.Minute, stopCleanup)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Info("🛑 Cleaning up resources before shutdown...")
		close(stopCleanup)
	})

	errc := make(chan error, 1)
	go func() {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-shutdownChan:
		log.Info("🛑 Shutdown signal received. Shutting down gracefully...")
	case err := <-errc:
		return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("❌ Server shutdown failed", zap.Error(err))
		return err
	}

	log.Info("✅ Server stopped cleanly")
	return nil
}

func seed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	m, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer m.Close(context.Background())

	if err := m.EnsureIndexes(ctx); err != nil {
		return err
	}
	n, err := m.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d sample recipes written\n", n)
	return nil
}

func askChef(ask func(c *chef.Chef, ctx context.Context, input string) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout*3)
		defer cancel()
		var gen chef.Generator
		if g, err := chef.NewGenAI(ctx, cfg.GeminiAPIKey, ""); err == nil {
			gen = g
		}
		fmt.Fprintln(cmd.OutOrStdout(), ask(chef.New(gen, log), ctx, strings.Join(args, " ")))
		return nil
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deliciasmz",
		Short:         "DelíciasMZ recipe server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  serve,
	})
	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Write the sample recipes into an empty MongoDB",
		RunE:  seed,
	})

	chefCmd := &cobra.Command{Use: "chef", Short: "Ask the AI chef"}
	chefCmd.AddCommand(&cobra.Command{
		Use:   "recipe <ingredients...>",
		Short: "Suggest a recipe from ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE:  askChef((*chef.Chef).RecipeFromIngredients),
	})
	chefCmd.AddCommand(&cobra.Command{
		Use:   "tip <dish...>",
		Short: "Get a short tip for a dish",
		Args:  cobra.MinimumNArgs(1),
		RunE:  askChef((*chef.Chef).Tip),
	})
	root.AddCommand(chefCmd)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
