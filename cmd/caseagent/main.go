package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"dev.simplylaw.agent/internal/agents"
	"dev.simplylaw.agent/internal/config"
	"dev.simplylaw.agent/internal/conversation"
	"dev.simplylaw.agent/internal/debate"
	"dev.simplylaw.agent/internal/handlers"
	"dev.simplylaw.agent/internal/llm"
	"dev.simplylaw.agent/internal/observability"
	"dev.simplylaw.agent/internal/orchestrator"
	"dev.simplylaw.agent/internal/router"
)

var (
	envFile = flag.String("env", ".env", "Path to .env file")
	version = flag.Bool("version", false, "Show version information")
)

const serviceVersion = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("caseagent %s\n", serviceVersion)
		return
	}

	// Missing .env is fine; environment variables may be set directly.
	_ = godotenv.Load(*envFile)

	cfg := config.Load()
	log := observability.NewLogger(cfg.Monitoring.LogLevel)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("service exited with error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	var provider llm.Provider = llm.NewGeminiProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	if cfg.LLM.MaxRetries > 0 {
		retryCfg := llm.DefaultRetryConfig()
		retryCfg.MaxRetries = cfg.LLM.MaxRetries
		provider = llm.NewRetryProvider(provider, retryCfg)
	}

	if err := provider.HealthCheck(); err != nil {
		log.WithError(err).Warn("text-generation provider not fully configured")
	}

	roles, err := config.LoadRoles(cfg.Analysis.RolesFile)
	if err != nil {
		return fmt.Errorf("loading roles: %w", err)
	}

	docu := agents.NewDocu(provider, roleOptions(roles, agents.RoleDocu, cfg)...)
	sherlock := agents.NewSherlock(provider, roleOptions(roles, agents.RoleSherlock, cfg)...)
	coms := agents.NewComs(provider, roleOptions(roles, agents.RoleComs, cfg)...)

	metrics := observability.NewMetrics()
	store := conversation.NewStore()

	engine := debate.NewEngine(store, docu, sherlock, debate.Config{
		MaxIterations: cfg.Analysis.MaxIterations,
		TurnTimeout:   cfg.Analysis.TurnTimeout,
	}, metrics, log)

	var tasks *debate.TaskGenerator
	if cfg.Analysis.GenerateTasks {
		tasks = debate.NewTaskGenerator(provider, log)
	}

	orch := orchestrator.New(provider, engine, tasks, coms, log)
	handler := handlers.NewAnalysisHandler(orch, engine, store, coms, provider, log)
	server := router.NewServer(cfg, router.SetupRouter(cfg, handler, metrics), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Stop(shutdownCtx)
	})
	if cfg.Analysis.Retention > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Analysis.Retention)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if purged := store.Purge(cfg.Analysis.Retention); purged > 0 {
						log.WithField("purged", purged).Info("removed expired conversations")
					}
				}
			}
		})
	}

	return g.Wait()
}

// roleOptions translates a YAML role override into adapter options.
func roleOptions(roles *config.RolesConfig, name string, cfg *config.Config) []agents.Option {
	opts := []agents.Option{agents.WithTemperature(cfg.LLM.Temperature)}
	if role, ok := roles.Role(name); ok {
		opts = append(opts, agents.WithPreamble(role.Preamble))
		if role.Temperature > 0 {
			opts = append(opts, agents.WithTemperature(role.Temperature))
		}
	}
	return opts
}
