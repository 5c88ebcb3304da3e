// Command leadmesh runs the LeadMesh HTTP gateway: it loads the YAML
// configuration, wires the NLP provider, the session store and the built-in
// agents, and serves the conversational API until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hupe1980/leadmesh"
	"github.com/hupe1980/leadmesh/config"
	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/nlp"
	nlpanthropic "github.com/hupe1980/leadmesh/nlp/anthropic"
	nlpopenai "github.com/hupe1980/leadmesh/nlp/openai"
	"github.com/hupe1980/leadmesh/orchestrator"
	"github.com/hupe1980/leadmesh/server"
	"github.com/hupe1980/leadmesh/session"
	sessionredis "github.com/hupe1980/leadmesh/session/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leadmesh: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFiles(); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if path := configPath(); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	logger := buildLogger(cfg.Logging)

	nlpSvc, err := buildNLP(cfg.NLP, logger)
	if err != nil {
		return err
	}

	store, closeStore, err := buildSessionStore(cfg.Sessions, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := orchestrator.NewMetrics(registry)
	orchestrator.RegisterSessionsGauge(registry, store)

	mesh := leadmesh.New(func(o *leadmesh.Options) {
		o.NLP = nlpSvc
		o.SessionStore = store
		o.Logger = logger
		o.Metrics = metrics
	})

	for _, a := range cfg.Agents {
		created, err := mesh.CreateAgent(a.Type, a.Name, a.Description, a.Extra)
		if err != nil {
			return fmt.Errorf("failed to create agent %q: %w", a.Name, err)
		}
		logger.Info("main.agent_created", "type", a.Type, "agent_id", created.ID())
	}
	if len(cfg.Agents) == 0 {
		// A bare config still yields a usable deployment.
		if _, err := mesh.CreateAgent(leadmesh.AgentTypeSupport, "Support", "customer support agent", nil); err != nil {
			return err
		}
		if _, err := mesh.CreateAgent(leadmesh.AgentTypeLeadGen, "LeadGen", "lead generation agent", nil); err != nil {
			return err
		}
	}

	if err := mesh.Start(); err != nil {
		return err
	}
	defer mesh.Stop() //nolint:errcheck

	srv := server.New(mesh.Orchestrator(), func(o *server.Options) {
		o.Addr = cfg.Server.Addr
		o.Logger = logger
		o.Registry = registry
		o.EnableMetrics = cfg.Server.EnableMetrics
		o.MetricsPath = cfg.Server.MetricsPath
		o.RequestLogging = cfg.Server.RequestLogging
		o.ReadTimeout = cfg.Server.ReadTimeout.Std()
		o.WriteTimeout = cfg.Server.WriteTimeout.Std()
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("main.shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func configPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return os.Getenv("LEADMESH_CONFIG")
}

func buildLogger(cfg config.LoggingConfig) logging.Logger {
	level := logging.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	return logging.NewSlogLogger(level, cfg.Format, cfg.AddSource)
}

func buildNLP(cfg config.NLPConfig, logger logging.Logger) (core.NLPService, error) {
	var svc core.NLPService
	switch cfg.Provider {
	case "keyword":
		svc = nlp.NewKeywordService(nlp.DefaultRules()...)
	case "openai":
		var clientOpts []option.RequestOption
		if cfg.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
		}
		client := openai.NewClient(clientOpts...)
		svc = nlpopenai.NewServiceFromClient(&client, func(o *nlpopenai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.Temperature > 0 {
				o.Temperature = cfg.Temperature
			}
			o.Logger = logger
		})
	case "anthropic":
		svc = nlpanthropic.NewService(func(o *nlpanthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
			if cfg.Temperature > 0 {
				o.Temperature = cfg.Temperature
			}
			o.APIKey = cfg.APIKey
			o.Logger = logger
		})
	default:
		return nil, fmt.Errorf("unknown nlp provider %q", cfg.Provider)
	}

	if ttl := cfg.CacheTTL.Std(); ttl > 0 {
		svc = nlp.NewCachedService(svc, ttl, 0)
	}
	return svc, nil
}

func buildSessionStore(cfg config.SessionConfig, logger logging.Logger) (session.Store, func(), error) {
	switch cfg.Backend {
	case "memory":
		store := session.NewInMemoryStore(func(o *session.InMemoryOptions) {
			o.TTL = cfg.TTL.Std()
			o.Logger = logger
		})
		return store, store.Close, nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := sessionredis.New(rdb, cfg.TTL.Std())
		return store, func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
