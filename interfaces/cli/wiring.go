package cli

import (
	"fmt"

	"github.com/felixgeelhaar/fsagent/application"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/config"
	"github.com/felixgeelhaar/fsagent/infrastructure/confirm"
	"github.com/felixgeelhaar/fsagent/infrastructure/executor"
	"github.com/felixgeelhaar/fsagent/infrastructure/indexer"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
	"github.com/felixgeelhaar/fsagent/infrastructure/search"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/badger"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/memory"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/fsagent/pack/files"
)

// runtime holds the wired component graph for one invocation.
type runtime struct {
	cfg        *config.Config
	store      index.Store
	protected  *policy.ProtectedPathSet
	resolver   *resolver.Resolver
	search     *search.Engine
	executor   *executor.Executor
	indexer    *indexer.Builder
	gate       *confirm.Gate
	dispatcher *application.Dispatcher
}

// loadConfig reads the configuration file or falls back to defaults.
func (a *App) loadConfig() (*config.Config, error) {
	if a.configPath == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.NewLoader().LoadFile(a.configPath)
}

// openStore creates the index store selected by the configuration.
func openStore(cfg *config.Config) (index.Store, error) {
	switch cfg.Index.Backend {
	case "sqlite":
		return sqlite.NewIndexStore(sqlite.FileConfig(cfg.Index.Path))
	case "badger":
		return badger.NewIndexStore(badger.DefaultConfig(cfg.Index.Path))
	case "memory":
		return memory.NewIndexStore(), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

// newRuntime wires every component from the configuration.
func (a *App) newRuntime() (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open index store: %w", err)
	}

	protected := policy.NewProtectedPathSet(cfg.Protected)
	res := resolver.New(policy.NewAliasTable(cfg.Aliases))
	exec := executor.New(executor.Config{
		Protected:      protected,
		MaxReadBytes:   cfg.Limits.MaxReadBytes,
		TextExtensions: cfg.Read.TextExtensions,
	})

	gate, err := confirm.NewGate(confirm.WithTTL(cfg.Confirmation.TTL))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create confirmation gate: %w", err)
	}

	rt := &runtime{
		cfg:       cfg,
		store:     store,
		protected: protected,
		resolver:  res,
		search:    search.New(store, protected, cfg.Limits.MaxWalkNodes),
		executor:  exec,
		indexer:   indexer.NewBuilder(store, protected),
		gate:      gate,
	}

	p, err := files.New(files.Deps{
		Resolver: rt.resolver,
		Search:   rt.search,
		Executor: rt.executor,
		Indexer:  rt.indexer,
		Gate:     rt.gate,
	},
		files.WithMaxResults(cfg.Limits.MaxResults),
		files.WithMaxReadBytes(cfg.Limits.MaxReadBytes),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build files pack: %w", err)
	}

	registry := memory.NewToolRegistry()
	if err := p.Install(registry); err != nil {
		store.Close()
		return nil, fmt.Errorf("install files pack: %w", err)
	}
	rt.dispatcher = application.NewDispatcher(registry)

	return rt, nil
}

// close releases the runtime's resources.
func (rt *runtime) close() {
	if err := rt.store.Close(); err != nil {
		logging.Warn().Add(logging.Err(err)).Msg("index store close failed")
	}
}
