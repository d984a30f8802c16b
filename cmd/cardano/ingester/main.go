package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/genesis"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/perf"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/service/ingester"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/source/relay"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/source/replay"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/taskgraph"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/tasks"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-cardano/pkg/batcher"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	Network         model.Network `long:"network" env:"CARDANO_INGESTER_NETWORK" description:"network name" required:"true" choice:"mainnet" choice:"preprod" choice:"preview"`
	PostgresDSN     string        `long:"postgres-dsn" env:"CARDANO_INGESTER_POSTGRES_DSN" description:"Postgres DSN" required:"true"`
	ClickhouseDSN   string        `long:"clickhouse-dsn" env:"CARDANO_INGESTER_CLICKHOUSE_DSN" description:"ClickHouse DSN for epoch performance reports; empty disables them"`
	PlanPath        string        `long:"plan" env:"CARDANO_INGESTER_PLAN" description:"execution plan TOML file; every task runs when empty"`
	StartFrom       string        `long:"start-from" env:"CARDANO_INGESTER_START_FROM" description:"hash of the block to restart ingestion at; latest stored block when empty"`
	GenesisHash     string        `long:"genesis-hash" env:"CARDANO_INGESTER_GENESIS_HASH" description:"override of the network genesis hash"`
	IntersectPoints int           `long:"intersect-points" env:"CARDANO_INGESTER_INTERSECT_POINTS" description:"number of recent points offered to the source on resume" default:"1"`
	ArtifactDir     string        `long:"artifact-dir" env:"CARDANO_INGESTER_ARTIFACT_DIR" description:"directory for blocks that needed the header-only decoder" default:"."`

	Source           string        `long:"source" env:"CARDANO_INGESTER_SOURCE" description:"chain event source" choice:"relay" choice:"replay" default:"relay"`
	RelayURL         string        `long:"relay-url" env:"CARDANO_INGESTER_RELAY_URL" description:"websocket URL of the chain relay" default:"ws://127.0.0.1:1337/chainsync"`
	ReconnectInitial time.Duration `long:"reconnect-initial" env:"CARDANO_INGESTER_RECONNECT_INITIAL" description:"first relay reconnect delay" default:"1s"`
	ReconnectMax     time.Duration `long:"reconnect-max" env:"CARDANO_INGESTER_RECONNECT_MAX" description:"longest relay reconnect delay" default:"1m"`
	MaxReconnects    int           `long:"max-reconnects" env:"CARDANO_INGESTER_MAX_RECONNECTS" description:"connection attempts after a lost relay connection before giving up; 0 retries forever"`
	ReplayPath       string        `long:"replay-path" env:"CARDANO_INGESTER_REPLAY_PATH" description:"NDJSON capture replayed by the replay source"`
	ReplayRPS        int           `long:"replay-rps" env:"CARDANO_INGESTER_REPLAY_RPS" description:"events per second for the replay source; 0 is unlimited"`
	RecordPath       string        `long:"record-path" env:"CARDANO_INGESTER_RECORD_PATH" description:"append every received event to this NDJSON capture"`

	ReportInterval time.Duration `long:"report-interval" env:"CARDANO_INGESTER_REPORT_INTERVAL" description:"flush period of epoch reports" default:"5s"`

	HTTPAddr string `long:"http-addr" env:"CARDANO_INGESTER_HTTP_ADDR" description:"address serving /metrics, /status and /healthz" default:":2112"`
	GRPCAddr string `long:"grpc-addr" env:"CARDANO_INGESTER_GRPC_ADDR" description:"address of the gRPC health service" default:":8000"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger.With(zap.String("network", string(cfg.Network)))); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("cardano ingester failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	health := transport.NewHealth()
	status := transport.NewStatus(cfg.Network)
	if err := startServers(ctx, cfg, health, status, logger); err != nil {
		return err
	}
	defer health.Shutdown()

	plan, err := loadPlan(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("execution plan loaded", zap.Strings("tasks", plan.Names()))

	repo, err := postgres.NewRepository(cfg.PostgresDSN, metrics.NewPostgresRepository(cfg.Network))
	if err != nil {
		return fmt.Errorf("init postgres repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close postgres repository", zap.Error(err))
		}
	}()
	if err := repo.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	boot, err := genesis.New(cfg.Network, cfg.GenesisHash, logger)
	if err != nil {
		return fmt.Errorf("init genesis: %w", err)
	}

	sinkMetrics := metrics.NewCardanoSink(cfg.Network)
	taskPerf := perf.NewAggregator()
	sinkCfg := ingester.SinkConfig{
		Network:         cfg.Network,
		Repository:      repo,
		Decoder:         ledger.NewDecoder(logger.Named("decoder"), ledger.FileArtifactWriter{Dir: cfg.ArtifactDir}),
		Executor:        taskgraph.NewExecutor(plan, taskPerf, sinkMetrics, logger),
		Genesis:         boot,
		Metrics:         sinkMetrics,
		Tasks:           taskPerf,
		IntersectPoints: cfg.IntersectPoints,
	}

	if cfg.ClickhouseDSN != "" {
		chRepo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init clickhouse repository: %w", err)
		}
		defer func() {
			if err := chRepo.Close(); err != nil {
				logger.Warn("close clickhouse repository", zap.Error(err))
			}
		}()
		writer := clickhouse.NewReportWriter(chRepo, logger, batcher.Config{Interval: cfg.ReportInterval})
		writer.Start(ctx)
		defer writer.Stop()
		sinkCfg.Reports = writer
	}

	sink, err := ingester.NewCardanoSink(sinkCfg, logger)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}

	src, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	svc, err := ingester.NewService(src, sink, cfg.Network, cfg.StartFrom, logger)
	if err != nil {
		return err
	}
	svc.SetTracker(status)

	health.SetServing(true)
	defer health.SetServing(false)
	return svc.Run(ctx)
}

func loadPlan(cfg config, logger *zap.Logger) (*taskgraph.Plan, error) {
	if cfg.PlanPath == "" {
		plan, err := tasks.ParsePlan(tasks.DefaultPlanTOML, cfg.Network, logger)
		if err != nil {
			return nil, fmt.Errorf("build default plan: %w", err)
		}
		return plan, nil
	}
	plan, err := tasks.LoadPlan(cfg.PlanPath, cfg.Network, logger)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return plan, nil
}

func newSource(cfg config, logger *zap.Logger) (chain.Source, error) {
	var src chain.Source
	switch cfg.Source {
	case "replay":
		if cfg.ReplayPath == "" {
			return nil, errors.New("replay source needs --replay-path")
		}
		src = replay.New(cfg.ReplayPath, cfg.ReplayRPS, metrics.NewChainSource("replay", cfg.Network), logger)
	default:
		src = relay.New(relay.Config{
			URL:            cfg.RelayURL,
			BackoffInitial: cfg.ReconnectInitial,
			BackoffMax:     cfg.ReconnectMax,
			MaxReconnects:  cfg.MaxReconnects,
			KeepPoints:     cfg.IntersectPoints,
		}, metrics.NewChainSource("relay", cfg.Network), logger)
	}

	if cfg.RecordPath == "" {
		return src, nil
	}
	rec, err := replay.NewRecorder(src, cfg.RecordPath)
	if err != nil {
		return nil, fmt.Errorf("init recorder: %w", err)
	}
	return rec, nil
}
