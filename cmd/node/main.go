package main

import (
	"chordring/internal/bootstrap"
	"chordring/internal/client"
	"chordring/internal/config"
	"chordring/internal/domain"
	"chordring/internal/logger"
	zapfactory "chordring/internal/logger/zap"
	"chordring/internal/node"
	"chordring/internal/routingtable"
	"chordring/internal/server"
	"chordring/internal/store"
	"chordring/internal/telemetry"
	"chordring/internal/telemetry/lookuptrace"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
)

var defaultConfigPath = "config/node/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = &logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	lis, advertised, err := server.Listen(cfg.Ring.Mode, cfg.Node.Bind, cfg.Node.Host, cfg.Node.Port)
	if err != nil {
		lgr.Error("Fatal: failed to initialize listener", logger.F("err", err))
		os.Exit(1)
	}
	defer func() { _ = lis.Close() }()
	addr := lis.Addr().String()
	lgr.Debug("create listener", logger.F("addr", addr))

	space, err := domain.NewSpace(cfg.Ring.IDBits, cfg.Ring.FaultTolerance.SuccessorListSize)
	if err != nil {
		lgr.Error("failed to initialize identifier space", logger.F("err", err))
		os.Exit(1)
	}

	var id domain.ID
	if cfg.Node.Id == "" {
		id = space.NewIdFromString(advertised)
	} else {
		id, err = space.FromHexString(cfg.Node.Id)
		if err != nil {
			lgr.Error("invalid node ID in configuration", logger.F("err", err))
			os.Exit(1)
		}
	}
	self := &domain.Node{ID: id, Addr: advertised}
	lgr.Debug("generated node ID", logger.F("id", id.ToHexString(true)))
	lgr = lgr.Named("node").WithNode(self)
	lgr.Info("new node initializing")

	shutdownTracer := telemetry.InitTracer(cfg.Telemetry, "chordring-node", id)
	defer shutdownTracer(context.Background())

	rt := routingtable.New(
		self,
		space,
		cfg.Ring.FaultTolerance.SuccessorListSize,
		routingtable.WithLogger(lgr.Named("routingtable")),
	)
	lgr.Debug("initialized routing table")

	cp := client.New(
		cfg.Ring.FaultTolerance.FailureTimeout,
		client.WithLogger(lgr.Named("clientpool")),
	)
	lgr.Debug("initialized client pool")

	st := store.New(lgr.Named("store"))
	lgr.Debug("initialized in-memory store")

	n := node.New(
		rt,
		cp,
		st,
		cfg.Ring.Replication.Factor,
		cfg.Ring.FaultTolerance.OperationTimeout,
		node.WithLogger(lgr),
	)
	lgr.Debug("initialized node")

	var grpcOpts []grpc.ServerOption
	if cfg.Telemetry.Tracing.Enabled {
		grpcOpts = append(grpcOpts,
			grpc.ChainUnaryInterceptor(
				lookuptrace.ServerInterceptor(),
			),
		)
		lgr.Debug("gRPC tracing enabled (lookup-only)")
	}

	s, err := server.New(
		lis,
		n,
		grpcOpts,
		server.WithLogger(lgr.Named("server")),
	)
	if err != nil {
		lgr.Error("failed to initialize gRPC server", logger.F("err", err))
		os.Exit(1)
	}
	lgr.Debug("initialized gRPC server")

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.Start() }()
	lgr.Debug("server started")

	disco, err := newBootstrap(cfg.Ring.Bootstrap, lgr)
	if err != nil {
		lgr.Error("unsupported bootstrap configuration", logger.F("err", err))
		s.Stop()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	peers, err := disco.Discover(ctx)
	cancel()
	if err != nil {
		lgr.Error("failed to resolve bootstrap peers", logger.F("err", err))
		s.Stop()
		os.Exit(1)
	}
	lgr.Info("resolved bootstrap peers", logger.F("peers", peers))

	if len(peers) == 0 {
		rt.InitSingleNode()
		lgr.Info("no bootstrap peers found, starting a new ring")
	} else {
		joined := false
		var joinErr error
		for _, peer := range peers {
			joinCtx, joinCancel := context.WithTimeout(context.Background(), 10*time.Second)
			joinErr = n.Join(joinCtx, peer)
			joinCancel()
			if joinErr == nil {
				joined = true
				break
			}
			lgr.Warn("failed to join via bootstrap peer, trying next", logger.F("peer", peer), logger.F("err", joinErr))
		}
		if !joined {
			lgr.Error("failed to join ring via any bootstrap peer", logger.F("err", joinErr))
			s.Stop()
			os.Exit(1)
		}
		lgr.Debug("joined ring")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	err = disco.Register(ctx, self)
	cancel()
	if err != nil {
		lgr.Error("failed to register node", logger.F("err", err))
	} else {
		lgr.Info("node registered successfully")
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := disco.Deregister(ctx, self)
			cancel()
			if err != nil {
				lgr.Warn("failed to deregister node", logger.F("err", err))
			}
		}()
	}

	ctx, stabilizerStop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	n.StartStabilizers(ctx, cfg.Ring.FaultTolerance.StabilizationInterval, cfg.Ring.Fingers.FixInterval, cfg.Ring.Replication.FixInterval)
	lgr.Debug("stabilization workers started")

	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, stopping server gracefully...")
		stabilizerStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
			lgr.Info("server stopped gracefully")
		case <-shutdownCtx.Done():
			lgr.Warn("graceful stop timed out, forcing shutdown")
		}

	case err := <-serveErr:
		lgr.Error("gRPC server terminated unexpectedly", logger.F("err", err))
		stabilizerStop()
		os.Exit(1)
	}
}

// newBootstrap selects a peer-discovery mechanism from the bootstrap
// configuration's mode field.
func newBootstrap(cfg config.BootstrapConfig, lgr logger.Logger) (bootstrap.Bootstrap, error) {
	switch cfg.Mode {
	case "route53":
		return bootstrap.NewRoute53Bootstrap(cfg.Route53)
	case "dns":
		return bootstrap.NewDNSBootstrap(cfg, lgr.Named("bootstrap")), nil
	case "static":
		return bootstrap.NewStaticBootstrap(cfg.Peers), nil
	case "init":
		return bootstrap.NewStaticBootstrap(nil), nil
	default:
		return nil, fmt.Errorf("unsupported bootstrap mode %q", cfg.Mode)
	}
}
