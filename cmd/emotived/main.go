// Command emotived serves the emotive ledger over gRPC. It opens the SQLite
// record store, wires the transition engine, and exposes the EmotiveLedger
// service until SIGINT or SIGTERM.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/config"
	"github.com/neuroemotive/emotive-core/internal/engine"
	"github.com/neuroemotive/emotive-core/internal/gate"
	"github.com/neuroemotive/emotive-core/internal/service"
	"github.com/neuroemotive/emotive-core/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to emotived.yaml")
	dbPath := flag.String("db", "", "override database path")
	listen := flag.String("listen", "", "override listen address")
	authority := flag.String("authority", "", "override registry authority")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Flags win over file and environment values.
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *authority != "" {
		cfg.Registry.Authority = *authority
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("initialize logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.NewStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal("open store", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer st.Close()

	eng := engine.New(st, engine.Config{
		Gate:  gate.GateConfig{MaxTransferArousal: cfg.Gate.MaxTransferArousal},
		Asset: asset.Policy{MinConfidence: cfg.Asset.MinConfidence},
	}, logger)

	if cfg.Registry.Authority != "" {
		reg, err := eng.InitializeRegistry(cfg.Registry.Authority)
		if err != nil {
			logger.Fatal("initialize registry", zap.Error(err))
		}
		logger.Info("registry ready",
			zap.String("authority", reg.Authority),
			zap.Uint64("total_records", reg.TotalRecords))
	}

	lis, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", cfg.Server.Listen), zap.Error(err))
	}

	srv := grpc.NewServer()
	service.Register(srv, eng)

	go func() {
		logger.Info("emotived serving",
			zap.String("addr", cfg.Server.Listen),
			zap.String("db", cfg.Database.Path))
		if err := srv.Serve(lis); err != nil {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	srv.GracefulStop()
	logger.Info("emotived stopped")
}

// #endregion main

// #region logger

func buildLogger(level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	switch level {
	case "debug":
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zc.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// #endregion logger
