package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nordunet/transcriber-adapter/internal/auth"
	"github.com/nordunet/transcriber-adapter/internal/config"
	"github.com/nordunet/transcriber-adapter/internal/reconcile"
	"github.com/nordunet/transcriber-adapter/internal/server"
	"github.com/nordunet/transcriber-adapter/internal/transcriber"
	"github.com/nordunet/transcriber-adapter/internal/vendorq"
	"github.com/nordunet/transcriber-adapter/pkg/log"
	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the adapter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Infof("starting adapter %s: worker %s", version, cfg.Service.WorkerID)
		defer zap.S().Info("adapter stopped")

		if err := cfg.Validate(); err != nil {
			zap.S().Fatalf("validating configuration: %v", err)
		}

		rep, err := reporter.New(cfg.Service.SentryDSN)
		if err != nil {
			zap.S().Fatalf("initializing error tracking: %v", err)
		}
		defer rep.Close()

		if err := auth.CheckTokenExpiry(cfg.Transcriber.Token, rep); err != nil {
			rep.Close()
			zap.S().Fatalf("checking transcriber token: %v", err)
		}

		models, err := config.LoadModelConfig(cfg.Service.ModelConfigFile)
		if err != nil {
			zap.S().Fatalf("loading model config: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue, err := vendorq.Connect(ctx, cfg.Vendor, rep)
		if err != nil {
			zap.S().Fatalf("connecting to vendor queue: %v", err)
		}

		jobs, err := transcriber.NewClient(cfg.Transcriber, rep)
		if err != nil {
			zap.S().Fatalf("creating transcriber client: %v", err)
		}

		ctrl := reconcile.NewController()
		handleSignals(ctrl)

		statusServer := server.New(cfg.Service.StatusAddress, cfg.Service.WorkerID, version, ctrl)
		statusServer.Start()
		defer statusServer.Stop()

		rec := reconcile.NewReconciler(queue, jobs, models, rep)
		interval := time.Duration(cfg.Service.PollInterval) * time.Second
		loop := reconcile.NewLoop(queue, rec, ctrl, rep, interval)

		return loop.Run(ctx)
	},
}

// handleSignals wires the process signals to the controller. The goroutine
// only flips controller state; the loop does the logging when it observes the
// change. A second interrupt forces exit.
func handleSignals(ctrl *reconcile.Controller) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	go func() {
		for s := range sig {
			switch s {
			case syscall.SIGUSR1:
				ctrl.Drain()
			case syscall.SIGUSR2:
				ctrl.Resume()
			default:
				if first := ctrl.RequestStop(); !first {
					os.Exit(1)
				}
			}
		}
	}()
}
