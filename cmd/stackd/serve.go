package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/mangohow/gostack/internal/service"
	"github.com/mangohow/gostack/llog"
	transport "github.com/mangohow/gostack/transport/http"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr        string
	logLevel    string
	logEncoding string
	logFile     string
	slotBudget  int
}

var serveOpts serveOptions

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the stack http server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveOpts)
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveOpts.addr, "addr", ":8000", "listen address")
	flags.StringVar(&serveOpts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&serveOpts.logEncoding, "log-encoding", "json", "log encoding (console, json)")
	flags.StringVar(&serveOpts.logFile, "log-file", "", "also write logs to this file, rotated")
	flags.IntVar(&serveOpts.slotBudget, "slot-budget", 0, "total element slots shared by all stacks, 0 means unlimited")
}

func runServe(ctx context.Context, opts serveOptions) error {
	log, sync, err := llog.InitLogger(
		llog.WithLevel(opts.logLevel),
		llog.WithEncoding(opts.logEncoding),
		llog.WithFilename(opts.logFile),
		llog.WithServiceName("stackd"),
	)
	if err != nil {
		return err
	}
	defer sync()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.NewStackService(
		service.WithLogger(log),
		service.WithSlotBudget(opts.slotBudget),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warnf("release stacks: %v", err)
		}
	}()

	srv := transport.New(
		transport.WithAddr(opts.addr),
		transport.WithLogger(logrus.StandardLogger()),
		transport.WithMiddleware(
			llog.LoggerInjectMiddleware(""),
			llog.RequestLoggingMiddleware(),
		),
	)
	service.RegisterStackHTTPServer(srv, svc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
