package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/angas/essentwatch-go/config"
	"github.com/angas/essentwatch-go/database"
	"github.com/angas/essentwatch-go/essent"
	"github.com/angas/essentwatch-go/logging"
	"github.com/angas/essentwatch-go/mqtt"
	"github.com/angas/essentwatch-go/task"
	"github.com/angas/essentwatch-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("essentwatch is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	var publisher *mqtt.Publisher
	if cnfg.Mqtt.Enabled() {
		publisher = mqtt.New(cnfg.Mqtt)
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer publisher.Disconnect()
	} else {
		logger.Info("mqtt host not configured, publishing disabled")
	}

	opts := []essent.Option{}
	if cnfg.Essent.GetBaseUrl() != "" {
		opts = append(opts, essent.WithBaseURL(cnfg.Essent.GetBaseUrl()))
	}
	client := essent.New(&http.Client{Timeout: cnfg.Essent.GetTimeout()}, opts...)

	tasks := task.NewTasks(db, client, publisher, cnfg)
	tasks.Run()
	defer tasks.Stop()

	config.Watch(logger.With("module", "config"), func(fresh *config.AppConfig) {
		// Cron specs and listen address need a restart, but retention and
		// timeouts are read per run so swapping the struct is enough.
		*cnfg = *fresh
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server := www.StartServer(db, cnfg.Api)
	server.Run(ctx)
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
