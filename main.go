package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mediavault/mediavault-go/api"
	"github.com/mediavault/mediavault-go/api/controllers"
	"github.com/mediavault/mediavault-go/api/notifyhub"
	"github.com/mediavault/mediavault-go/processing"
	"github.com/mediavault/mediavault-go/queue"
	"github.com/mediavault/mediavault-go/tool"
	"github.com/mediavault/mediavault-go/transfer"
	"github.com/mediavault/mediavault-go/types"
)

func main() {
	flags := tool.SetFlags()
	appCfg, err := tool.LoadConfig(flags.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlagOverrides(&appCfg, flags)
	tool.CurrentConfig = appCfg

	// initialize logger
	tool.InitLogger()
	if flags.Log == "" {
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(flags.Log) {
		case "dev":
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		case "prod":
			tool.DefaultLogger.SetLevel(log.InfoLevel)
		case "none":
			tool.DefaultLogger.SetLevel(log.FatalLevel)
		default:
			tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", flags.Log)
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		}
	}

	hub := notifyhub.New()
	store := queue.NewStore()
	orch := transfer.NewOrchestrator(store, transfer.NewClient(appCfg.APIBaseURL, appCfg.APIToken), hub, &appCfg)

	reconciler := processing.New(
		processing.NewAPIClient(appCfg.APIBaseURL, appCfg.APIToken),
		processing.NewFileStore(appCfg.StateDir, appCfg.UserID),
		time.Duration(appCfg.PollInterval)*time.Second,
		func(section string) {
			hub.Broadcast(&types.Notification{
				Type:    types.NotifyTypeBatchComplete,
				Message: "All uploaded documents finished analyzing",
				Data:    map[string]any{"section": section},
			})
		},
	)
	// Resume watching documents left analyzing by a previous session.
	if err := reconciler.Start(); err != nil {
		tool.DefaultLogger.Warnf("Failed to resume processing state: %v", err)
	}

	ctrl := controllers.New(store, orch, reconciler, hub, &appCfg)
	apiServer := api.NewServer(appCfg.Port, ctrl, hub)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	tool.DefaultLogger.Info("Shutting down")
	reconciler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		tool.DefaultLogger.Warnf("API server shutdown: %v", err)
	}
}
