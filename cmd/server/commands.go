package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chadiek/agentic-interview/internal/agent"
	"github.com/chadiek/agentic-interview/internal/config"
	"github.com/chadiek/agentic-interview/internal/diagnostics"
	"github.com/chadiek/agentic-interview/internal/httpserver"
	"github.com/chadiek/agentic-interview/internal/llm"
	"github.com/chadiek/agentic-interview/internal/transcript"
	"github.com/chadiek/agentic-interview/internal/voice"
)

// app is the wired object graph for one process.
type app struct {
	bridge     *voice.Bridge
	controller *agent.Controller
	server     *httpserver.Server
}

func buildApp(s config.Settings, log *zap.Logger) *app {
	res := config.Resolve(config.ResolveOptions{EnvMappingPath: s.EnvMappingPath})
	if res.StaticCredential == "" {
		log.Warn("VITE_GROQ_API_KEY not set - a dev key must be entered in the UI before calls will work")
	}
	creds := config.NewCredentials(res.StaticCredential)
	client := llm.NewClient(res.APIBaseURL, s.Model, s.RequestShape, creds, log.Named("llm"))
	bridge := voice.NewBridge(log.Named("voice"))
	ctrl := agent.NewController(client, transcript.NewStore(agent.SystemSeed, s.ReseedOnClear), creds, bridge, agent.Options{
		RearmAfterEvaluation: s.RearmAfterEvaluation,
		Logger:               log.Named("agent"),
		Events:               bridge,
	})
	bridge.SetHandler(ctrl)

	srv := httpserver.New(httpserver.Deps{
		Controller:  ctrl,
		Credentials: creds,
		Resolution:  res,
		Settings:    s,
		Voice:       bridge,
		Logger:      log.Named("http"),
	})

	log.Info("config resolved",
		zap.String("api_url", res.APIBaseURL),
		zap.String("url_source", string(res.URLSource)),
		zap.String("credential_source", string(res.CredentialSource)),
		zap.String("model", s.Model),
		zap.String("request_shape", string(s.RequestShape)))

	return &app{bridge: bridge, controller: ctrl, server: srv}
}

func (a *app) close() {
	a.bridge.Close()
	a.controller.Close()
}

func runServe(cmd *cobra.Command, args []string) error {
	a := buildApp(settings, logger)
	defer a.close()

	server := &http.Server{
		Addr:              settings.HTTPAddress,
		Handler:           a.server.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", settings.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			_ = server.Close()
		}
		return nil
	})

	return g.Wait()
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	res := config.Resolve(config.ResolveOptions{EnvMappingPath: settings.EnvMappingPath})
	report := diagnostics.Build(res, config.NewCredentials(res.StaticCredential), settings.Model, settings.RequestShape)
	fmt.Fprintln(cmd.OutOrStdout(), report.Text())
	return nil
}

func runSelfTest(cmd *cobra.Command, args []string) error {
	res := config.Resolve(config.ResolveOptions{EnvMappingPath: settings.EnvMappingPath})
	creds := config.NewCredentials(res.StaticCredential)
	client := llm.NewClient(res.APIBaseURL, settings.Model, settings.RequestShape, creds, logger.Named("llm"))
	result := diagnostics.SelfTest(cmd.Context(), client, creds)
	fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", result.Status)
	if result.Output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Output)
	}
	if result.Status != diagnostics.StatusOK {
		return errors.New("self-test did not succeed")
	}
	return nil
}
