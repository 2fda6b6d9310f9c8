package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gauntlet/internal/common/db"
	"gauntlet/internal/judge/compiler"
	"gauntlet/internal/judge/sandbox/engine"
	"gauntlet/internal/judge/sandbox/runner"
	"gauntlet/internal/judge/service"
	"gauntlet/internal/problemset"
	"gauntlet/internal/server"
	"gauntlet/internal/session"
	"gauntlet/internal/store"
	"gauntlet/pkg/utils/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "gauntlet-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	appCfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	if appCfg.Logger.Service == "" {
		appCfg.Logger.Service = "gauntlet"
	}
	if err := logger.Init(appCfg.Logger); err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	secrets, err := loadSecrets()
	if err != nil {
		logger.Error(context.Background(), "boot failed", zap.Error(err))
		return err
	}
	codec, err := session.New(secrets)
	if err != nil {
		logger.Error(context.Background(), "init session codec failed", zap.Error(err))
		return err
	}

	sqlDB, err := db.Open(appCfg.Database)
	if err != nil {
		logger.Error(context.Background(), "init database failed", zap.Error(err))
		return err
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	playerStore := store.New(sqlDB)
	if err := playerStore.Init(context.Background()); err != nil {
		logger.Error(context.Background(), "apply schema failed", zap.Error(err))
		return err
	}

	problems := problemset.Default()
	if appCfg.Judge.ProblemFile != "" {
		problems, err = problemset.LoadFile(appCfg.Judge.ProblemFile)
		if err != nil {
			logger.Error(context.Background(), "load problem set failed",
				zap.String("path", appCfg.Judge.ProblemFile), zap.Error(err))
			return err
		}
	}
	logger.Info(context.Background(), "problem set loaded", zap.Int("problems", problems.Len()))

	eng := engine.New(appCfg.Sandbox)
	testRunner := runner.New(eng, appCfg.Judge.Limits)
	compileDriver := compiler.New(appCfg.Judge.CompileTimeout)
	judgeSvc := service.NewJudgeService(compileDriver, testRunner, problems)
	submitSvc := service.NewSubmitService(codec, playerStore, judgeSvc, problems)

	router := server.BuildRouter(server.Deps{
		Codec:   codec,
		Submit:  submitSvc,
		Players: playerStore,
	})
	httpServer := &http.Server{
		Addr:         appCfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
		IdleTimeout:  appCfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
			return err
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
	return nil
}
