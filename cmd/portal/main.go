// File path: cmd/portal/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nicodishanthj/advisor_portal/internal/api"
	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/data/orchestrator"
	"github.com/nicodishanthj/advisor_portal/internal/llm"
)

func main() {
	logger := common.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logger.Warn("portal: .env file not loaded", "error", err)
	} else {
		logger.Info("portal: environment loaded from .env")
	}

	addr := flag.String("addr", defaultAddr(), "listen address")
	seedPath := flag.String("seed", "", "path to a YAML seed catalog (empty uses the embedded seed)")
	inboxPath := flag.String("inbox", "", "path to the advisor inbox database (empty keeps it in memory)")
	historyWindow := flag.Int("history-window", 0, "number of prior chat turns sent to the model (0 uses defaults)")
	shutdownTimeout := flag.Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests on shutdown")
	flag.Parse()

	logger.Info("portal: startup initiated", "addr", *addr)

	orchCfg, err := orchestrator.LoadConfig()
	if err != nil {
		logger.Error("portal: orchestrator config load failed", "error", err)
		fmt.Println("orchestrator config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*seedPath); trimmed != "" {
		orchCfg.SeedPath = trimmed
	}
	if trimmed := strings.TrimSpace(*inboxPath); trimmed != "" {
		orchCfg.InboxPath = trimmed
	}
	if *historyWindow > 0 {
		orchCfg.HistoryWindow = *historyWindow
	}

	provider := llm.NewProvider(ctx)
	logger.Info("portal: llm provider ready", "provider", provider.Name())

	orch, err := orchestrator.New(ctx, orchCfg, orchestrator.WithProvider(provider))
	if err != nil {
		logger.Error("portal: orchestrator initialization failed", "error", err)
		fmt.Println("orchestrator error:", err)
		os.Exit(1)
	}
	defer orch.Close()

	server, err := api.NewServer(orch)
	if err != nil {
		logger.Error("portal: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("portal: shutdown failed", "error", err)
		}
	}()

	logger.Info("portal: server listening", "addr", *addr, "health", "/healthz", "vars", "/debug/vars")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("portal: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("portal: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
	logger.Info("portal: shutdown complete")
}

func defaultAddr() string {
	if env := strings.TrimSpace(os.Getenv("PORTAL_ADDR")); env != "" {
		return env
	}
	return ":8081"
}
