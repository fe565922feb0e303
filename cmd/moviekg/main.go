// Command moviekg serves the movie knowledge graph: a REST API with
// graph-augmented question answering, and optionally the same query
// operations as MCP tools over stdio.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/StephenLER/MAP/internal/mcp"
	"github.com/StephenLER/MAP/internal/server"
	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/llm"
	"github.com/StephenLER/MAP/pkg/metrics"
	"github.com/StephenLER/MAP/pkg/qa"
)

func main() {
	httpAddr := flag.String("http-addr", ":8080", "Address and port for the REST API server (e.g. :8080)")
	graphPath := flag.String("graph-path", "imdb_kg.bin", "Path of the graph artifact to load")
	configPath := flag.String("config", "", "Path of the YAML service configuration")
	authToken := flag.String("auth-token", "", "Bearer token protecting the API (empty disables auth)")
	mcpMode := flag.Bool("mcp", false, "Serve MCP tools over stdio instead of HTTP")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags set on the command line win over the configuration file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["http-addr"] || cfg.HTTPAddr == "" {
		cfg.HTTPAddr = *httpAddr
	}
	if set["graph-path"] || cfg.GraphPath == "" {
		cfg.GraphPath = *graphPath
	}
	if set["auth-token"] {
		cfg.AuthToken = *authToken
	}

	store, err := kg.Load(cfg.GraphPath)
	if err != nil {
		logger.Error("failed to load graph artifact", "path", cfg.GraphPath, "error", err)
		os.Exit(1)
	}
	logger.Info("graph loaded", "path", cfg.GraphPath,
		"nodes", store.NodeCount(), "edges", store.EdgeCount())

	for t, count := range store.CountByType() {
		metrics.GraphNodes.WithLabelValues(string(t)).Set(float64(count))
	}
	metrics.GraphEdges.Set(float64(store.EdgeCount()))

	facade := kg.NewFacade(store)

	if *mcpMode {
		runMCP(facade, logger)
		return
	}

	qaService, agent := buildQA(facade, cfg, logger)

	srv := server.NewServer(facade, qaService, agent, cfg.HTTPAddr, cfg.AuthToken, logger)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case sig := <-shutdownChan:
		logger.Info("shutdown signal received", "signal", sig.String())
		srv.Shutdown()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}

// buildQA wires the QA pipeline and the agent when an LLM is configured.
// Both stay nil otherwise; the server then reports 503 on those endpoints.
func buildQA(facade *kg.Facade, cfg *server.Config, logger *slog.Logger) (*qa.Service, *qa.Agent) {
	if cfg.PlanLLM.BaseURL == "" {
		logger.Info("no LLM configured, QA endpoints disabled")
		return nil, nil
	}

	planClient := llm.NewClient(cfg.PlanLLM)

	var answerClient llm.Client = planClient
	if cfg.AnswerLLM.BaseURL != "" {
		answerClient = llm.NewClient(cfg.AnswerLLM)
	}

	service := qa.NewService(facade, planClient, answerClient, logger)
	agent := qa.NewAgent(facade, planClient, answerClient, cfg.AgentMaxSteps, logger)
	return service, agent
}

func runMCP(facade *kg.Facade, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("serving MCP tools over stdio")
	if err := mcp.NewMCPServer(facade).Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server failed", "error", err)
		os.Exit(1)
	}
}
