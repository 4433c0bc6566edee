package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"roomservice"
	"roomservice/agent"
	"roomservice/catalog"
	"roomservice/catalog/storage"
	"roomservice/gateway"
	"roomservice/llm/openai"
	"roomservice/suggest"
	"roomservice/tools"
	"roomservice/validation"
)

func main() {
	ctx := context.Background()

	var modelConfig roomservice.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var agentConfig roomservice.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var gatewayConfig roomservice.GatewayConfig
	if err := envdecode.Decode(&gatewayConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var openaiConfig roomservice.OpenAIConfig
	if err := envdecode.Decode(&openaiConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	ms := storage.NewFileMenuState(agentConfig.ArtifactsMenuPath)
	cat, err := catalog.Load(ctx, ms)
	if err != nil {
		slog.Error("SETUP: Failed to load menu catalog", "error", err)
		return
	}
	slog.Info("SETUP: Static menu data loaded at initialization", "items_count", len(cat.All()))

	engine := openai.NewClient(openaiConfig.APIKey, openaiConfig.BaseURL, openai.Options{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	})

	suggester := suggest.NewService(cat, engine)
	validator := validation.NewValidator(cat, suggester)

	gwOpts := []gateway.SimulatedOption{}
	if gatewayConfig.SimulateFailures {
		gwOpts = append(gwOpts, gateway.WithFailures())
	}
	if !gatewayConfig.SimulateLatency {
		gwOpts = append(gwOpts, gateway.WithoutLatency())
	}
	gw := gateway.NewSimulated(cat, gateway.NewSequence(), gwOpts...)

	registry, err := tools.NewRegistry(validator, gw)
	if err != nil {
		slog.Error("SETUP: Failed to create tool registry", "error", err)
		return
	}

	logger, cleanup, err := newTurnLogger(uuid.NewString())
	if err != nil {
		slog.Error("SETUP: Failed to create turn logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush turn log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := roomservice.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	orchestrator := agent.NewOrchestrator(
		engine,
		registry,
		agent.SystemPrompt(cat),
		agentConfig.MaxIterations,
		agentConfig.MaxConsecutiveToolErrors,
		logger,
	)

	tracer := tracerProvider.Tracer(roomservice.TracerNameAgent)
	ctx, span := tracer.Start(ctx, roomservice.TracerNameAgent, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
		attribute.Float64("model.top_p", float64(modelConfig.TopP)),
	))
	defer span.End()

	instrumented := agent.NewInstrumentedOrchestrator(orchestrator, tracer, meterProvider.Meter(roomservice.TracerNameAgent))

	chat(ctx, instrumented)
}

// chat runs the interactive session loop until the user quits or the session
// becomes unrecoverable.
func chat(ctx context.Context, a roomservice.Agent) {
	fmt.Println("Welcome to Room Service! Type 'quit' to exit.")
	fmt.Println("How may I assist you today?")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		userInput := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(userInput) {
		case "quit", "exit", "bye":
			fmt.Println("\nThank you for using Room Service. Have a great day!")
			return
		case "":
			continue
		}

		reply, err := a.Turn(ctx, userInput)
		if err != nil {
			if errors.Is(err, agent.ErrSessionFailed) {
				fmt.Printf("\nAgent: %s\n", agent.EscalationMessage)
				return
			}
			fmt.Printf("\nError: %s\n", err)
			fmt.Println("Please try again.")
			continue
		}

		fmt.Printf("\nAgent: %s\n", reply)
	}
}

func newTurnLogger(sessionID string) (roomservice.TurnLogger, func() error, error) {
	logFilePath := roomservice.NewTurnLogFilePath(sessionID)
	if err := os.MkdirAll("./logs", 0755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := roomservice.NewFileTurnLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
