package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"roomservice"
	"roomservice/agent"
	"roomservice/catalog"
	"roomservice/catalog/storage"
	"roomservice/gateway"
	"roomservice/llm/bedrock"
	"roomservice/suggest"
	"roomservice/tools"
	"roomservice/validation"
)

type Params struct {
	UserInput string `json:"user_input"`
}

type Results struct {
	Reply string `json:"reply"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
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

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		menuKey := os.Getenv("ARTIFACTS_MENU_S3_KEY")
		if s3Bucket == "" || menuKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET and ARTIFACTS_MENU_S3_KEY must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		ms := storage.NewS3MenuState(s3Client, s3Bucket, menuKey)
		cat, err := catalog.Load(ctx, ms)
		if err != nil {
			slog.Error("SETUP: Failed to load menu catalog from S3", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Menu data loaded from S3", "items_count", len(cat.All()))

		brc, err := newBedrockRuntimeClient(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to create Bedrock client", "error", err)
			return Results{}, err
		}

		engine := bedrock.NewClient(brc, bedrock.Options{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})

		suggester := suggest.NewService(cat, engine)
		validator := validation.NewValidator(cat, suggester)

		gwOpts := []gateway.SimulatedOption{gateway.WithoutLatency()}
		if gatewayConfig.SimulateFailures {
			gwOpts = append(gwOpts, gateway.WithFailures())
		}
		gw := gateway.NewSimulated(cat, gateway.NewSequence(), gwOpts...)

		registry, err := tools.NewRegistry(validator, gw)
		if err != nil {
			slog.Error("SETUP: Failed to create tool registry", "error", err)
			return Results{}, err
		}

		orchestrator := agent.NewOrchestrator(
			engine,
			registry,
			agent.SystemPrompt(cat),
			agentConfig.MaxIterations,
			agentConfig.MaxConsecutiveToolErrors,
			roomservice.NewStdoutTurnLogger(),
		)

		reply, err := orchestrator.Turn(ctx, params.UserInput)
		if err != nil {
			slog.Error("RESULT: Error handling turn", "error", err)
			return Results{}, err
		}

		return Results{Reply: reply}, nil
	}

	lambda.Start(fn)
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}
