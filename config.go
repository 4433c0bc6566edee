package roomservice

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,default=gpt-4o-mini"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type AgentConfig struct {
	ArtifactsMenuPath        string `env:"ARTIFACTS_MENU_PATH,default=artifacts/menu.json"`
	MaxIterations            int    `env:"MAX_ITERATIONS,default=10"`
	MaxConsecutiveToolErrors int    `env:"MAX_CONSECUTIVE_TOOL_ERRORS,default=3"`
}

type GatewayConfig struct {
	SimulateFailures bool `env:"GATEWAY_SIMULATE_FAILURES,default=false"`
	SimulateLatency  bool `env:"GATEWAY_SIMULATE_LATENCY,default=true"`
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY,required"`
	BaseURL string `env:"OPENAI_BASE_URL,default="`
}
