package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// RequestShape selects the body layout sent to the completion endpoint.
type RequestShape string

const (
	// ShapeChat sends {model, messages, ...}.
	ShapeChat RequestShape = "chat"
	// ShapePrompt sends {model, prompt, max_tokens, temperature}.
	ShapePrompt RequestShape = "prompt"
)

// ParseRequestShape maps a flag or env value to a RequestShape. Unknown values fall back to chat.
func ParseRequestShape(s string) RequestShape {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prompt", "completion", "completions":
		return ShapePrompt
	default:
		return ShapeChat
	}
}

// Settings holds service configuration that is not part of the credential chain.
type Settings struct {
	HTTPAddress          string
	Model                string
	RequestShape         RequestShape
	RearmAfterEvaluation bool
	ReseedOnClear        bool
	AuthPassword         string
	LogLevel             string
	EnvFile              string
	EnvMappingPath       string
}

const (
	DefaultHTTPAddress    = ":8080"
	DefaultModel          = "llama-3.1-8b-instant"
	DefaultEnvFile        = ".env"
	DefaultEnvMappingPath = "env-config.yaml"
)

// LoadDotEnv loads path into the process environment when the file exists.
// A missing file is normal in deployed environments and is only logged at debug level.
func LoadDotEnv(logger *zap.Logger, path string) {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		logger.Debug("no .env file loaded", zap.String("path", path), zap.Error(err))
	}
}

// Load reads environment variables and returns Settings with sane defaults.
func Load(logger *zap.Logger) Settings {
	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = DefaultHTTPAddress
	}

	model := os.Getenv("INTERVIEW_MODEL")
	if model == "" {
		model = DefaultModel
	}

	mapping := os.Getenv("INTERVIEW_ENV_MAPPING")
	if mapping == "" {
		mapping = DefaultEnvMappingPath
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	s := Settings{
		HTTPAddress:          addr,
		Model:                model,
		RequestShape:         ParseRequestShape(os.Getenv("INTERVIEW_REQUEST_SHAPE")),
		RearmAfterEvaluation: envBool("INTERVIEW_REARM_AFTER_EVALUATION", true),
		ReseedOnClear:        envBool("INTERVIEW_RESEED_ON_CLEAR", true),
		AuthPassword:         os.Getenv("AUTH_PASSWORD"),
		LogLevel:             level,
		EnvFile:              DefaultEnvFile,
		EnvMappingPath:       mapping,
	}
	logger.Debug("settings loaded",
		zap.String("http_address", s.HTTPAddress),
		zap.String("model", s.Model),
		zap.String("request_shape", string(s.RequestShape)))
	return s
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
