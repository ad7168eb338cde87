package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chadiek/agentic-interview/internal/config"
)

var (
	settings config.Settings
	logger   *zap.Logger

	flagAddr         string
	flagModel        string
	flagShape        string
	flagEnvFile      string
	flagEnvMapping   string
	flagLogLevel     string
	flagRearm        bool
	flagReseed       bool
	flagAuthPassword string
)

var rootCmd = &cobra.Command{
	Use:   "interview-agent",
	Short: "Agentic interview assistant: plan, ask, listen, evaluate",
	Long: `Serves a browser chat UI that runs a voice-enabled technical interview.

The model endpoint and key are resolved from build-time values, an injected
env mapping file (env-config.yaml), then the environment (VITE_GROQ_API_URL,
VITE_GROQ_API_KEY). Run without arguments to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bootLogger := zap.NewNop()
		config.LoadDotEnv(bootLogger, flagEnvFile)
		settings = config.Load(bootLogger)
		applyFlags(cmd)

		var err error
		logger, err = newLogger(settings.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and browser voice bridge",
	RunE:  runServe,
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Print which configuration sources were used and whether a key is present",
	RunE:  runDiagnose,
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Send one trivial prompt to the completion endpoint",
	RunE:  runSelfTest,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAddr, "addr", "", "HTTP listen address (env HTTP_ADDRESS)")
	pf.StringVar(&flagModel, "model", "", "model id (env INTERVIEW_MODEL)")
	pf.StringVar(&flagShape, "request-shape", "", "request body shape: chat or prompt (env INTERVIEW_REQUEST_SHAPE)")
	pf.StringVar(&flagEnvFile, "env-file", config.DefaultEnvFile, ".env file loaded into the environment when present")
	pf.StringVar(&flagEnvMapping, "env-mapping", "", "injected _env_ mapping file (env INTERVIEW_ENV_MAPPING)")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.BoolVar(&flagRearm, "rearm-after-evaluation", true, "listen again after an evaluation has been spoken")
	pf.BoolVar(&flagReseed, "reseed-on-clear", true, "keep the system message when the conversation is cleared")
	pf.StringVar(&flagAuthPassword, "auth-password", "", "require this password on API calls (env AUTH_PASSWORD)")

	rootCmd.AddCommand(serveCmd, diagnoseCmd, selftestCmd)
}

// applyFlags lets explicitly set flags win over environment values.
func applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("addr") {
		settings.HTTPAddress = flagAddr
	}
	if f.Changed("model") {
		settings.Model = flagModel
	}
	if f.Changed("request-shape") {
		settings.RequestShape = config.ParseRequestShape(flagShape)
	}
	if f.Changed("env-mapping") {
		settings.EnvMappingPath = flagEnvMapping
	}
	if f.Changed("log-level") {
		settings.LogLevel = flagLogLevel
	}
	if f.Changed("rearm-after-evaluation") {
		settings.RearmAfterEvaluation = flagRearm
	}
	if f.Changed("reseed-on-clear") {
		settings.ReseedOnClear = flagReseed
	}
	if f.Changed("auth-password") {
		settings.AuthPassword = flagAuthPassword
	}
	settings.EnvFile = flagEnvFile
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
