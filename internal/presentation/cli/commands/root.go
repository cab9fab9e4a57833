// Package commands implements the CLI commands for tokcount.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/tokcount/internal/application"
	"github.com/jbctechsolutions/tokcount/internal/application/counting"
	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
	"github.com/jbctechsolutions/tokcount/internal/domain/tokens"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/config"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/filesystem"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/logging"
	"github.com/jbctechsolutions/tokcount/internal/presentation/cli/output"
)

// Version information - set at build time via ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// GlobalFlags holds the global CLI flags.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	Verbose    bool

	PricingFile string
	EnvFile     string

	AnthropicAPIKey string
	GeminiAPIKey    string
	GeminiProject   string
	GeminiLocation  string
	UseVertexAI     bool
}

// Credentials returns the credentials given on the command line.
func (g *GlobalFlags) Credentials() counting.Credentials {
	return counting.Credentials{
		AnthropicAPIKey: g.AnthropicAPIKey,
		GeminiAPIKey:    g.GeminiAPIKey,
		GeminiProjectID: g.GeminiProject,
		GeminiLocation:  g.GeminiLocation,
		UseVertexAI:     g.UseVertexAI,
	}
}

// AppContext holds the application runtime context.
type AppContext struct {
	Config        *config.Config
	Formatter     *output.Formatter
	Flags         *GlobalFlags
	Container     *application.Container
	CorrelationID string
}

// countFlags are the flags shared by the count and watch commands.
type countFlags struct {
	model string
	cost  bool
	quiet bool
}

func (c *countFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.model, "model", "m", "", "model name (default: the provider's default model)")
	cmd.Flags().BoolVarP(&c.cost, "cost", "c", false, "estimate the input cost in USD")
	cmd.Flags().BoolVarP(&c.quiet, "quiet", "q", false, "print only tokens[,cost]")
}

var (
	globalFlags GlobalFlags
	appCtx      *AppContext
	appCtxMu    sync.RWMutex // Protects appCtx for thread-safe access
)

// NewRootCmd creates the root command for the tokcount CLI.
func NewRootCmd() *cobra.Command {
	var flags countFlags
	var inputFile string

	rootCmd := &cobra.Command{
		Use:   "tokcount <provider> [text|-]",
		Short: "Count LLM tokens for OpenAI, Anthropic and Gemini",
		Long: `tokcount counts the tokens a piece of text uses with a given LLM provider.

OpenAI counts are computed offline with the model's tiktoken encoding.
Anthropic and Gemini counts come from each provider's count-tokens API and
need credentials (ANTHROPIC_API_KEY, GOOGLE_API_KEY or GEMINI_API_KEY).

With --cost the input price of those tokens is estimated from a built-in
price table, optionally extended with --pricing.`,
		Example: `  tokcount openai "Hello, world!"
  tokcount anthropic --file prompt.txt --cost
  cat prompt.txt | tokcount gemini - -m gemini-2.5-flash -q -c`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "help", "version", "completion":
				return nil
			}
			if cmd == cmd.Root() && len(args) == 0 {
				return nil
			}
			return initializeApp(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return Shutdown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCount(cmd, args, inputFile, flags)
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "config file path (default: ~/.tokcount/config.yaml)")
	pf.StringVarP(&globalFlags.Output, "output", "o", "text", "output format: text, json")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "enable debug logging on stderr")
	pf.StringVar(&globalFlags.PricingFile, "pricing", "", "extra price table (.yaml, .yml or models.dev .json)")
	pf.StringVar(&globalFlags.EnvFile, "env-file", "", "load environment variables from this file (default: ./.env if present)")
	pf.StringVar(&globalFlags.AnthropicAPIKey, "anthropic-api-key", "", "Anthropic API key (default: $ANTHROPIC_API_KEY)")
	pf.StringVar(&globalFlags.GeminiAPIKey, "gemini-api-key", "", "Gemini API key (default: $GOOGLE_API_KEY or $GEMINI_API_KEY)")
	pf.StringVar(&globalFlags.GeminiProject, "gemini-project", "", "Google Cloud project for Vertex AI (default: $GOOGLE_CLOUD_PROJECT)")
	pf.StringVar(&globalFlags.GeminiLocation, "gemini-location", "", "Vertex AI location (default: $GOOGLE_CLOUD_LOCATION or us-central1)")
	pf.BoolVar(&globalFlags.UseVertexAI, "vertex", false, "count Gemini tokens through Vertex AI")

	flags.register(rootCmd)
	rootCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the text from a file")

	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewProvidersCmd())
	rootCmd.AddCommand(NewPricingCmd())
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}

// runCount handles `tokcount <provider> [text|-]`.
func runCount(cmd *cobra.Command, args []string, inputFile string, flags countFlags) error {
	p, err := provider.ParseProvider(args[0])
	if err != nil {
		return err
	}

	var positional *string
	if len(args) > 1 {
		positional = &args[1]
	}
	text, err := readInput(cmd.InOrStdin(), positional, inputFile)
	if err != nil {
		return err
	}

	result, err := count(cmd.Context(), p, text, flags)
	if err != nil {
		return err
	}
	return GetFormatter().CountResult(result, flags.cost, flags.quiet)
}

// count runs one count through the application container.
func count(ctx context.Context, p provider.Provider, text string, flags countFlags) (*tokens.CountResult, error) {
	app := GetAppContext()
	if app == nil {
		return nil, errors.New("application not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithCorrelationID(ctx, app.CorrelationID)
	return app.Container.Counter().CountTokens(ctx, text, p, flags.model, flags.cost)
}

// readInput picks exactly one text source: the positional argument ("-"
// means stdin), --file, or piped stdin when neither is given.
func readInput(stdin io.Reader, positional *string, inputFile string) (string, error) {
	if positional != nil && inputFile != "" {
		return "", domainErrors.Validation("pass the text either as an argument or with --file, not both", domainErrors.ErrConflictingInput)
	}

	switch {
	case inputFile != "":
		return filesystem.ReadTextFile(inputFile)
	case positional != nil && *positional == "-":
		return readStdin(stdin)
	case positional != nil:
		return *positional, nil
	}

	if f, ok := stdin.(*os.File); ok && output.IsTerminal(f) {
		return "", domainErrors.Validation("no input text: pass TEXT, --file PATH, or - to read stdin", domainErrors.ErrEmptyText)
	}
	return readStdin(stdin)
}

func readStdin(stdin io.Reader) (string, error) {
	text, err := filesystem.ReadText(stdin)
	if err != nil {
		return "", domainErrors.Validation("cannot read stdin", err)
	}
	return text, nil
}

// initializeApp loads the environment and configuration, then builds the container.
func initializeApp(cmd *cobra.Command) error {
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return domainErrors.Validation(err.Error(), nil)
	}

	formatter := newFormatter(cmd.OutOrStdout(), format)

	if err := loadEnvFile(globalFlags.EnvFile); err != nil {
		return err
	}

	cfg, err := loadConfig(globalFlags.ConfigFile)
	if err != nil {
		return domainErrors.Configuration("invalid configuration", err)
	}

	container, err := application.NewContainer(cfg, globalFlags.Verbose,
		application.WithCredentials(globalFlags.Credentials()),
		application.WithPricingFile(globalFlags.PricingFile),
		application.WithLogOutput(cmd.ErrOrStderr()),
	)
	if err != nil {
		return err
	}

	appCtxMu.Lock()
	appCtx = &AppContext{
		Config:        cfg,
		Formatter:     formatter,
		Flags:         &globalFlags,
		Container:     container,
		CorrelationID: logging.NewCorrelationID(),
	}
	appCtxMu.Unlock()

	return nil
}

// loadEnvFile loads path, or ./.env when path is empty and the file exists.
// Variables already set in the environment are left alone.
func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return domainErrors.Configuration("cannot load "+DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return domainErrors.WithContext(domainErrors.Configuration("cannot load env file "+path, err), "path", path)
	}
	return nil
}

// loadConfig loads configuration from the specified file or default location.
func loadConfig(configPath string) (*config.Config, error) {
	loader, err := config.NewLoader("")
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}

	return loader.Load(configPath)
}

func newFormatter(w io.Writer, format output.Format) *output.Formatter {
	color := false
	if f, ok := w.(*os.File); ok && format == output.FormatText {
		color = output.ColorSupportedFor(f, os.LookupEnv)
	}
	return output.NewFormatter(
		output.WithWriter(w),
		output.WithFormat(format),
		output.WithColor(color),
	)
}

// GetAppContext returns the current application context.
// Returns nil if the app hasn't been initialized.
// Thread-safe via mutex protection.
func GetAppContext() *AppContext {
	appCtxMu.RLock()
	defer appCtxMu.RUnlock()
	return appCtx
}

// GetFormatter returns the output formatter.
// Creates a default formatter if app context is not initialized.
// Thread-safe via mutex protection.
func GetFormatter() *output.Formatter {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil {
		return ctx.Formatter
	}
	return output.NewFormatter()
}

// GetContainer returns the application container.
// Returns nil if the app hasn't been initialized.
// Thread-safe via mutex protection.
func GetContainer() *application.Container {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil {
		return ctx.Container
	}
	return nil
}

// Shutdown releases the container, flushing any pending spans.
func Shutdown() error {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()

	if appCtx == nil {
		return nil
	}
	err := appCtx.Container.Close()
	appCtx = nil
	return err
}

// Execute runs the root command with graceful shutdown support and exits
// with 0 on success, 1 on error and 130 on interrupt.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errFormatter := newFormatter(stderr, output.FormatText)

	// Run command in a goroutine
	errChan := make(chan error, 1)
	go func() {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs(args)
		errChan <- rootCmd.ExecuteContext(ctx)
	}()

	// Wait for either command completion or signal
	select {
	case err := <-errChan:
		if err != nil {
			_ = Shutdown()
			_ = errFormatter.Error("%s", domainErrors.UserMessage(err))
			return ExitError
		}
		return ExitOK
	case sig := <-sigChan:
		cancel()
		_ = errFormatter.Warning("Received signal %v, shutting down...", sig)
		_ = Shutdown()
		return ExitInterrupted
	}
}
