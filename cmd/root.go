package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"jose/internal/chatgpt"
	"jose/internal/clipboard"
	"jose/internal/config"
	"jose/internal/oauth"
	"jose/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// Global flags
var (
	flagModel string
	flagDebug bool
)

// rootCmd represents the base command. Invoked without a subcommand it
// treats its arguments as the prompt for command generation.
var rootCmd = &cobra.Command{
	Use:   "jose [prompt...]",
	Short: "Generate shell commands with your ChatGPT subscription",
	Long: `jose turns a natural-language request into a shell command using the
ChatGPT Responses API, authenticated with your ChatGPT subscription via
the Codex OAuth flow.

Run 'jose login' once to authenticate, then:

  jose list the 10 largest files below the current directory
  jose -m gpt-5 kill every process listening on port 8080

The first suggested command is copied to the clipboard; alternatives are
listed below it.`,
	Args: cobra.ArbitraryArgs,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	RunE:         runQuery,
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "jose version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	if errors.Is(err, oauth.ErrAuthRequired) {
		return ExitCodeAuthRequired
	}

	var refreshErr *oauth.TokenRefreshError
	if errors.As(err, &refreshErr) {
		return ExitCodeAuthRequired
	}

	var portErr *oauth.PortInUseError
	if errors.As(err, &portErr) {
		return ExitCodeAuthFailed
	}

	var exchangeErr *oauth.TokenExchangeError
	if errors.As(err, &exchangeErr) {
		return ExitCodeAuthFailed
	}

	if errors.Is(err, oauth.ErrMissingCode) || errors.Is(err, oauth.ErrStateMismatch) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

// initLogging configures the diagnostic log stream. User-facing output is
// printed directly by the commands; logging carries debug details and
// warnings only.
func initLogging() {
	level := logging.LevelWarn
	if flagDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)
}

// newAuthenticator wires the production authenticator.
func newAuthenticator() (*oauth.Authenticator, error) {
	store, err := oauth.NewCredentialStore("")
	if err != nil {
		return nil, err
	}

	return oauth.NewAuthenticator(oauth.AuthenticatorConfig{
		Endpoints: oauth.DefaultEndpoints(),
		Store:     store,
	}), nil
}

// runQuery handles a bare invocation: validate tokens, call the Responses
// API, copy the first suggested command to the clipboard.
func runQuery(cmd *cobra.Command, args []string) error {
	initLogging()

	if len(args) == 0 {
		return errors.New("please provide a prompt, or run 'jose --help' for usage")
	}

	auth, err := newAuthenticator()
	if err != nil {
		return err
	}

	accessToken, accountID, err := auth.ValidTokens(cmd.Context())
	if err != nil {
		if errors.Is(err, oauth.ErrAuthRequired) {
			return fmt.Errorf("not authenticated, run 'jose login' first: %w", err)
		}
		return err
	}

	if accountID == "" {
		return errors.New("stored credentials carry no account ID, run 'jose login' again")
	}

	model, err := resolveModel()
	if err != nil {
		return err
	}

	prompt := strings.Join(args, " ")

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Querying %s...", model)
	s.Start()

	client := chatgpt.NewClient("", nil)
	result, err := client.GenerateCommand(cmd.Context(), accessToken, accountID, model, prompt)
	s.Stop()
	if err != nil {
		return err
	}

	if result == "" {
		return errors.New("empty response from ChatGPT")
	}

	printResult(cmd, result)
	return nil
}

// printResult prints the suggested command (copying it to the clipboard)
// and any alternatives.
func printResult(cmd *cobra.Command, result string) {
	lines := strings.Split(result, "\n")
	command := strings.TrimSpace(lines[0])

	if err := clipboard.Copy(command); err != nil {
		logging.Warn("clipboard", err, "could not copy command to clipboard")
		fmt.Fprintln(cmd.OutOrStdout(), "Suggested command:")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Command copied to clipboard:")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", text.FgGreen.Sprint(command))

	var alternatives []string
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			alternatives = append(alternatives, trimmed)
		}
	}

	if len(alternatives) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Alternatives:")
		for _, alt := range alternatives {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", alt)
		}
	}
}

// resolveModel picks the model: --model flag first, then the configured
// default.
func resolveModel() (string, error) {
	if flagModel != "" {
		return flagModel, nil
	}

	path, err := config.DefaultPath()
	if err != nil {
		return "", err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return "", err
	}

	return cfg.DefaultModel, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model to use (e.g., gpt-5, gpt-5-codex)")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSetModelCmd())
	rootCmd.AddCommand(newVersionCmd())
}
