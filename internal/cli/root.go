package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/vibequota/internal/catalog"
	"github.com/joshuadavidthomas/vibequota/internal/config"
	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/logging"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	jsonOutput bool
	noColor    bool
	verbose    bool
	quiet      bool
	refresh    bool
	sourceMode string
)

var rootCmd = &cobra.Command{
	Use:          "vibequota",
	Short:        "Track quota across agentic LLM providers",
	Long:         "A unified CLI tool that aggregates usage and quota from Claude, Codex, Cursor, and Antigravity.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			verbose = false
		}
		l := newConfiguredLogger()
		ctx := logging.WithLogger(cmd.Context(), l)
		cmd.SetContext(ctx)

		if _, err := parseSourceMode(); err != nil {
			return err
		}

		// Load config from disk so malformed files surface a warning.
		if _, err := config.Reload(); err != nil {
			l.Warn("config file is malformed, using defaults", "err", err)
		}
		return nil
	},
	RunE: runDefaultUsage,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.PersistentFlags().BoolVarP(&refresh, "refresh", "r", false, "Disable cache fallback (fresh data or error)")
	rootCmd.PersistentFlags().StringVar(&sourceMode, "source", "auto", "Restrict fetch source (auto, cli, web, oauth, api)")
	rootCmd.Flags().Bool("version", false, "Show version and exit")

	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(providersCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
// Commands access it via cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runDefaultUsage(cmd *cobra.Command, args []string) error {
	if v, _ := cmd.Flags().GetBool("version"); v {
		out("vibequota %s\n", version)
		return nil
	}
	return fetchAndDisplayAll(cmd.Context())
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func parseSourceMode() (fetch.SourceMode, error) {
	mode := fetch.SourceMode(strings.ToLower(sourceMode))
	switch mode {
	case fetch.ModeAuto, fetch.ModeCLI, fetch.ModeWeb, fetch.ModeOAuth, fetch.ModeAPI, "":
		return mode, nil
	}
	return "", fmt.Errorf("invalid source %q (want auto, cli, web, oauth, or api)", sourceMode)
}

// buildFetchContext assembles the immutable context one fetch invocation
// reads from: process environment overlaid with a local .env file, the
// requested source mode, and the provider's configured settings.
func buildFetchContext(providerID string) fetch.Context {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	if dotenv, err := godotenv.Read(); err == nil {
		for k, v := range dotenv {
			if _, exists := env[k]; !exists {
				env[k] = v
			}
		}
	}

	mode, _ := parseSourceMode()

	fc := fetch.Context{
		Origin: fetch.OriginCLI,
		Mode:   mode,
		Env:    env,
	}
	if providerID != "" {
		if pc, ok := config.Get().Providers[providerID]; ok {
			fc.Settings = &fetch.Settings{
				CookieSource: pc.CookieSource,
				APIToken:     pc.APIToken,
			}
		}
	}
	return fc
}

func newCatalog() *catalog.Catalog {
	if refresh {
		return catalog.NewWithCache(config.Get(), nil)
	}
	return catalog.New(config.Get())
}
