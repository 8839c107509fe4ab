package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/loopwork-ai/gsc-mcp/gsc"
	"github.com/loopwork-ai/gsc-mcp/internal"
	"github.com/loopwork-ai/gsc-mcp/internal/config"
	"github.com/loopwork-ai/gsc-mcp/mcp"
)

var rootCmd = &cobra.Command{
	Use:   "gsc-mcp",
	Short: "An MCP server for Google Search Console search analytics",
	Long: `gsc-mcp is an MCP stdio server that exposes one tool, search_console_query.
It translates natural language requests into Search Console searchanalytics.query
payloads via a Gemini model call, executes them against the configured property,
and returns an agent-readable report.

Configuration comes from a YAML file (--config) and/or environment variables:
SEARCH_CONSOLE_KEY (base64 service-account JSON), GEMINI_API_KEY, GSC_SITE_URL.
Credential values may be 1Password secret references (op://vault/item/field).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		if !verbose {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		g.Go(func() error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnv()

			if err := internal.ResolveSecrets(ctx, &cfg.ServiceAccountKey, &cfg.GeminiAPIKey); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			keyJSON, err := cfg.DecodeServiceAccountKey()
			if err != nil {
				return err
			}

			retryClient := retryablehttp.NewClient()
			retryClient.RetryMax = retries
			retryClient.RetryWaitMin = 1 * time.Second
			retryClient.RetryWaitMax = 30 * time.Second
			retryClient.HTTPClient.Timeout = timeout
			retryClient.HTTPClient.Transport = &internal.HeaderTransport{
				Headers: http.Header{"User-Agent": []string{"gsc-mcp/" + version}},
			}
			retryClient.Logger = logger

			if rps > 0 {
				retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
					// Ensure we wait at least 1/rps between requests
					minWait := time.Second / time.Duration(rps)
					if min < minWait {
						min = minWait
					}
					return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
				}
			}

			client := retryClient.StandardClient()

			// The OAuth2 token transport wraps this client.
			ctx := context.WithValue(ctx, oauth2.HTTPClient, client)

			gscClient, err := gsc.NewClient(ctx, keyJSON, cfg.SiteURL,
				gsc.WithClientLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("error creating search console client: %w", err)
			}

			synthesizer, err := gsc.NewSynthesizer(cfg.GeminiAPIKey, cfg.PropertyURL(),
				gsc.WithSynthesizerHTTPClient(client),
				gsc.WithSynthesizerModel(cfg.GeminiModel),
				gsc.WithSynthesizerLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("error creating synthesizer: %w", err)
			}

			tool := gsc.NewTool(synthesizer, gscClient, gsc.WithToolLogger(logger))

			server, err := mcp.NewServer(tool,
				mcp.WithLogger(logger),
				mcp.WithServerInfo("gsc-mcp", version),
			)
			if err != nil {
				return fmt.Errorf("error creating server: %w", err)
			}

			logger.Info("serving", "site", cfg.SiteURL, "property", cfg.PropertyURL())

			transport := mcp.NewStdioTransport(server, os.Stdin, os.Stdout, os.Stderr)
			return transport.Run(ctx)
		})

		return g.Wait()
	},
}

var (
	configPath string
	verbose    bool
	retries    int
	timeout    time.Duration
	rps        int

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Flags().IntVar(&retries, "retries", 3, "Maximum number of retries for failed requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Upstream request timeout")
	rootCmd.Flags().IntVarP(&rps, "rps", "r", 0, "Maximum requests per second (0 for no limit)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
