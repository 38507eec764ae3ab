package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/johanforsgren/mediavault/internal/auth"
	"github.com/johanforsgren/mediavault/internal/config"
	"github.com/johanforsgren/mediavault/internal/export"
	"github.com/johanforsgren/mediavault/internal/logger"
	"github.com/johanforsgren/mediavault/internal/provider/googlephotos"
	"github.com/johanforsgren/mediavault/internal/ui"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "mediavault",
	Short:        "Browse and export your Google Photos library from the terminal",
	Long:         `Media Vault signs in to Google Photos through your browser, lists your media items and lets you select items for export.`,
	SilenceUsage: true,
	RunE:         runUI,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Sign in and print your media items",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mediavault %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.mediavault/config.yml)")
	rootCmd.PersistentFlags().String("client-id", "", "OAuth client ID")
	rootCmd.PersistentFlags().String("client-secret", "", "OAuth client secret")
	rootCmd.PersistentFlags().Int("redirect-port", 0, "Loopback port for the authorization redirect")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default ~/.mediavault/mediavault.log)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// services bundles what both the UI and the list command need.
type services struct {
	cfg      *config.Config
	session  *auth.Manager
	provider *googlephotos.Provider
}

func loadAndValidateConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	store, err := config.NewStore(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var overrides config.Overrides
	overrides.ClientID, _ = cmd.Flags().GetString("client-id")
	overrides.ClientSecret, _ = cmd.Flags().GetString("client-secret")
	overrides.RedirectPort, _ = cmd.Flags().GetInt("redirect-port")
	overrides.LogFile, _ = cmd.Flags().GetString("log-file")
	overrides.Debug, _ = cmd.Flags().GetBool("debug")
	cfg.Merge(overrides, os.Getenv)

	logPath := cfg.LogFile
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			return nil, err
		}
	}
	if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, logging to memory only\n", err)
	}
	logger.SetDebug(cfg.Debug)
	logger.Log("Config loaded from %s", store.Path())

	if err := cfg.Validate(); err != nil {
		logger.LogError("CONFIG_VALIDATE", store.Path(), err)
		return nil, err
	}
	return cfg, nil
}

func newServices(cmd *cobra.Command) (*services, error) {
	cfg, err := loadAndValidateConfig(cmd)
	if err != nil {
		return nil, err
	}

	client := googlephotos.NewClient(cfg.MediaItemsURL,
		googlephotos.WithTimeout(cfg.HTTPTimeout),
		googlephotos.WithRateLimit(cfg.RequestsPerSecond),
	)

	session := auth.NewManager(cfg, auth.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))

	return &services{
		cfg:      cfg,
		session:  session,
		provider: googlephotos.NewProvider(client),
	}, nil
}

func runUI(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer svc.session.Disconnect()

	model := ui.NewModel(svc.session, svc.provider, export.NewService(svc.cfg.ExportDuration))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		logger.LogError("UI_RUN", "program", err)
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer svc.session.Disconnect()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := authorize(ctx, svc.session, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !result.HasCredential() {
		if result.Err != nil {
			return fmt.Errorf("authorization %s: %w", result.Type, result.Err)
		}
		return fmt.Errorf("authorization %s: no access token", result.Type)
	}

	credential, _ := svc.session.Credential()
	items, err := svc.provider.FetchMediaItems(ctx, credential)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, item := range items {
		fmt.Fprintf(out, "%s  %s\n", item.ID, item.DisplayURL())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d media items\n", len(items))
	return nil
}

type authorizer interface {
	SetResultCallback(func(auth.AuthorizationResult))
	BeginAuthorization(ctx context.Context) error
}

// authorize runs one flow and blocks until its result or ctx ends.
func authorize(ctx context.Context, session authorizer, status io.Writer) (auth.AuthorizationResult, error) {
	results := make(chan auth.AuthorizationResult, 1)
	session.SetResultCallback(func(r auth.AuthorizationResult) {
		select {
		case results <- r:
		default:
		}
	})

	if err := session.BeginAuthorization(ctx); err != nil {
		return auth.AuthorizationResult{}, err
	}
	fmt.Fprintln(status, "Complete sign-in in your browser...")

	select {
	case r := <-results:
		return r, nil
	case <-ctx.Done():
		return auth.AuthorizationResult{}, ctx.Err()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
