package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bance-assetou/mindvision/internal/config"
	"github.com/bance-assetou/mindvision/internal/session"
	"github.com/bance-assetou/mindvision/internal/tui"
	"github.com/bance-assetou/mindvision/pkg/client"
	"github.com/bance-assetou/mindvision/pkg/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug  bool
	apiURL string
}

// deps is everything a command needs to talk to the backend.
type deps struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *client.Client
	store   *session.FileStore
	manager *session.Manager
	logFile *os.File
}

// close releases the log file and detaches the process logger from it.
func (d *deps) close() {
	logger.Reset()
	if d.logFile != nil {
		d.logFile.Close() //nolint:errcheck // best-effort close
	}
}

func newDeps(ctx context.Context, flags *globalFlags) (*deps, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}
	if flags.debug {
		cfg.LogLevel = "debug"
	}

	opts := logger.Options{Level: cfg.LogLevel}
	logFile, err := logger.OpenFile(cfg.LogPath())
	if err == nil {
		opts.Output = logFile
	} else {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	log := logger.Init(opts)

	c := client.New(cfg.APIURL, "",
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(log.With().Str("component", "client").Logger()),
	)
	store := session.NewFileStore(cfg.SessionFile(), log.With().Str("component", "store").Logger())
	m := session.NewManager(c, store, log.With().Str("component", "session").Logger())

	log.Debug().Str("api", cfg.APIURL).Str("home", cfg.Home).Str("version", version).Msg("starting")
	return &deps{cfg: cfg, log: log, client: c, store: store, manager: m, logFile: logFile}, nil
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	var start string

	cmd := &cobra.Command{
		Use:   "mindvision",
		Short: "MindVision coaching client",
		Long: "MindVision in your terminal: browse services and articles, book coaching\n" +
			"sessions and manage your availability.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer d.close()
			app := tui.NewApp(d.client, d.manager, tui.Options{
				WebURL:     d.cfg.WebURL,
				StartRoute: start,
				QuoteURL:   d.cfg.QuoteSource(),
				Logger:     d.log.With().Str("component", "tui").Logger(),
			})
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui error: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "write debug logs")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "API base URL (overrides MINDVISION_API_URL)")
	cmd.Flags().StringVar(&start, "open", "", "route to open first, e.g. /dashboard")

	cmd.AddCommand(
		versionCmd(),
		loginCmd(flags),
		registerCmd(flags),
		logoutCmd(flags),
		whoamiCmd(flags),
	)
	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c == cmd {
			printHelp(c.OutOrStdout())
			return
		}
		defaultHelp(c, args)
	})
	return cmd
}

func execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
