// Package cli implements the axiom command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"axiom/app"
	"axiom/engine/journal"
	"axiom/engine/quarkgl"
	"axiom/engine/script"
	"axiom/engine/surface"
	"axiom/internal/config"
	"axiom/internal/llm"
)

// RootOptions holds global flags and the state loaded before a command runs.
type RootOptions struct {
	Verbose    bool
	ConfigPath string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "axiom",
		Short: "Axiom - prompt-driven 3D simulations",
		Long: `Axiom turns a text prompt into a small scene program, runs it in a
sandboxed script host and renders it with a software rasterizer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $AXIOM_CONFIG or ~/.config/axiom/config.toml)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewHeadlessCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewDemosCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (o *RootOptions) load(stderr io.Writer) error {
	path := o.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.cfg = cfg
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// Config returns the loaded configuration.
func (o *RootOptions) Config() config.Config { return o.cfg }

// Logger returns the configured logger, or a discarding one before load.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// NewGenerator builds the generator the config selects.
func NewGenerator(cfg config.LLMConfig, logger *slog.Logger) (llm.Generator, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch cfg.Provider {
	case config.ProviderOffline, "":
		return llm.NewOfflineGenerator(), nil
	case config.ProviderOpenAI:
		return llm.NewOpenAIGenerator(llm.OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger.With("component", "openai")), nil
	case config.ProviderPlaylist:
		pl, err := llm.LoadPlaylist(cfg.Playlist)
		if err != nil {
			return nil, err
		}
		return llm.NewPlaylistGenerator(pl), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// appConfig maps the loaded config onto an app.Config.
func (o *RootOptions) appConfig(gen llm.Generator, sinks ...journal.Sink) app.Config {
	c := o.cfg
	sc := surface.DefaultConfig()
	sc.Width, sc.Height = c.Window.Width, c.Window.Height
	sc.Wireframe = c.Render.Wireframe
	sc.Depth = c.Render.Depth
	sc.StarCount = c.Render.Stars
	if hex, err := config.ParseHex(c.Render.ClearColor); err == nil {
		sc.ClearColor = quarkgl.RGB(uint8(hex>>16), uint8(hex>>8), uint8(hex))
	}
	return app.Config{
		Surface:   sc,
		Budget:    script.Budget{Setup: c.Script.Setup, Update: c.Script.Update, Cleanup: c.Script.Cleanup},
		Generator: gen,
		Logger:    o.Logger(),
		LogRing:   c.Log.Ring,
		Sinks:     append([]journal.Sink{journal.SlogSink{Logger: o.Logger().With("component", "journal")}}, sinks...),
	}
}
