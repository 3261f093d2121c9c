package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/observability"
	"github.com/san-kum/armsim/internal/storage"
)

// app holds state shared by every subcommand.
type app struct {
	v *viper.Viper

	configFile string
	preset     string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:          "armsim",
		Short:        "closed-loop PID position control of a planar 3-link arm",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".armsim", "data directory")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console, json)")
	pf.String("log-file", "", "also write JSON logs to this rotating file")
	pf.StringVarP(&a.configFile, "config", "c", "", "config file path (yaml)")
	pf.StringVar(&a.preset, "preset", "", "start from a named preset")

	rootCmd.AddCommand(
		a.runCmd(),
		a.listCmd(),
		a.plotCmd(),
		a.analyzeCmd(),
		a.exportJSONCmd(),
		a.exportCSVCmd(),
		a.exportSVGCmd(),
		a.exportPNGCmd(),
		a.replayCmd(),
		a.tuneCmd(),
		a.presetsCmd(),
		a.detectCmd(),
		a.scenarioCmd(),
		a.monteCarloCmd(),
	)
	return rootCmd
}

// initialize resolves the base config (preset, then config file) and
// sets up logging. Persistent flags also read ARMSIM_* variables.
func (a *app) initialize(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("ARMSIM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if a.preset != "" {
		cfg = config.GetPreset(a.preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", a.preset, config.ListPresets())
		}
	}
	if a.configFile != "" {
		loaded, err := config.Load(a.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if level := a.v.GetString("log-level"); level != "" {
		cfg.Logger.Level = level
	}
	if format := a.v.GetString("log-format"); format != "" {
		cfg.Logger.Format = format
	}
	if file := a.v.GetString("log-file"); file != "" {
		cfg.Logger.LogFile = file
	}

	observability.Initialize(cfg.Logger, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	a.cfg = cfg
	a.logger = observability.GetLogger()
	return nil
}

func (a *app) store() *storage.Store {
	return storage.New(a.v.GetString("data"))
}

func (a *app) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				g := p.JointGains()[0]
				fmt.Fprintf(out, "  %-9s target=%s steps=%d kp=%g ki=%g kd=%g\n",
					name, p.Target, p.Steps, g.Kp, g.Ki, g.Kd)
			}
			return nil
		},
	}
}
