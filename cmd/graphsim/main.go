package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/integrators"
	"github.com/san-kum/graphsim/internal/session"
	"github.com/san-kum/graphsim/internal/stream"
	"github.com/san-kum/graphsim/internal/viz"
)

var (
	dataDir    string
	sceneFile  string
	preset     string
	verbose    bool
	steps      int
	seed       int64
	integrator string
	runName    string
	ensemble   int
	recordEach int
	jsonOut    bool
	theme      string
	logFile    string
	pickPreset bool
	addr       string
	frameRate  int
	plotNode   uint32
	trajNode   uint32
	outFile    string
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "graphsim",
		Short:        "force-directed layout engine for article graphs",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".graphsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&sceneFile, "scene", "", "scene file (yaml or toml); a built-in sample is used when empty")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "force preset, overrides the scene's forces")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless layout and store it",
		Args:  cobra.NoArgs,
		RunE:  runLayout,
	}
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "placement seed")
	runCmd.Flags().StringVar(&integrator, "integrator", integrators.Default, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	runCmd.Flags().StringVar(&runName, "name", "layout", "run name")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "run N placements in parallel and keep the calmest")
	runCmd.Flags().IntVar(&recordEach, "record-every", 10, "record positions every N ticks")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "also write the run as JSON to stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy and a node trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint32Var(&plotNode, "node", 1, "node whose trajectory is drawn")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling and oscillation analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final layout as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	exportSVGCmd.Flags().Uint32Var(&trajNode, "trajectory", 0, "draw this node's path instead of the layout")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive layout in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "write logs here instead of discarding them")
	liveCmd.Flags().BoolVar(&pickPreset, "pick", false, "choose a force preset before starting")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the layout to browsers over websockets",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 60, "ticks per second")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list force presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("integrators:")
			for _, n := range integrators.Names() {
				fmt.Printf("  %s\n", n)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportSVGCmd, exportJSONCmd, liveCmd, serveCmd, presetsCmd, newTuneCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadScene reads --scene (or the sample) and applies --preset and any
// flags the user set explicitly.
func loadScene(cmd *cobra.Command) (*config.Scene, error) {
	var sc *config.Scene
	if sceneFile != "" {
		loaded, err := config.Load(sceneFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		sc = loaded
	} else {
		sc = sampleScene()
	}

	if preset != "" {
		s, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		sc.Forces = s
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		sc.Steps = steps
	}
	if flags.Lookup("seed") != nil && (flags.Changed("seed") || sc.Seed == 0) {
		sc.Seed = seed
	}
	if flags.Changed("integrator") {
		sc.Body.Integrator = integrator
	}
	return sc, sc.Validate()
}

func runLive(cmd *cobra.Command, args []string) error {
	out := io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger := newLogger(out)

	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	sess, err := session.FromScene(sc, logger, nil)
	if err != nil {
		return err
	}
	return viz.Run(cmd.Context(), sess, viz.Options{
		ScenePath:  sceneFile,
		Theme:      theme,
		PickPreset: pickPreset,
		Logger:     logger,
	})
}

func serve(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	sess, err := session.FromScene(sc, logger, nil)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", brand.Sprint("graphsim"), subtle.Sprintf("listening on %s", addr))
	return stream.Serve(cmd.Context(), sess, stream.Config{
		Addr:     addr,
		Interval: time.Second / time.Duration(max(frameRate, 1)),
		Logger:   logger,
	})
}
