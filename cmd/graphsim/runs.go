package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/graphsim/internal/analysis"
	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/content"
	"github.com/san-kum/graphsim/internal/export"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/metrics"
	"github.com/san-kum/graphsim/internal/sim"
	"github.com/san-kum/graphsim/internal/storage"
)

const (
	settleThreshold = 0.5
	settleWindow    = 30
)

// layout is one headless member: its stepper plus what storage needs.
type layout struct {
	stepper  *sim.Stepper
	index    *content.Index
	recorder *storage.Recorder
}

func buildLayout(sc *config.Scene, seed int64) (*layout, error) {
	opts := sc.ContentOptions()
	opts.Seed = seed
	bound := sc.Container.Bound()
	reg, index, err := content.Build(content.WithInboundCounts(sc.Articles), sc.Author, bound, opts)
	if err != nil {
		return nil, err
	}

	st := sim.New(reg, sc.Viewport, sc.Forces, bound, sc.SimConfig(nil))
	st.AddMetric(metrics.NewEnergy())
	st.AddMetric(metrics.NewSettle(settleThreshold, settleWindow))
	st.AddMetric(metrics.NewContainment(bound, sc.Viewport))
	st.AddMetric(metrics.NewOverlap())

	rec := storage.NewRecorder(recordEach, sc.Viewport)
	st.AddObserver(rec)
	return &layout{stepper: st, index: index, recorder: rec}, nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	newLogger(os.Stderr)
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var (
		best   *layout
		result *sim.Result
	)
	if ensemble > 1 {
		layouts := make([]*layout, ensemble)
		ens := sim.NewEnsemble(func(s int64) (*sim.Stepper, error) {
			l, err := buildLayout(sc, s)
			if err != nil {
				return nil, err
			}
			layouts[s-sc.Seed] = l
			return l.stepper, nil
		}, ensemble, sc.Seed)

		members, err := ens.Run(cmd.Context(), sc.Steps, sc.Viewport)
		if err != nil {
			return err
		}
		i := sim.Best(members)
		if i < 0 {
			return fmt.Errorf("every ensemble member diverged")
		}
		best, result = layouts[i], members[i].Result
		sc.Seed = members[i].Seed
		fmt.Printf("ensemble: kept seed %d of %d\n", members[i].Seed, len(members))
	} else {
		best, err = buildLayout(sc, sc.Seed)
		if err != nil {
			return err
		}
		result, err = best.stepper.Run(cmd.Context(), sc.Steps, sc.Viewport)
		if err != nil {
			return err
		}
	}

	run := storage.Run{
		Name:       runName,
		Seed:       sc.Seed,
		Dt:         sc.Dt,
		Integrator: sc.Body.Integrator,
		Preset:     preset,
		Settings:   sc.Forces,
		Container:  sc.Container.Bound(),
		Result:     result,
		Registry:   best.stepper.Registry(),
		Index:      best.index,
		Trajectory: best.recorder,
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}

	printSummary(runID, result)
	if jsonOut {
		meta := run.Metadata()
		meta.ID = runID
		return storage.ExportJSON(os.Stdout, meta, result.Energy)
	}
	return nil
}

func printSummary(runID string, result *sim.Result) {
	fmt.Printf("%s %s\n", brand.Sprint("run:"), runID)
	fmt.Printf("%s %d (%.2fs)\n", subtle.Sprint("steps:"), result.StepsTaken, result.Time)
	for _, name := range []string{"energy", "settle_step", "containment", "overlap"} {
		v, ok := result.Metrics[name]
		if !ok {
			continue
		}
		fmt.Printf("%s %s\n", subtle.Sprintf("%-12s", name+":"), cyan.Sprintf("%.4f", v))
	}
	if v, ok := result.Metrics["settle_step"]; ok && v < 0 {
		yellow.Println("layout did not settle; try more steps or more damping")
	}
	for _, err := range result.Errors {
		yellow.Printf("warning: %v\n", err)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTEPS\tDT\tINTEG\tPRESET\tNODES")
	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
			p,
			len(run.Nodes),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energy, _, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(energy) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(energy))
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Println()

	samples, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}
	pts := analysis.Trajectory(samples, graph.NodeID(plotNode))
	if len(pts) == 0 {
		fmt.Printf("no trajectory recorded for node %d\n", plotNode)
		return nil
	}
	fmt.Printf("node %d trajectory (%.1f px travelled)\n", plotNode, analysis.PathLength(pts))
	fmt.Print(analysis.TrajectoryToASCII(pts, 60, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energy, _, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(energy) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	n := 1
	for n < len(energy) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, energy)

	if ps := analysis.PowerSpectrum(padded); len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (kinetic energy)"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(padded, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	fmt.Printf("decay rate: %.3f /s\n", analysis.DecayRate(energy, meta.Dt))
	if s := analysis.SettleStep(energy, settleThreshold, settleWindow); s >= 0 {
		fmt.Printf("settled at step %d (%.2fs)\n", s, float64(s)*meta.Dt)
	} else {
		yellow.Println("never settled")
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if cmd.Flags().Changed("trajectory") {
		samples, err := st.LoadPositions(runID)
		if err != nil {
			return err
		}
		svg = export.TrajectoryToSVG(analysis.Trajectory(samples, graph.NodeID(trajNode)), 600, 600, "#00ccff")
	} else {
		svg = export.LayoutToSVG(*meta, export.DefaultOptions())
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energy, _, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, energy)
}
