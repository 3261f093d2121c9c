package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/export"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/storage"
	"github.com/san-kum/armsim/internal/viz"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.store().List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tPRESET\tTARGET\tSTEPS\tDT\tCONVERGED\tPOS_ERR")
			for _, run := range runs {
				posErr := "-"
				if v, ok := run.Metrics["position_error"]; ok {
					posErr = fmt.Sprintf("%.5f", v)
				}
				preset := run.Preset
				if preset == "" {
					preset = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%v\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					preset,
					run.Target,
					run.StepsTaken,
					run.Dt,
					run.Converged,
					posErr,
				)
			}
			return w.Flush()
		},
	}
}

// loadRun reads a stored run's metadata and trajectory.
func (a *app) loadRun(runID string) (*storage.RunMetadata, sim.Trajectory, error) {
	st := a.store()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, traj, nil
}

func (a *app) plotCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot joint angles and position error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			if len(traj) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\n", meta.ID)
			fmt.Fprintf(out, "target: %s\n", meta.Target)
			fmt.Fprintf(out, "samples: %d\n\n", len(traj))

			for j := 0; j < 3; j++ {
				graph := asciigraph.Plot(traj.JointSeries(j),
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(fmt.Sprintf("theta%d (desired %.4f)", j+1, meta.Desired[j])),
				)
				fmt.Fprintln(out, graph)
				fmt.Fprintln(out)
			}

			errs := make([]float64, len(traj))
			for i, s := range traj {
				errs[i] = s.EndEffector.Dist(meta.Target)
			}
			fmt.Fprintln(out, asciigraph.Plot(errs,
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption("end effector distance to target"),
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "graph width")
	cmd.Flags().IntVar(&height, "height", 10, "graph height")
	return cmd
}

// outputWriter returns stdout for an empty path, else a created file.
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func (a *app) exportJSONCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			w, closeFn, err := outputWriter(cmd, output)
			if err != nil {
				return err
			}
			if err := export.WriteJSON(w, *meta, traj); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) exportCSVCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traj, err := a.store().LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			w, closeFn, err := outputWriter(cmd, output)
			if err != nil {
				return err
			}
			if err := storage.WriteTrajectoryCSV(w, traj); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) exportSVGCmd() *cobra.Command {
	var (
		output        string
		pathOnly      bool
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the arm and end-effector path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := a.loadRun(args[0])
			if err != nil {
				return err
			}

			var svg string
			if pathOnly {
				svg = export.TrajectorySVG(traj.EndEffectorPath(), width, height, "#00ff00")
				if svg == "" {
					return fmt.Errorf("run %s has fewer than two samples", meta.ID)
				}
			} else {
				svg = export.ArmSVG(meta.Links, traj, meta.Target, width, height)
			}

			if output == "" {
				output = meta.ID + ".svg"
			}
			if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	cmd.Flags().BoolVar(&pathOnly, "path-only", false, "draw only the end-effector path, scaled to fit")
	cmd.Flags().IntVar(&width, "width", 600, "image width")
	cmd.Flags().IntVar(&height, "height", 600, "image height")
	return cmd
}

func (a *app) exportPNGCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "chart joint angles over time as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = meta.ID + ".png"
			}
			title := fmt.Sprintf("joint angles, target %s", meta.Target)
			if err := export.SavePNG(output, title, traj); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.png)")
	return cmd
}

func (a *app) replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			return viz.Run(viz.NewModel(meta.Links, traj, meta.Target, meta.ID))
		},
	}
}

func (a *app) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response and oscillation of every joint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			if len(traj) == 0 {
				return fmt.Errorf("no data to analyze")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "JOINT\tSETPOINT\tFINAL\tOVERSHOOT\tRISE\tSS_ERR\tFREQ")
			for _, j := range analysis.Analyze(traj, meta.Initial, meta.Desired, meta.Dt) {
				rise := "-"
				if !math.IsNaN(j.Step.RiseTime) {
					rise = fmt.Sprintf("%.3fs", j.Step.RiseTime)
				}
				fmt.Fprintf(w, "theta%d\t%.4f\t%.4f\t%.1f%%\t%s\t%.2e\t%.2fHz\n",
					j.Joint, j.Step.Setpoint, j.Step.Final, j.Step.Overshoot*100, rise, j.Step.SteadyStateError, j.Frequency)
			}
			return w.Flush()
		},
	}
}
