package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/experiment"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/optim"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/storage"
	"github.com/san-kum/armsim/internal/viz"
)

type runFlags struct {
	x, y          float64
	steps         int
	dt            float64
	kp, ki, kd    float64
	tolerance     float64
	integralLimit float64
	parallel      bool
	initAngles    []float64
	noSave        bool
	watch         bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.x, "x", config.DefaultTargetX, "target x")
	fs.Float64Var(&f.y, "y", config.DefaultTargetY, "target y")
	fs.IntVar(&f.steps, "steps", config.DefaultSteps, "number of control steps")
	fs.Float64Var(&f.dt, "dt", config.DefaultDt, "timestep")
	fs.Float64Var(&f.kp, "kp", control.DefaultGains.Kp, "proportional gain for every joint")
	fs.Float64Var(&f.ki, "ki", control.DefaultGains.Ki, "integral gain for every joint")
	fs.Float64Var(&f.kd, "kd", control.DefaultGains.Kd, "derivative gain for every joint")
	fs.Float64Var(&f.tolerance, "tolerance", 0, "stop once every joint error is below this (0 runs all steps)")
	fs.Float64Var(&f.integralLimit, "integral-limit", 0, "clamp each integral term to ±limit (0 disables)")
	fs.BoolVar(&f.parallel, "parallel", false, "update joint controllers concurrently")
	fs.Float64SliceVar(&f.initAngles, "init", nil, "initial joint angles theta1,theta2,theta3")
}

// apply overrides cfg with every flag the user set explicitly.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("x") {
		cfg.Target.X = f.x
	}
	if changed("y") {
		cfg.Target.Y = f.y
	}
	if changed("steps") {
		cfg.Steps = f.steps
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("kp") || changed("ki") || changed("kd") {
		gains := cfg.JointGains()
		for i := range gains {
			if changed("kp") {
				gains[i].Kp = f.kp
			}
			if changed("ki") {
				gains[i].Ki = f.ki
			}
			if changed("kd") {
				gains[i].Kd = f.kd
			}
		}
		cfg.Gains = gains
	}
	if changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if changed("integral-limit") {
		cfg.IntegralLimit = f.integralLimit
	}
	if changed("parallel") {
		cfg.Parallel = f.parallel
	}
	if changed("init") {
		cfg.InitAngles = f.initAngles
	}
}

func (a *app) runCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "drive the arm to a target and save the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Clone()
			f.apply(cmd, cfg)
			return a.runAndReport(cmd, cfg, f.noSave, f.watch)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "do not persist the run")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "replay the run in the terminal when done")
	return cmd
}

func (a *app) runAndReport(cmd *cobra.Command, cfg *config.Config, noSave, watch bool) error {
	exp, err := experiment.New(cfg, a.logger.Named("experiment"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running to %s...\n", cfg.Target)
	start := time.Now()

	result, err := exp.Run()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	a.logger.Info("run complete",
		zap.Stringer("target", cfg.Target),
		zap.Int("steps", result.StepsTaken),
		zap.Bool("converged", result.Converged),
		zap.Duration("elapsed", elapsed),
	)

	if !noSave {
		st := a.store()
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:        a.preset,
			Links:         cfg.Links,
			Initial:       cfg.InitialAngles(),
			Steps:         cfg.Steps,
			Dt:            cfg.Dt,
			Gains:         cfg.JointGains(),
			IntegralLimit: cfg.IntegralLimit,
			Tolerance:     cfg.Tolerance,
		}, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	printResult(out, result, elapsed)

	if watch {
		return viz.Run(viz.NewModel(cfg.Links, result.Trajectory, result.Target, "run"))
	}
	return nil
}

func printResult(out io.Writer, result *sim.Result, elapsed time.Duration) {
	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "desired angles: %.4f %.4f %.4f\n", result.Desired[0], result.Desired[1], result.Desired[2])
	fmt.Fprintf(out, "steps: %d (converged: %v)\n", result.StepsTaken, result.Converged)
	if last, ok := result.Trajectory.Last(); ok {
		fmt.Fprintf(out, "final angles: %.4f %.4f %.4f\n", last.Angles[0], last.Angles[1], last.Angles[2])
		fmt.Fprintf(out, "end effector: %s\n", last.EndEffector)
	}

	fmt.Fprintln(out, "\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
}

func (a *app) tuneCmd() *cobra.Command {
	var (
		kps, kis, kds []float64
		metric        string
		x, y          float64
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search gains applied to every joint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := a.cfg.Clone()
			if cmd.Flags().Changed("x") {
				base.Target.X = x
			}
			if cmd.Flags().Changed("y") {
				base.Target.Y = y
			}
			if err := base.Validate(); err != nil {
				return err
			}
			if !kinematics.NewSolver(base.Links).Reachable(base.Target) {
				return fmt.Errorf("target %s is outside reach %.4f", base.Target, base.Links.Reach())
			}

			var names []string
			var ranges [][]float64
			for _, p := range []struct {
				name string
				vals []float64
			}{{"kp", kps}, {"ki", kis}, {"kd", kds}} {
				if len(p.vals) > 0 {
					names = append(names, p.name)
					ranges = append(ranges, p.vals)
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("give at least one of --kp, --ki, --kd")
			}

			search, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}

			a.logger.Info("grid search started", zap.Strings("params", names), zap.String("metric", metric))
			best, value, candidates, err := search.Search(cmd.Context(), optim.GainBuilder(base), metric)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KP\tKI\tKD\t"+metric)
			g := base.JointGains()[0]
			for _, c := range candidates {
				kp, ki, kd := g.Kp, g.Ki, g.Kd
				if v, ok := c.Params["kp"]; ok {
					kp = v
				}
				if v, ok := c.Params["ki"]; ok {
					ki = v
				}
				if v, ok := c.Params["kd"]; ok {
					kd = v
				}
				val := fmt.Sprintf("%.6f", c.Value)
				if c.Err != nil {
					val = "error: " + c.Err.Error()
				}
				fmt.Fprintf(w, "%g\t%g\t%g\t%s\n", kp, ki, kd, val)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nbest %s = %.6f with", metric, value)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), " %s=%g", name, best[name])
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&kps, "kp", nil, "kp values to try")
	cmd.Flags().Float64SliceVar(&kis, "ki", nil, "ki values to try")
	cmd.Flags().Float64SliceVar(&kds, "kd", nil, "kd values to try")
	cmd.Flags().StringVar(&metric, "metric", "tracking_rms", "metric to minimise")
	cmd.Flags().Float64Var(&x, "x", config.DefaultTargetX, "target x")
	cmd.Flags().Float64Var(&y, "y", config.DefaultTargetY, "target y")
	return cmd
}
