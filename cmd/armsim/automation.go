package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/automation"
	"github.com/san-kum/armsim/internal/storage"
	"github.com/san-kum/armsim/internal/viz"
)

func (a *app) scenarioCmd() *cobra.Command {
	var noSave, watch bool
	var reachTol float64
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "visit a sequence of waypoints with one arm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			res, runErr := automation.RunScenario(cmd.Context(), sc, a.cfg, a.logger.Named("scenario"))
			if res == nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTARGET\tSTEPS\tCONVERGED\tPOS_ERR")
			for i, leg := range res.Legs {
				target := sc.Waypoints[i].Target
				if leg == nil {
					fmt.Fprintf(w, "%d\t%s\t-\t-\tunreachable\n", i+1, target)
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.5f\n", i+1, target, leg.StepsTaken, leg.Converged, leg.Metrics["position_error"])
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "attempted %d/%d waypoints, %d reached within %g, %d steps total\n",
				res.Attempted(), len(sc.Waypoints), res.Reached(reachTol), reachTol, len(res.Trajectory))
			if runErr != nil {
				return runErr
			}

			if !noSave {
				if err := a.saveScenario(cmd, sc, res); err != nil {
					return err
				}
			}
			if watch {
				return viz.Run(viz.NewModel(a.cfg.Links, res.Trajectory, sc.Waypoints[len(sc.Waypoints)-1].Target, sc.Name))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the combined trajectory")
	cmd.Flags().BoolVar(&watch, "watch", false, "replay the combined trajectory when done")
	cmd.Flags().Float64Var(&reachTol, "reach-tolerance", 0.01, "end-effector distance counted as reaching a waypoint")
	return cmd
}

// saveScenario stores the accumulated trajectory as one run whose target
// is the final waypoint.
func (a *app) saveScenario(cmd *cobra.Command, sc *automation.Scenario, res *automation.ScenarioResult) error {
	var last int
	for i := len(res.Legs) - 1; i >= 0; i-- {
		if res.Legs[i] != nil {
			last = i
			break
		}
	}
	leg := res.Legs[last]
	if leg == nil {
		return nil
	}

	combined := *leg
	combined.Trajectory = res.Trajectory
	combined.StepsTaken = len(res.Trajectory)

	st := a.store()
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:        sc.Name,
		Links:         a.cfg.Links,
		Initial:       a.cfg.InitialAngles(),
		Steps:         len(res.Trajectory),
		Dt:            a.cfg.Dt,
		Gains:         a.cfg.JointGains(),
		IntegralLimit: a.cfg.IntegralLimit,
		Tolerance:     a.cfg.Tolerance,
	}, &combined)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run id: %s\n", runID)
	return nil
}

func (a *app) monteCarloCmd() *cobra.Command {
	var mc automation.MonteCarloConfig
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run the current config against random reachable targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := automation.RunMonteCarlo(cmd.Context(), mc, a.cfg, a.logger.Named("montecarlo"))
			if err != nil {
				return err
			}
			converged, meanErr, maxErr := automation.MonteCarloStats(results)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trials: %d\n", len(results))
			fmt.Fprintf(out, "converged: %d\n", converged)
			fmt.Fprintf(out, "mean position error: %.6f\n", meanErr)
			fmt.Fprintf(out, "max position error: %.6f\n", maxErr)
			return nil
		},
	}
	cmd.Flags().IntVar(&mc.Trials, "trials", 50, "number of random targets")
	cmd.Flags().Int64Var(&mc.Seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().Float64Var(&mc.MinRadius, "min-radius", 0, "smallest target distance from the base")
	cmd.Flags().Float64Var(&mc.MaxRadius, "max-radius", 0, "largest target distance (0 uses full reach)")
	return cmd
}
