package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/armsim/internal/vision"
)

func (a *app) detectCmd() *cobra.Command {
	var (
		minPixels        int
		scale            float64
		originX, originY int
		flipY            bool
		run, noSave      bool
	)
	cmd := &cobra.Command{
		Use:   "detect [image]",
		Short: "find a coloured target in an image and optionally drive the arm to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := vision.LoadImage(args[0])
			if err != nil {
				return err
			}

			detector := vision.NewColorDetector()
			detector.MinPixels = minPixels

			found, err := detector.Detect(img)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "nothing detected")
				return nil
			}

			mapper := vision.PixelMapper{PixelsPerUnit: scale, Origin: image.Pt(originX, originY), FlipY: flipY}
			for _, d := range found {
				fmt.Fprintf(out, "%-6s pixel=(%d, %d) area=%d world=%s\n",
					d.Label, d.Center.X, d.Center.Y, d.Area, mapper.ToWorld(d.Center))
			}
			if !run {
				return nil
			}

			target := mapper.ToWorld(found[0].Center)
			a.logger.Info("driving to detected target",
				zap.String("label", found[0].Label),
				zap.Stringer("target", target),
			)

			cfg := a.cfg.Clone()
			cfg.Target = target
			return a.runAndReport(cmd, cfg, noSave, false)
		},
	}
	cmd.Flags().IntVar(&minPixels, "min-pixels", 1, "smallest blob accepted")
	cmd.Flags().Float64Var(&scale, "scale", vision.DefaultPixelsPerUnit, "pixels per world unit")
	cmd.Flags().IntVar(&originX, "origin-x", 0, "pixel column under the arm base")
	cmd.Flags().IntVar(&originY, "origin-y", 0, "pixel row under the arm base")
	cmd.Flags().BoolVar(&flipY, "flip-y", false, "negate y so image rows growing downward map to world y growing upward")
	cmd.Flags().BoolVar(&run, "run", false, "drive the arm to the first detection")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")
	return cmd
}
