package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

var trajectoryHeader = []string{"step", "time", "theta1", "theta2", "theta3", "x", "y"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteTrajectoryCSV writes one row per snapshot with a header row.
func WriteTrajectoryCSV(w io.Writer, traj sim.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, snap := range traj {
		row := []string{
			strconv.Itoa(snap.Step),
			formatFloat(snap.Time),
			formatFloat(snap.Angles[0]),
			formatFloat(snap.Angles[1]),
			formatFloat(snap.Angles[2]),
			formatFloat(snap.EndEffector.X),
			formatFloat(snap.EndEffector.Y),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadTrajectoryCSV(r io.Reader) (sim.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trajectoryHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return sim.Trajectory{}, nil
	}

	traj := make(sim.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, trajectoryHeader[j+1], err)
			}
			vals[j] = v
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d column step: %w", i+1, err)
		}

		traj = append(traj, sim.Snapshot{
			Step:        step,
			Time:        vals[0],
			Angles:      kinematics.Angles{vals[1], vals[2], vals[3]},
			EndEffector: kinematics.Point{X: vals[4], Y: vals[5]},
		})
	}
	return traj, nil
}
