package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/storage"
)

type ExportData struct {
	Run         storage.RunMetadata `json:"run"`
	Steps       int                 `json:"steps"`
	Times       []float64           `json:"times"`
	Angles      [][3]float64        `json:"angles"`
	EndEffector []kinematics.Point  `json:"end_effector"`
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, traj sim.Trajectory) error {
	data := ExportData{
		Run:         meta,
		Steps:       len(traj),
		Times:       traj.Times(),
		Angles:      make([][3]float64, len(traj)),
		EndEffector: traj.EndEffectorPath(),
	}
	for i, snap := range traj {
		data.Angles[i] = snap.Angles
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
