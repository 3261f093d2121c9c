// Package export renders stored trajectories as JSON, SVG and PNG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b bounds) project(p kinematics.Point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

// pathBounds fits points with 10% padding.
func pathBounds(points []kinematics.Point) bounds {
	b := bounds{points[0].X, points[0].X, points[0].Y, points[0].Y}
	for _, p := range points {
		if p.X < b.minX {
			b.minX = p.X
		}
		if p.X > b.maxX {
			b.maxX = p.X
		}
		if p.Y < b.minY {
			b.minY = p.Y
		}
		if p.Y > b.maxY {
			b.maxY = p.Y
		}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

// reachBounds is the square workspace centred on the base.
func reachBounds(reach float64) bounds {
	r := reach * 1.1
	return bounds{-r, r, -r, r}
}

func svgHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func writePath(sb *strings.Builder, points []kinematics.Point, b bounds, width, height int, stroke string) {
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range points {
		x, y := b.project(p, width, height)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// TrajectorySVG draws the end-effector path scaled to fit. Fewer than two
// points produce an empty string.
func TrajectorySVG(path []kinematics.Point, width, height int, strokeColor string) string {
	if len(path) < 2 {
		return ""
	}

	var sb strings.Builder
	svgHeader(&sb, width, height)
	writePath(&sb, path, pathBounds(path), width, height, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// ArmSVG draws the workspace boundary, the target, the end-effector path and
// the arm's final pose.
func ArmSVG(links kinematics.Links, traj sim.Trajectory, target kinematics.Point, width, height int) string {
	arm := kinematics.NewArm(links)
	b := reachBounds(links.Reach())

	var sb strings.Builder
	svgHeader(&sb, width, height)

	cx, cy := b.project(kinematics.Point{}, width, height)
	rx := links.Reach() / (b.maxX - b.minX) * float64(width)
	ry := links.Reach() / (b.maxY - b.minY) * float64(height)
	fmt.Fprintf(&sb, `<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="none" stroke="#333333" stroke-dasharray="4 4"/>
`, cx, cy, rx, ry)

	tx, ty := b.project(target, width, height)
	fmt.Fprintf(&sb, `<g stroke="#ff5555" stroke-width="2"><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/></g>
`, tx-6, ty-6, tx+6, ty+6, tx-6, ty+6, tx+6, ty-6)

	if path := traj.EndEffectorPath(); len(path) >= 2 {
		writePath(&sb, path, b, width, height, "#00ff00")
	}

	var q kinematics.Angles
	if last, ok := traj.Last(); ok {
		q = last.Angles
	}
	joints := arm.JointPositions(q)

	sb.WriteString(`<polyline fill="none" stroke="#8be9fd" stroke-width="4" stroke-linecap="round" points="`)
	for i, p := range joints {
		x, y := b.project(p, width, height)
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n<g fill=\"#f8f8f2\">\n")
	for _, p := range joints {
		x, y := b.project(p, width, height)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4"/>
`, x, y)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
