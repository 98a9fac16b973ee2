package blocks

import (
	"fmt"
	"strings"
)

// CommandRun is a maximal stretch of equal blocks along the x axis of one row.
type CommandRun struct {
	BlockID  string
	From, To Pos
}

// Len is the number of cells the run covers.
func (r CommandRun) Len() int { return r.To.X - r.From.X + 1 }

// Runs scans the grid z-major, then y, then x, and merges equal neighbours
// within each row. The runs of a row cover it exactly once.
func Runs(cube *BlockCube) []CommandRun {
	var runs []CommandRun
	for z := 0; z < cube.Z; z++ {
		for y := 0; y < cube.Y; y++ {
			start := 0
			for x := 1; x <= cube.X; x++ {
				if x < cube.X && cube.At(x, y, z) == cube.At(start, y, z) {
					continue
				}
				runs = append(runs, CommandRun{
					BlockID: cube.At(start, y, z),
					From:    Pos{start, y, z},
					To:      Pos{x - 1, y, z},
				})
				start = x
			}
		}
	}
	return runs
}

// CommandOptions tune how runs are rendered.
type CommandOptions struct {
	// LegacyExecute selects the pre-1.19.50 "execute @p ~ ~ ~" form.
	LegacyExecute bool
	// Offset is added to both corners of every fill.
	Offset Pos
}

// Commands renders every run of cube as a relative fill issued from the
// nearest player, with corners permuted by plane.
func Commands(cube *BlockCube, plane Plane, opts CommandOptions) []string {
	runs := Runs(cube)
	out := make([]string, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunCommand(r, plane, opts))
	}
	return out
}

// RunCommand renders a single run.
func RunCommand(r CommandRun, plane Plane, opts CommandOptions) string {
	from := plane.MapPos(r.From)
	to := plane.MapPos(r.To)
	from = Pos{from.X + opts.Offset.X, from.Y + opts.Offset.Y, from.Z + opts.Offset.Z}
	to = Pos{to.X + opts.Offset.X, to.Y + opts.Offset.Y, to.Z + opts.Offset.Z}
	return executeAsPlayer(fill(from, to, r.BlockID), opts.LegacyExecute)
}

func fill(from, to Pos, id string) string {
	return fmt.Sprintf("fill %s %s %s replace", relative(from), relative(to), id)
}

func relative(p Pos) string {
	return fmt.Sprintf("~%d ~%d ~%d", p.X, p.Y, p.Z)
}

func executeAsPlayer(cmd string, legacy bool) string {
	if legacy {
		return "execute @p ~ ~ ~ " + cmd
	}
	return "execute as @p at @s run " + cmd
}

// JoinLines renders statements as a function file body, one per line.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
