package blocks

import (
	"math/rand"
	"strings"
	"testing"
)

func cubeFromRows(rows ...string) *BlockCube {
	// each row string lists one block letter per x; rows are y = 0, 1, ...
	cube := NewBlockCube(len(rows[0]), len(rows), 1)
	for y, r := range rows {
		for x, ch := range r {
			cube.Set(x, y, 0, string(ch))
		}
	}
	return cube
}

func TestCommandsSingleRun(t *testing.T) {
	cube := NewBlockCube(2, 1, 1)
	cube.Set(0, 0, 0, "minecraft:stone")
	cube.Set(1, 0, 0, "minecraft:stone")
	cmds := Commands(cube, PlaneXY, CommandOptions{})
	want := "execute as @p at @s run fill ~0 ~0 ~0 ~1 ~0 ~0 minecraft:stone replace"
	if len(cmds) != 1 || cmds[0] != want {
		t.Fatalf("got %q", cmds)
	}
}

func TestRunsSplitOnChange(t *testing.T) {
	runs := Runs(cubeFromRows("aab"))
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	if runs[0].BlockID != "a" || runs[0].From.X != 0 || runs[0].To.X != 1 {
		t.Fatalf("first run %+v", runs[0])
	}
	if runs[1].BlockID != "b" || runs[1].From.X != 2 || runs[1].To.X != 2 {
		t.Fatalf("last run %+v", runs[1])
	}
}

func TestRunsCoverEveryRowOnce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	cube := NewBlockCube(17, 5, 3)
	for x := 0; x < cube.X; x++ {
		for y := 0; y < cube.Y; y++ {
			for z := 0; z < cube.Z; z++ {
				cube.Set(x, y, z, string(rune('a'+r.Intn(3))))
			}
		}
	}
	covered := map[Pos]int{}
	prev := Pos{-1, 0, 0}
	for _, run := range Runs(cube) {
		if run.From.Y != run.To.Y || run.From.Z != run.To.Z {
			t.Fatalf("run spans rows: %+v", run)
		}
		if run.From.Z < prev.Z || (run.From.Z == prev.Z && run.From.Y < prev.Y) {
			t.Fatalf("runs out of z, y order at %+v", run)
		}
		prev = run.From
		for x := run.From.X; x <= run.To.X; x++ {
			if cube.At(x, run.From.Y, run.From.Z) != run.BlockID {
				t.Fatalf("run %+v covers a different block at x=%d", run, x)
			}
			covered[Pos{x, run.From.Y, run.From.Z}]++
		}
	}
	if len(covered) != cube.Len() {
		t.Fatalf("covered %d of %d cells", len(covered), cube.Len())
	}
	for p, n := range covered {
		if n != 1 {
			t.Fatalf("cell %v covered %d times", p, n)
		}
	}
}

func TestCommandsPlanePermutesCorners(t *testing.T) {
	cube := cubeFromRows("aa", "bb", "cc")
	cmds := Commands(cube, PlaneXZ, CommandOptions{})
	if len(cmds) != 3 {
		t.Fatalf("got %d commands", len(cmds))
	}
	if !strings.Contains(cmds[2], "fill ~0 ~0 ~2 ~1 ~0 ~2 c replace") {
		t.Fatalf("xz corners not permuted: %s", cmds[2])
	}
	cmds = Commands(cube, PlaneZY, CommandOptions{})
	if !strings.Contains(cmds[1], "fill ~0 ~1 ~0 ~0 ~1 ~1 b replace") {
		t.Fatalf("zy corners not permuted: %s", cmds[1])
	}
}

func TestCommandsLegacyAndOffset(t *testing.T) {
	cmds := Commands(cubeFromRows("a"), PlaneXY, CommandOptions{LegacyExecute: true, Offset: Pos{1, 2, 3}})
	want := "execute @p ~ ~ ~ fill ~1 ~2 ~3 ~1 ~2 ~3 a replace"
	if cmds[0] != want {
		t.Fatalf("got %q, want %q", cmds[0], want)
	}
}

func TestCommandsEmptyGrid(t *testing.T) {
	if cmds := Commands(NewBlockCube(0, 0, 0), PlaneXY, CommandOptions{}); len(cmds) != 0 {
		t.Fatalf("expected no commands, got %d", len(cmds))
	}
}
