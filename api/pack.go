package api

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/mcpack"
)

// FunctionPack lays out a function pack that rebuilds cube with fill
// commands, maxCommands per tick.
func FunctionPack(cube *blocks.BlockCube, plane blocks.Plane, m *mcpack.Manifest, icon []byte, maxCommands int, opts blocks.CommandOptions) (*mcpack.Frame, blocks.ChunkPlan, error) {
	plan, err := blocks.PlanChunks(blocks.Commands(cube, plane, opts), maxCommands)
	if err != nil {
		return nil, nil, err
	}
	frame, err := mcpack.NewFrame(m, icon)
	if err != nil {
		return nil, nil, err
	}
	names := blocks.ControlNames{Prefix: m.PackPrefix()}
	for _, c := range plan {
		frame.Function("data", fmt.Sprintf("d%d", c.Index)).WriteString(blocks.JoinLines(c.Commands))
	}
	frame.Function("aux", "control").WriteString(blocks.JoinLines(blocks.FunctionControl(names, plan).Statements()))
	w, h, d := plane.Dims(cube.X, cube.Y, cube.Z)
	frame.Function("start").WriteString(blocks.JoinLines(blocks.StartScript(names, w, h, d)))
	if err := frame.SetTick(names.ControlPath()); err != nil {
		return nil, nil, err
	}
	return frame, plan, nil
}

// StructurePack lays out a pack holding cube as structures/<prefix>/data.mcstructure.
func StructurePack(cube *blocks.BlockCube, plane blocks.Plane, m *mcpack.Manifest, icon []byte) (*mcpack.Frame, error) {
	frame, err := mcpack.NewFrame(m, icon)
	if err != nil {
		return nil, err
	}
	data, err := blocks.EncodeStructure(cube, plane).Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode structure: %w", err)
	}
	frame.Structure("data").Set(data)
	return frame, nil
}

// VideoPack assembles a detached video pack one frame at a time: every frame
// becomes structures/<prefix>/d<i>.mcstructure and the control function
// loads them at the marker, one per tick.
type VideoPack struct {
	Frame *mcpack.Frame

	plane  blocks.Plane
	names  blocks.ControlNames
	dedupe bool
	seen   map[uint64][]int
	refs   []int
	size   [3]int
}

// NewVideoPack starts a video pack. With dedupe set, a frame identical to an
// earlier one is not stored again and its tick reloads the earlier structure.
func NewVideoPack(plane blocks.Plane, m *mcpack.Manifest, icon []byte, dedupe bool) (*VideoPack, error) {
	frame, err := mcpack.NewFrame(m, icon)
	if err != nil {
		return nil, err
	}
	return &VideoPack{
		Frame:  frame,
		plane:  plane,
		names:  blocks.ControlNames{Prefix: m.PackPrefix()},
		dedupe: dedupe,
		seen:   make(map[uint64][]int),
	}, nil
}

// Add appends the next frame. All frames must share the first frame's size.
func (v *VideoPack) Add(frame *blocks.BlockCube) error {
	size := [3]int{frame.X, frame.Y, frame.Z}
	if len(v.refs) == 0 {
		v.size = size
	} else if size != v.size {
		return fmt.Errorf("%w: frame %d is %v, want %v", blocks.ErrPrecondition, len(v.refs), size, v.size)
	}
	data, err := blocks.EncodeStructure(frame, v.plane).Marshal()
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", len(v.refs), err)
	}
	i := len(v.refs)
	if v.dedupe {
		sum := xxhash.Sum64(data)
		for _, j := range v.seen[sum] {
			if bytes.Equal(v.structure(j).Bytes(), data) {
				v.refs = append(v.refs, j)
				return nil
			}
		}
		v.seen[sum] = append(v.seen[sum], i)
	}
	v.structure(i).Set(data)
	v.refs = append(v.refs, i)
	return nil
}

func (v *VideoPack) structure(i int) *mcpack.File {
	return v.Frame.Structure(fmt.Sprintf("d%d", i))
}

// Frames is the number of frames added so far.
func (v *VideoPack) Frames() int { return len(v.refs) }

// Stored is the number of distinct frame structures.
func (v *VideoPack) Stored() int {
	n := 0
	for i, r := range v.refs {
		if r == i {
			n++
		}
	}
	return n
}

// Close writes the control, setO, play and clear functions, the clear
// structure and the tick registration.
func (v *VideoPack) Close() (*mcpack.Frame, error) {
	if len(v.refs) == 0 {
		return nil, blocks.ErrUnreadableSource
	}
	f := v.Frame
	f.Function("aux", "control").WriteString(blocks.JoinLines(blocks.SharedFrameControl(v.names, v.refs).Statements()))
	f.Function("setO").WriteString(blocks.JoinLines(blocks.FrameSetup(v.names)))
	w, h, d := v.plane.Dims(v.size[0], v.size[1], v.size[2])
	f.Function("play").WriteString(blocks.JoinLines(blocks.FramePlay(v.names, w, h, d)))
	f.Function("clear").WriteString(blocks.JoinLines(blocks.FrameClear(v.names)))
	air, err := blocks.AirStructure(v.size[0], v.size[1], v.size[2], v.plane).Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode clear structure: %w", err)
	}
	f.Structure("clear").Set(air)
	if err := f.SetTick(v.names.ControlPath()); err != nil {
		return nil, err
	}
	return f, nil
}
