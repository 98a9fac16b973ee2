package blocks

import "fmt"

// Chunk is one function file worth of commands.
type Chunk struct {
	Index    int
	Commands []string
}

// ChunkPlan partitions a command stream into consecutive chunks.
type ChunkPlan []Chunk

// PlanChunks splits commands into chunks of at most maxChunkSize, preserving order.
func PlanChunks(commands []string, maxChunkSize int) (ChunkPlan, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, maxChunkSize)
	}
	plan := make(ChunkPlan, 0, (len(commands)+maxChunkSize-1)/maxChunkSize)
	for start := 0; start < len(commands); start += maxChunkSize {
		end := min(start+maxChunkSize, len(commands))
		plan = append(plan, Chunk{Index: len(plan), Commands: commands[start:end]})
	}
	return plan, nil
}

// Total is the number of commands across all chunks.
func (p ChunkPlan) Total() int {
	n := 0
	for _, c := range p {
		n += len(c.Commands)
	}
	return n
}

// ControlNames are the in-world identifiers a generated pack owns.
type ControlNames struct {
	Prefix string
}

func (n ControlNames) Objective() string { return n.Prefix + "_Control" }
func (n ControlNames) Player() string { return n.Prefix + "_Dummy" }
func (n ControlNames) TickArea() string { return n.Prefix + "_Tickarea" }
func (n ControlNames) Marker() string { return "__" + n.Prefix }
func (n ControlNames) ControlPath() string { return n.Prefix + "/aux/control" }

// ChunkFunction is the function path that replays chunk i.
func (n ControlNames) ChunkFunction(i int) string {
	return fmt.Sprintf("%s/data/d%d", n.Prefix, i)
}

// FrameStructure is the structure id of frame i.
func (n ControlNames) FrameStructure(i int) string {
	return fmt.Sprintf("%s:d%d", n.Prefix, i)
}

func (n ControlNames) ifScore(match string) string {
	return fmt.Sprintf("execute if score %s %s matches %s run ", n.Player(), n.Objective(), match)
}

// ControlState is the phase of the tick counter.
type ControlState uint8

const (
	// Running: counter in [0, chunks); the matching chunk is dispatched and the counter advances.
	Running ControlState = iota
	// Exhausted: counter == chunks; the tick area and objective are torn down.
	Exhausted
)

func (s ControlState) String() string {
	if s == Exhausted {
		return "exhausted"
	}
	return "running"
}

// Controller renders the per-tick control function of a pack that replays
// steps in counter order. Step renders the dispatch for step i; Teardown
// lists the extra statements run once the counter reaches the step count.
type Controller struct {
	Names    ControlNames
	Steps    int
	Step     func(i int) string
	Teardown []string
}

// State reports the phase for a counter value. Negative values mean the
// objective has not been initialised and nothing runs.
func (c Controller) State(counter int) (ControlState, bool) {
	switch {
	case counter < 0 || counter > c.Steps:
		return 0, false
	case counter == c.Steps:
		return Exhausted, true
	}
	return Running, true
}

// Statements renders the control function. Dispatch and advance statements
// exist only while there is something to run; an empty controller renders
// the teardown group guarded by counter == 0.
func (c Controller) Statements() []string {
	var out []string
	if c.Steps > 0 {
		for i := 0; i < c.Steps; i++ {
			out = append(out, c.Step(i))
		}
		out = append(out, c.Names.ifScore("0..")+
			fmt.Sprintf("scoreboard players add %s %s 1", c.Names.Player(), c.Names.Objective()))
	}
	done := c.Names.ifScore(fmt.Sprint(c.Steps))
	out = append(out, done+"tickingarea remove "+c.Names.TickArea())
	for _, t := range c.Teardown {
		out = append(out, done+t)
	}
	out = append(out, done+"scoreboard objectives remove "+c.Names.Objective())
	return out
}

// FunctionControl dispatches one chunk function per tick.
func FunctionControl(names ControlNames, plan ChunkPlan) Controller {
	return Controller{
		Names: names,
		Steps: len(plan),
		Step: func(i int) string {
			return names.ifScore(fmt.Sprint(i)) + "function " + names.ChunkFunction(plan[i].Index)
		},
	}
}

// FrameControl loads one frame structure per tick at the marker entity and
// removes the marker when the animation ends.
func FrameControl(names ControlNames, frames int) Controller {
	refs := make([]int, frames)
	for i := range refs {
		refs[i] = i
	}
	return SharedFrameControl(names, refs)
}

// SharedFrameControl is FrameControl for packs that store repeated frames
// once: tick i loads structure refs[i].
func SharedFrameControl(names ControlNames, refs []int) Controller {
	return Controller{
		Names: names,
		Steps: len(refs),
		Step: func(i int) string {
			return fmt.Sprintf("execute as @e[name=%s,c=1] at @s if score %s %s matches %d run structure load %s ~~~",
				names.Marker(), names.Player(), names.Objective(), i, names.FrameStructure(refs[i]))
		},
		Teardown: []string{"kill @e[type=armor_stand,name=" + names.Marker() + "]"},
	}
}

func tickingAreaAdd(names ControlNames, w, h, d int) string {
	return fmt.Sprintf("tickingarea add ~~~ ~%d ~%d ~%d %s", w-1, h-1, d-1, names.TickArea())
}

func initCounter(names ControlNames) string {
	return fmt.Sprintf("execute unless score %[1]s %[2]s matches 0.. run scoreboard players set %[1]s %[2]s 0",
		names.Player(), names.Objective())
}

// StartScript bootstraps a function pack placed from the player's position.
// (w, h, d) is the world-space size of the build.
func StartScript(names ControlNames, w, h, d int) []string {
	return []string{
		"scoreboard objectives add " + names.Objective() + " dummy",
		tickingAreaAdd(names, w, h, d),
		initCounter(names),
	}
}

// FrameSetup summons the invisible marker that anchors frame playback.
func FrameSetup(names ControlNames) []string {
	return []string{
		"execute as @p at @s run summon minecraft:armor_stand " + names.Marker(),
		fmt.Sprintf("execute as @e[type=minecraft:armor_stand,name=%s] at @s run effect @s invisibility 999999 0 true", names.Marker()),
	}
}

// FramePlay starts playback at the marker. (w, h, d) is the world-space size of one frame.
func FramePlay(names ControlNames, w, h, d int) []string {
	return []string{
		"scoreboard objectives add " + names.Objective() + " dummy",
		fmt.Sprintf("execute as @e[name=%s,c=1] at @s run ", names.Marker()) + tickingAreaAdd(names, w, h, d),
		initCounter(names),
	}
}

// FrameClear loads the air structure at the marker to wipe the last frame.
func FrameClear(names ControlNames) []string {
	return []string{
		fmt.Sprintf("execute as @e[name=%s,c=1] at @s run structure load %s:clear ~~~", names.Marker(), names.Prefix),
	}
}
