package blocks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func numberedCommands(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("say %d", i)
	}
	return out
}

func TestPlanChunksSizes(t *testing.T) {
	plan, err := PlanChunks(numberedCommands(25), 10)
	if err != nil {
		t.Fatalf("PlanChunks: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("got %d chunks", len(plan))
	}
	for i, want := range []int{10, 10, 5} {
		if plan[i].Index != i || len(plan[i].Commands) != want {
			t.Fatalf("chunk %d: index %d, %d commands", i, plan[i].Index, len(plan[i].Commands))
		}
	}
	if plan[2].Commands[4] != "say 24" || plan.Total() != 25 {
		t.Fatalf("order not preserved")
	}
}

func TestPlanChunksInvalidSize(t *testing.T) {
	_, err := PlanChunks(numberedCommands(3), 0)
	if !errors.Is(err, ErrInvalidChunkSize) || !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrInvalidChunkSize, got %v", err)
	}
}

func TestFunctionControlStatements(t *testing.T) {
	names := ControlNames{Prefix: "img"}
	plan, _ := PlanChunks(numberedCommands(3), 2)
	got := FunctionControl(names, plan).Statements()
	want := []string{
		"execute if score img_Dummy img_Control matches 0 run function img/data/d0",
		"execute if score img_Dummy img_Control matches 1 run function img/data/d1",
		"execute if score img_Dummy img_Control matches 0.. run scoreboard players add img_Dummy img_Control 1",
		"execute if score img_Dummy img_Control matches 2 run tickingarea remove img_Tickarea",
		"execute if score img_Dummy img_Control matches 2 run scoreboard objectives remove img_Control",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestFunctionControlEmptyPlan(t *testing.T) {
	got := FunctionControl(ControlNames{Prefix: "p"}, nil).Statements()
	if len(got) != 2 {
		t.Fatalf("got %d statements", len(got))
	}
	for _, s := range got {
		if !strings.HasPrefix(s, "execute if score p_Dummy p_Control matches 0 run ") {
			t.Fatalf("teardown not guarded by 0: %s", s)
		}
	}
}

// simulate runs the control statements tick by tick against a single
// counter and reports what each tick executed.
func simulate(t *testing.T, statements []string, maxTicks int) (dispatched []string, teardownTick int) {
	t.Helper()
	counter := 0
	alive := true
	teardownTick = -1
	for tick := 0; tick < maxTicks && alive; tick++ {
		for _, s := range statements {
			if !alive {
				break
			}
			_, rest, ok := strings.Cut(s, " matches ")
			if !ok {
				t.Fatalf("statement without guard: %s", s)
			}
			match, action, _ := strings.Cut(rest, " run ")
			if strings.HasSuffix(match, "..") {
				lo, _ := strconv.Atoi(strings.TrimSuffix(match, ".."))
				if counter < lo {
					continue
				}
			} else if n, _ := strconv.Atoi(match); n != counter {
				continue
			}
			switch {
			case strings.HasPrefix(action, "scoreboard players add"):
				counter++
			case strings.HasPrefix(action, "scoreboard objectives remove"):
				alive = false
				teardownTick = tick
			case strings.HasPrefix(action, "tickingarea remove"), strings.HasPrefix(action, "kill"):
			default:
				dispatched = append(dispatched, action)
			}
		}
	}
	return dispatched, teardownTick
}

func TestFunctionControlDispatchesEachChunkOnce(t *testing.T) {
	names := ControlNames{Prefix: "x"}
	plan, _ := PlanChunks(numberedCommands(25), 10)
	c := FunctionControl(names, plan)
	dispatched, teardown := simulate(t, c.Statements(), 10)
	want := []string{"function x/data/d0", "function x/data/d1", "function x/data/d2"}
	if strings.Join(dispatched, ",") != strings.Join(want, ",") {
		t.Fatalf("dispatched %v", dispatched)
	}
	if teardown != 2 {
		t.Fatalf("teardown at tick %d, want 2", teardown)
	}
	if s, ok := c.State(3); !ok || s != Exhausted {
		t.Fatalf("State(3) = %v, %v", s, ok)
	}
	if s, ok := c.State(1); !ok || s != Running {
		t.Fatalf("State(1) = %v, %v", s, ok)
	}
}

func TestFrameControl(t *testing.T) {
	names := ControlNames{Prefix: "vid"}
	got := FrameControl(names, 2).Statements()
	if got[0] != "execute as @e[name=__vid,c=1] at @s if score vid_Dummy vid_Control matches 0 run structure load vid:d0 ~~~" {
		t.Fatalf("frame dispatch %q", got[0])
	}
	if got[4] != "execute if score vid_Dummy vid_Control matches 2 run kill @e[type=armor_stand,name=__vid]" {
		t.Fatalf("marker teardown %q", got[4])
	}
	if len(got) != 6 {
		t.Fatalf("got %d statements", len(got))
	}
}

func TestSharedFrameControlReusesStructures(t *testing.T) {
	names := ControlNames{Prefix: "vid"}
	got := SharedFrameControl(names, []int{0, 0, 2}).Statements()
	if !strings.HasSuffix(got[1], "matches 1 run structure load vid:d0 ~~~") {
		t.Fatalf("repeated frame %q", got[1])
	}
	if !strings.HasSuffix(got[2], "matches 2 run structure load vid:d2 ~~~") {
		t.Fatalf("distinct frame %q", got[2])
	}
}

func TestStartAndPlayScripts(t *testing.T) {
	names := ControlNames{Prefix: "img"}
	start := StartScript(names, 4, 3, 1)
	if start[1] != "tickingarea add ~~~ ~3 ~2 ~0 img_Tickarea" {
		t.Fatalf("start tickingarea %q", start[1])
	}
	if start[2] != "execute unless score img_Dummy img_Control matches 0.. run scoreboard players set img_Dummy img_Control 0" {
		t.Fatalf("start counter %q", start[2])
	}
	play := FramePlay(names, 4, 1, 3)
	if play[1] != "execute as @e[name=__img,c=1] at @s run tickingarea add ~~~ ~3 ~0 ~2 img_Tickarea" {
		t.Fatalf("play tickingarea %q", play[1])
	}
	setup := FrameSetup(names)
	if setup[0] != "execute as @p at @s run summon minecraft:armor_stand __img" {
		t.Fatalf("setup %q", setup[0])
	}
}
