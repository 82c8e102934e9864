package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/flock"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestWorld(t *testing.T, snapshotCh chan<- *WorldSnapshot) *WorldActor {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.Groups[0].Count = 5
	cfg.Groups[1].Count = 10
	cfg.Groups[2].Count = 20
	s, err := cfg.NewSystem()
	if err != nil {
		t.Fatal(err)
	}
	return NewWorldActor(snapshotCh, s)
}

func TestWorldActor_Step(t *testing.T) {
	snapshots := make(chan *WorldSnapshot, 1)
	w := newTestWorld(t, snapshots)
	before := w.system.Groups()[2].Agents()[0].Position

	w.step(0.1)
	w.pushSnapshot()
	w.step(0.1)
	w.pushSnapshot() // channel full, frame skipped

	if w.tick != 2 {
		t.Errorf("tick = %d; want 2", w.tick)
	}
	if w.system.Groups()[2].Agents()[0].Position == before {
		t.Error("agents did not move")
	}

	snap := <-snapshots
	if snap.Tick != 1 {
		t.Errorf("snapshot tick = %d; want 1", snap.Tick)
	}
	if len(snap.Groups) != 3 || snap.AgentCount() != 35 {
		t.Errorf("snapshot groups = %d, agents = %d", len(snap.Groups), snap.AgentCount())
	}
	select {
	case extra := <-snapshots:
		t.Errorf("unexpected second snapshot at tick %d", extra.Tick)
	default:
	}
}

func TestWorldActor_SnapshotIsACopy(t *testing.T) {
	w := newTestWorld(t, nil)
	w.pushSnapshot() // nil channel is ignored

	snap := NewWorldSnapshot(w.tick, w.system)
	snap.Groups[0].Agents[0].Position.X = -1e9
	snap.Groups[0].Stats.MaxSpeed = -1
	if w.system.Groups()[0].Agents()[0].Position.X == -1e9 || w.system.Groups()[0].Params().MaxSpeed == -1 {
		t.Error("snapshot shares memory with the system")
	}
}

func TestWorldActor_Apply(t *testing.T) {
	w := newTestWorld(t, nil)

	t.Run("SetParam", func(t *testing.T) {
		if _, err := w.apply(setParamCommand{group: 1, param: flock.ParamCount, value: 4}); err != nil {
			t.Fatal(err)
		}
		w.step(0)
		if n := w.system.Groups()[1].Len(); n != 4 {
			t.Errorf("group 1 has %d agents; want 4", n)
		}
		_, err := w.apply(setParamCommand{group: 9, param: flock.ParamCohesion, value: 1})
		if !errors.Is(err, flock.ErrGroupNotFound) {
			t.Errorf("err = %v; want ErrGroupNotFound", err)
		}
	})

	t.Run("AddRemoveGroup", func(t *testing.T) {
		p := flock.DefaultParams()
		p.Count = 7
		p.Size = geometry.Vector2D{X: 15, Y: 5}
		if _, err := w.apply(addGroupCommand{params: p}); err != nil {
			t.Fatal(err)
		}
		if len(w.system.Groups()) != 4 || w.system.Groups()[3].Len() != 7 {
			t.Fatalf("add group failed: %d groups", len(w.system.Groups()))
		}
		if size := w.system.Groups()[3].Params().Size; size != p.Size {
			t.Errorf("new group size = %v; want %v", size, p.Size)
		}
		if _, err := w.apply(removeGroupCommand{group: 0}); err != nil {
			t.Fatal(err)
		}
		if len(w.system.Groups()) != 3 {
			t.Errorf("groups = %d; want 3", len(w.system.Groups()))
		}
		if _, err := w.apply(removeGroupCommand{group: 3}); !errors.Is(err, flock.ErrGroupNotFound) {
			t.Errorf("err = %v; want ErrGroupNotFound", err)
		}
	})

	t.Run("ResizeWorld", func(t *testing.T) {
		if _, err := w.apply(resizeWorldCommand{width: 640, height: 480}); err != nil {
			t.Fatal(err)
		}
		if w.system.Boundary() != geometry.NewBoundary(0, 0, 640, 480) {
			t.Errorf("Boundary = %v", w.system.Boundary())
		}
	})

	t.Run("Select", func(t *testing.T) {
		reply, err := w.apply(selectCommand{area: geometry.NewBoundary(-1e6, -1e6, 1e6, 1e6)})
		if err != nil {
			t.Fatal(err)
		}
		got, err := SelectedGroup(reply)
		if err != nil {
			t.Fatal(err)
		}
		// groups are now [10->4 agents, 20 agents, 7 agents]
		if got != 1 {
			t.Errorf("selected = %d; want 1", got)
		}
		reply, _ = w.apply(selectCommand{area: geometry.NewBoundary(-1e9, -1e9, -1e8, -1e8)})
		if v := reply.(*wrapperspb.Int64Value).GetValue(); v != -1 {
			t.Errorf("empty area selected %d; want -1", v)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := w.apply(struct{}{}); !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("err = %v; want ErrUnknownCommand", err)
		}
	})
}

func TestWorldActor_ActorSystem(t *testing.T) {
	ctx := context.Background()
	system, err := actor.NewActorSystem("TestSchools",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		t.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })

	snapshots := make(chan *WorldSnapshot, 10)
	pid, err := system.Spawn(ctx, "world", newTestWorld(t, snapshots))
	if err != nil {
		t.Fatal(err)
	}

	if err := actor.Tell(ctx, pid, NewSetParamMessage(0, flock.ParamCount, 0)); err != nil {
		t.Fatal(err)
	}
	if err := actor.Tell(ctx, pid, NewTickMessage(10*time.Millisecond)); err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-snapshots:
		if snap.Tick != 1 || len(snap.Groups[0].Agents) != 0 {
			t.Errorf("snapshot tick %d with %d agents in group 0", snap.Tick, len(snap.Groups[0].Agents))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
	}

	reply, err := actor.Ask(ctx, pid, NewSelectMessage(geometry.NewBoundary(-1e6, -1e6, 1e6, 1e6)), 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := SelectedGroup(reply); err != nil || got != 2 {
		t.Errorf("selected = %d, %v; want 2", got, err)
	}
}
