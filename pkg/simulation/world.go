package simulation

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/flock"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor is the "Brain." It owns the flock system; ticks and commands reach it as
// messages handled one at a time, so the system itself never needs locking.
type WorldActor struct {
	system *flock.System
	// Communication with UI
	snapshotCh chan<- *WorldSnapshot
	tick       uint64
	// --- Benchmark Stats ---
	tickCount   int
	cmdCount    int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit around an already populated system.
// snapshotCh may be nil when nobody draws the world.
func NewWorldActor(snapshotCh chan<- *WorldSnapshot, system *flock.System) *WorldActor {
	return &WorldActor{
		system:      system,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	if w.system == nil {
		return fmt.Errorf("world actor %s has no flock system", ctx.ActorName())
	}
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("World started: %d groups, %d agents in %s",
			len(w.system.Groups()), w.system.Len(), w.system.Boundary().Size())

	// The Main Simulation Step (Driven by Game Loop)
	case *durationpb.Duration:
		w.logBenchmarks(ctx)
		w.step(msg.AsDuration().Seconds())
		w.pushSnapshot()

	case *structpb.Struct:
		w.cmdCount++
		cmd, err := decodeCommand(msg)
		if err != nil {
			ctx.Logger().Warnf("World rejected command: %v", err)
			ctx.Err(err)
			return
		}
		reply, err := w.apply(cmd)
		if err != nil {
			ctx.Logger().Warnf("World command failed: %v", err)
			ctx.Err(err)
			return
		}
		if reply != nil {
			ctx.Response(reply)
		}

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks", w.tick)
	return nil
}

// step advances the system by dt seconds.
func (w *WorldActor) step(dt float64) {
	w.system.Update(dt)
	w.tick++
	w.tickCount++
}

// apply runs one decoded command. Only select produces a reply.
func (w *WorldActor) apply(cmd any) (proto.Message, error) {
	switch c := cmd.(type) {
	case setParamCommand:
		g, err := w.system.Group(c.group)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", c.param, err)
		}
		g.Bind(c.param).Set(c.value)
	case addGroupCommand:
		w.system.AddGroupWithParams(c.params)
	case removeGroupCommand:
		if err := w.system.RemoveGroup(c.group); err != nil {
			return nil, fmt.Errorf("remove group: %w", err)
		}
	case resizeWorldCommand:
		w.system.SetBoundary(geometry.NewBoundary(0, 0, c.width, c.height))
	case selectCommand:
		return wrapperspb.Int64(int64(w.system.SelectGroup(c.area))), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil, nil
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec (Commands: %d) | Groups: %d | Agents: %d",
			w.tickCount, w.cmdCount, len(w.system.Groups()), w.system.Len())
		w.tickCount = 0
		w.cmdCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- NewWorldSnapshot(w.tick, w.system):
	default:
		// UI busy, skip frame
	}
}
