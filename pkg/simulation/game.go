package simulation

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/flock"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/proto"
)

const (
	// maxFrameTime caps dt so a stalled window does not teleport every agent.
	maxFrameTime = 100 * time.Millisecond
	askTimeout   = 200 * time.Millisecond
	// newGroupCount is the population of a group added from the panel.
	newGroupCount = 50
)

// paramSlider describes the panel slider of one group parameter.
type paramSlider struct {
	param    flock.Param
	label    string
	min, max float64
}

var steeringSliders = []paramSlider{
	{flock.ParamCount, "Count", 0, 1000},
	{flock.ParamCohesion, "Cohesion", 0, 1},
	{flock.ParamSeparation, "Separation", 0, 1},
	{flock.ParamAlignment, "Alignment", 0, 1},
	{flock.ParamFriendliness, "Friendliness", 0, 1},
	{flock.ParamViewDistance, "View Distance", 1, 300},
	{flock.ParamMinSeparationDistance, "Min Separation", 1, 100},
	{flock.ParamMaxSpeed, "Max Speed", 1, 400},
}

var shapeSliders = []paramSlider{
	{flock.ParamSizeX, "Length", 1, 40},
	{flock.ParamSizeY, "Width", 1, 40},
	{flock.ParamColorR, "Red", 0, 1},
	{flock.ParamColorG, "Green", 0, 1},
	{flock.ParamColorB, "Blue", 0, 1},
}

// paramBinding is a ui.Binding on a parameter of a group living inside the world actor.
// Reads come from a local cache refreshed by snapshots, writes are sent as set commands.
type paramBinding struct {
	send  func(proto.Message)
	group int
	param flock.Param
	value float64
}

func (b *paramBinding) Get() float64 {
	return b.value
}

func (b *paramBinding) Set(v float64) {
	if v == b.value {
		return
	}
	b.value = v
	if b.group >= 0 {
		b.send(NewSetParamMessage(b.group, b.param, v))
	}
}

// refresh loads the cached value from a snapshot without sending anything.
func (b *paramBinding) refresh(snap *WorldSnapshot) {
	if snap == nil || b.group < 0 || b.group >= len(snap.Groups) {
		return
	}
	b.value = snap.Groups[b.group].Stats.Value(b.param)
}

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *WorldSnapshot
	lastState  *WorldSnapshot
	cfg        *Config

	// UI Controls
	panel          *ui.UIPanel
	selection      *ui.Selection
	sliders        []*ui.Slider
	bindings       []*paramBinding
	showViewRadius bool
	groupBox       *ui.ValueBinding
	agentsBox      *ui.ValueBinding
	selected       int

	width, height int
	lastUpdate    time.Time
	whiteImage    *ebiten.Image

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// GetNewGame spawns the world actor for cfg on system and builds the control panel.
func GetNewGame(ctx context.Context, cfg *Config, system actor.ActorSystem) (*Game, error) {
	flockSystem, err := cfg.NewSystem()
	if err != nil {
		return nil, fmt.Errorf("failed to build flock system: %w", err)
	}

	// Buffer to avoid blocking the world when the UI lags
	snapshotCh := make(chan *WorldSnapshot, 10)

	worldPID, err := system.Spawn(ctx, "world", NewWorldActor(snapshotCh, flockSystem))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  NewWorldSnapshot(0, flockSystem),
		cfg:        cfg,
		width:      int(cfg.WorldWidth),
		height:     int(cfg.WorldHeight),
	}
	g.buildPanel()
	g.selectGroup(0)
	return g, nil
}

// tell sends msg to the world, fire and forget.
func (g *Game) tell(msg proto.Message) {
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		g.System.Logger().Warnf("failed to send %T to world: %v", msg, err)
	}
}

func (g *Game) buildPanel() {
	g.panel = ui.NewUIPanel(10, 10, 260, g.cfg.WorldHeight-20)
	g.panel.Title = "Schools of fish"
	g.selection = ui.NewSelection()
	g.groupBox = ui.NewValueBinding(-1)
	g.agentsBox = ui.NewValueBinding(0)

	g.panel.AddSection("Selected group (drag to select)")
	g.panel.AddTextBox("Group", g.groupBox).Format = "%.0f"
	g.panel.AddTextBox("Agents", g.agentsBox).Format = "%.0f"

	addSliders := func(title string, specs []paramSlider) {
		g.panel.AddSection(title)
		for _, s := range specs {
			b := &paramBinding{send: g.tell, group: -1, param: s.param}
			g.bindings = append(g.bindings, b)
			g.sliders = append(g.sliders, g.panel.AddSlider(s.label, s.min, s.max, b))
		}
	}
	addSliders("Steering", steeringSliders)
	addSliders("Shape & Color", shapeSliders)

	g.panel.AddSection("World")
	g.showViewRadius = g.cfg.ShowViewRadius
	g.panel.AddCheckbox("Show view radius", g.showViewRadius).OnChange = func(v bool) {
		g.showViewRadius = v
	}
	g.panel.AddButton("Add group", func() {
		g.tell(NewAddGroupMessage(g.newGroupParams()))
	})
	g.panel.AddButton("Remove group", g.removeSelected)
}

// selectGroup rebinds every slider to group i, -1 detaches them.
func (g *Game) selectGroup(i int) {
	if g.lastState == nil || i >= len(g.lastState.Groups) {
		i = -1
	}
	g.selected = i
	g.groupBox.Set(float64(i))
	for k, b := range g.bindings {
		b.group = i
		b.refresh(g.lastState)
		g.sliders[k].Bind(b)
	}
}

// newGroupParams copies the selected group, or the first configured one, with newGroupCount agents.
func (g *Game) newGroupParams() flock.Params {
	p := flock.DefaultParams()
	switch {
	case g.lastState != nil && g.selected >= 0 && g.selected < len(g.lastState.Groups):
		p = g.lastState.Groups[g.selected].Stats.Params()
	case len(g.cfg.Groups) > 0:
		if cp, err := g.cfg.Groups[0].Params(); err == nil {
			p = cp
		}
	}
	p.Count = newGroupCount
	return p
}

func (g *Game) removeSelected() {
	if g.selected < 0 {
		return
	}
	g.tell(NewRemoveGroupMessage(g.selected))
	g.selectGroup(-1)
}

// askSelect asks the world which group fills area the most.
func (g *Game) askSelect(area geometry.Boundary) {
	reply, err := actor.Ask(g.ctx, g.worldPID, NewSelectMessage(area), askTimeout)
	if err != nil {
		g.System.Logger().Warnf("selection failed: %v", err)
		return
	}
	i, err := SelectedGroup(reply)
	if err != nil {
		g.System.Logger().Warnf("selection failed: %v", err)
		return
	}
	g.selectGroup(i)
}

// receiveSnapshot keeps the most recent snapshot waiting in the channel, if any.
func (g *Game) receiveSnapshot() {
	for {
		select {
		case snap := <-g.snapshotCh:
			g.applySnapshot(snap)
		default:
			return
		}
	}
}

func (g *Game) applySnapshot(snap *WorldSnapshot) {
	g.lastState = snap
	if g.selected >= len(snap.Groups) {
		g.selectGroup(-1)
	}
	for k, b := range g.bindings {
		if !g.sliders[k].Grabbed() {
			b.refresh(snap)
		}
	}
	if g.selected >= 0 {
		g.agentsBox.Set(float64(snap.Groups[g.selected].Stats.Count))
	} else {
		g.agentsBox.Set(float64(snap.AgentCount()))
	}
}

// frameTime is the wall clock time since the previous frame, capped at maxFrameTime.
func (g *Game) frameTime(now time.Time) time.Duration {
	if g.lastUpdate.IsZero() {
		g.lastUpdate = now
		return 0
	}
	dt := now.Sub(g.lastUpdate)
	g.lastUpdate = now
	return min(dt, maxFrameTime)
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update()

	// 2. Selection rectangle, only when the drag starts outside the panel
	mx, my := ebiten.CursorPosition()
	mouse := geometry.Vector2D{X: float64(mx), Y: float64(my)}
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	canStart := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.panel.Contains(mouse.X, mouse.Y)
	if area, done := g.selection.HandleMouse(mouse, pressed, canStart); done {
		g.askSelect(area)
	}

	// 3. Retrieve Latest State (Non-blocking)
	g.receiveSnapshot()

	// 4. Trigger Simulation Step
	g.tell(NewTickMessage(g.frameTime(time.Now())))

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(color.RGBA{R: 10, G: 20, B: 40, A: 255})

	// 1. Draw all groups from the last known snapshot
	if g.lastState != nil {
		for i, group := range g.lastState.Groups {
			if g.showViewRadius {
				g.drawViewRadius(screen, group, i == g.selected)
			}
			g.drawGroup(screen, group)
		}
	}

	// 2. Draw UI Panel and the selection in progress
	g.panel.Draw(screen)
	g.selection.Draw(screen)

	// 3. Performance stats on the right side
	agents, tick := 0, uint64(0)
	if g.lastState != nil {
		agents, tick = g.lastState.AgentCount(), g.lastState.Tick
	}
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nTick: %d\nAgents: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		tick,
		agents,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-150, 10)
}

func (g *Game) drawViewRadius(screen *ebiten.Image, group GroupSnapshot, selected bool) {
	clr := color.RGBA{R: 255, G: 255, B: 255, A: 30}
	if selected {
		clr.A = 80
	}
	for _, a := range group.Agents {
		vector.StrokeCircle(screen,
			float32(a.Position.X), float32(a.Position.Y),
			float32(group.Stats.ViewDistance),
			1, clr, true)
	}
}

// drawGroup renders every agent of group as a triangle pointing along its heading,
// Size.X long and Size.Y wide, in one DrawTriangles call.
func (g *Game) drawGroup(screen *ebiten.Image, group GroupSnapshot) {
	if len(group.Agents) == 0 {
		return
	}
	if g.whiteImage == nil {
		g.whiteImage = ebiten.NewImage(3, 3)
		g.whiteImage.Fill(color.White)
	}

	r, gr, b, a := group.Stats.Color.RGBA()
	cr, cg, cb, ca := float32(r)/0xffff, float32(gr)/0xffff, float32(b)/0xffff, float32(a)/0xffff

	vertices := make([]ebiten.Vertex, 0, 3*len(group.Agents))
	indices := make([]uint16, 0, 3*len(group.Agents))
	for _, agent := range group.Agents {
		for _, p := range triangle(agent, group.Stats.Size) {
			vertices = append(vertices, ebiten.Vertex{
				DstX: float32(p.X), DstY: float32(p.Y),
				SrcX: 1, SrcY: 1,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
			indices = append(indices, uint16(len(vertices)-1))
		}
	}

	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(vertices, indices, g.whiteImage, op)
}

// triangle returns the tip and the two back corners of an agent's shape.
// Heading is the angle that rotates the velocity onto +X, so the velocity angle is its opposite.
func triangle(a flock.AgentView, size geometry.Vector2D) [3]geometry.Vector2D {
	theta := -a.Heading * math.Pi / 180
	forward := geometry.Vector2D{X: size.X / 2}.Rotate(theta)
	side := geometry.Vector2D{Y: size.Y / 2}.Rotate(theta)
	back := a.Position.Sub(forward)
	return [3]geometry.Vector2D{
		a.Position.Add(forward),
		back.Add(side),
		back.Sub(side),
	}
}

// Layout follows the window: the arena is resized to match it.
func (g *Game) Layout(w, h int) (int, int) {
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.panel.Height = float64(h) - 20
		g.tell(NewResizeWorldMessage(float64(w), float64(h)))
	}
	return w, h
}
