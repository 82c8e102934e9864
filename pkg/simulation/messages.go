package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/flock"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The world actor speaks protobuf well-known types:
//   - *durationpb.Duration is a simulation tick of that length
//   - *structpb.Struct is a command, its "command" field names the operation
//   - *wrapperspb.Int64Value is the reply to a select command
var (
	ErrUnknownCommand = errors.New("unknown world command")
	ErrInvalidCommand = errors.New("invalid world command")
)

const (
	cmdSetParam    = "setParam"
	cmdAddGroup    = "addGroup"
	cmdRemoveGroup = "removeGroup"
	cmdResizeWorld = "resizeWorld"
	cmdSelect      = "select"
)

// NewTickMessage advances the simulation by dt.
func NewTickMessage(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

func newCommand(name string, fields map[string]float64) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields)+1)}
	s.Fields["command"] = structpb.NewStringValue(name)
	for k, v := range fields {
		s.Fields[k] = structpb.NewNumberValue(v)
	}
	return s
}

// NewSetParamMessage writes one parameter of one group.
func NewSetParamMessage(group int, p flock.Param, value float64) *structpb.Struct {
	s := newCommand(cmdSetParam, map[string]float64{"group": float64(group), "value": value})
	s.Fields["param"] = structpb.NewStringValue(p.String())
	return s
}

// NewAddGroupMessage appends a group populated from p, one field per parameter.
func NewAddGroupMessage(p flock.Params) *structpb.Struct {
	fields := make(map[string]float64, len(flock.AllParams()))
	for _, param := range flock.AllParams() {
		fields[param.String()] = p.Get(param)
	}
	return newCommand(cmdAddGroup, fields)
}

// NewRemoveGroupMessage deletes a group by index.
func NewRemoveGroupMessage(group int) *structpb.Struct {
	return newCommand(cmdRemoveGroup, map[string]float64{"group": float64(group)})
}

// NewResizeWorldMessage resizes the arena to width x height, anchored at the origin.
func NewResizeWorldMessage(width, height float64) *structpb.Struct {
	return newCommand(cmdResizeWorld, map[string]float64{"width": width, "height": height})
}

// NewSelectMessage asks which group has the most agents inside area.
// The world answers with a *wrapperspb.Int64Value, -1 meaning none.
func NewSelectMessage(area geometry.Boundary) *structpb.Struct {
	return newCommand(cmdSelect, map[string]float64{
		"minX": area.Min.X, "minY": area.Min.Y,
		"maxX": area.Max.X, "maxY": area.Max.Y,
	})
}

// SelectedGroup unwraps the reply to a select command.
func SelectedGroup(reply any) (int, error) {
	v, ok := reply.(*wrapperspb.Int64Value)
	if !ok {
		return -1, fmt.Errorf("%w: unexpected select reply %T", ErrInvalidCommand, reply)
	}
	return int(v.GetValue()), nil
}

type (
	setParamCommand struct {
		group int
		param flock.Param
		value float64
	}
	addGroupCommand    struct{ params flock.Params }
	removeGroupCommand struct{ group int }
	resizeWorldCommand struct{ width, height float64 }
	selectCommand      struct{ area geometry.Boundary }
)

// decodeCommand turns a command struct back into one of the typed commands above.
func decodeCommand(s *structpb.Struct) (any, error) {
	fields := s.GetFields()
	name := fields["command"].GetStringValue()

	num := func(key string) (float64, error) {
		v, ok := fields[key]
		if !ok {
			return 0, fmt.Errorf("%w: %s without %q", ErrInvalidCommand, name, key)
		}
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
			return 0, fmt.Errorf("%w: %s.%s is not a number", ErrInvalidCommand, name, key)
		}
		return v.GetNumberValue(), nil
	}

	var errs []error
	must := func(key string) float64 {
		v, err := num(key)
		errs = append(errs, err)
		return v
	}

	var cmd any
	switch name {
	case cmdSetParam:
		p, err := flock.ParseParam(fields["param"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		c := setParamCommand{group: int(must("group")), param: p, value: must("value")}
		if p == flock.ParamCount && !isFinite(c.value) {
			errs = append(errs, fmt.Errorf("%w: %s.count is %v", ErrInvalidCommand, name, c.value))
		}
		cmd = c
	case cmdAddGroup:
		// parameters left out keep their default, only count is required
		params := flock.DefaultParams()
		for _, param := range flock.AllParams() {
			if _, ok := fields[param.String()]; ok || param == flock.ParamCount {
				params.Set(param, must(param.String()))
			}
		}
		if !isFinite(params.Count) {
			errs = append(errs, fmt.Errorf("%w: %s.count is %v", ErrInvalidCommand, name, params.Count))
		}
		cmd = addGroupCommand{params: params}
	case cmdRemoveGroup:
		cmd = removeGroupCommand{group: int(must("group"))}
	case cmdResizeWorld:
		cmd = resizeWorldCommand{width: must("width"), height: must("height")}
	case cmdSelect:
		cmd = selectCommand{area: geometry.NewBoundary(must("minX"), must("minY"), must("maxX"), must("maxY"))}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cmd, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
