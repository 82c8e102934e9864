package ui

// Binding is how a widget reads and writes the value it controls.
// Widgets never hold a pointer into the simulation, only a Binding.
type Binding interface {
	Get() float64
	Set(v float64)
}

// ValueBinding is a Binding over a plain float, useful for widgets that are not bound yet.
type ValueBinding struct {
	value float64
}

func NewValueBinding(v float64) *ValueBinding {
	return &ValueBinding{value: v}
}

func (b *ValueBinding) Get() float64 {
	return b.value
}

func (b *ValueBinding) Set(v float64) {
	b.value = v
}
