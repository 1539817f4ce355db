// Bounded camera parameters keyed by name
package core

import (
	"fmt"
	"math"
	"strconv"
)

// Parameter is a named, bounded, numeric camera setting.
type Parameter struct {
	Name  string
	Label string

	Value float64
	Min   float64
	Max   float64

	// Step is the increment applied by one stepper click.
	Step float64

	// Precision is the number of decimal places kept at the display and
	// device boundary. Zero means the parameter is integral.
	Precision int
}

// Clamp returns v limited to [Min, Max].
func (p Parameter) Clamp(v float64) float64 {
	return math.Max(p.Min, math.Min(v, p.Max))
}

// Rounded returns the value rounded to the parameter's precision.
func (p Parameter) Rounded() float64 {
	return Round(p.Value, p.Precision)
}

// Format renders the rounded value for on-screen display.
func (p Parameter) Format() string {
	return strconv.FormatFloat(p.Rounded(), 'f', p.Precision, 64)
}

func (p Parameter) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidParameter)
	}
	if math.IsNaN(p.Min) || math.IsNaN(p.Max) || p.Min > p.Max {
		return fmt.Errorf("%w: %s has bounds [%v, %v]", ErrInvalidParameter, p.Name, p.Min, p.Max)
	}
	if p.Step < 0 || p.Precision < 0 {
		return fmt.Errorf("%w: %s has negative step or precision", ErrInvalidParameter, p.Name)
	}
	return nil
}

// Round rounds v to the given number of decimal places.
func Round(v float64, precision int) float64 {
	if precision <= 0 {
		return math.Round(v)
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// Store owns the current value and bounds of every adjustable parameter.
// It is not safe for concurrent use; the view loop is its only owner.
type Store struct {
	params map[string]*Parameter
	order  []string
}

// NewStore registers params in order. Initial values are clamped.
func NewStore(params ...Parameter) (*Store, error) {
	s := &Store{
		params: make(map[string]*Parameter, len(params)),
		order:  make([]string, 0, len(params)),
	}

	for _, p := range params {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, exists := s.params[p.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate name %s", ErrInvalidParameter, p.Name)
		}

		p.Value = p.Clamp(p.Value)
		stored := p
		s.params[p.Name] = &stored
		s.order = append(s.order, p.Name)
	}

	return s, nil
}

// Get returns the current full-precision value of name.
func (s *Store) Get(name string) (float64, error) {
	p, ok := s.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return p.Value, nil
}

// Set clamps raw into the parameter's bounds, stores it and returns the
// stored value.
func (s *Store) Set(name string, raw float64) (float64, error) {
	p, ok := s.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	if math.IsNaN(raw) {
		return p.Value, nil
	}

	p.Value = p.Clamp(raw)
	return p.Value, nil
}

// Adjust is Set(name, Get(name)+delta).
func (s *Store) Adjust(name string, delta float64) (float64, error) {
	v, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	return s.Set(name, v+delta)
}

// Rounded returns the value of name rounded to its precision.
func (s *Store) Rounded(name string) (float64, error) {
	p, ok := s.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return p.Rounded(), nil
}

// Parameter returns a copy of the named parameter.
func (s *Store) Parameter(name string) (Parameter, error) {
	p, ok := s.params[name]
	if !ok {
		return Parameter{}, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return *p, nil
}

// Has reports whether name is registered.
func (s *Store) Has(name string) bool {
	_, ok := s.params[name]
	return ok
}

// Names returns the registered names in registration order.
func (s *Store) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Values returns a name to value copy of the store.
func (s *Store) Values() map[string]float64 {
	values := make(map[string]float64, len(s.params))
	for name, p := range s.params {
		values[name] = p.Value
	}
	return values
}
