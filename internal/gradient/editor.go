package gradient

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/yacobolo/gradgen/internal/color"
	"github.com/yacobolo/gradgen/internal/logging"
)

// ErrInvalidAngle is returned for a NaN angle.
var ErrInvalidAngle = errors.New("invalid gradient angle")

// Editor owns the mutable gradient state: the stop list in display order and
// the scalar params. Every successful mutation recompiles and publishes the
// new Result to the editor's Broadcaster.
//
// Listeners run after the state lock is released and may read from the
// editor, but must not mutate it from inside the callback.
type Editor struct {
	publishMu sync.Mutex
	mu        sync.Mutex

	stops  []ColorStop
	params Params
	result Result

	newID       func() string
	rng         *rand.Rand
	broadcaster *Broadcaster
}

// Option configures an Editor.
type Option func(*Editor)

// WithStops sets the initial stop list. Positions are clamped to [0, 100]
// and empty IDs are filled from the ID generator. IDs must be unique.
func WithStops(stops []ColorStop) Option {
	return func(e *Editor) {
		e.stops = slices.Clone(stops)
	}
}

// WithParams sets the initial params. Angle and smoothness are clamped.
func WithParams(p Params) Option {
	return func(e *Editor) {
		e.params = p
	}
}

// WithIDGenerator replaces the generator used for new stop IDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithRand sets the random source for new stop colors.
func WithRand(r *rand.Rand) Option {
	return func(e *Editor) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithBroadcaster publishes results to b instead of a private broadcaster.
func WithBroadcaster(b *Broadcaster) Option {
	return func(e *Editor) {
		if b != nil {
			e.broadcaster = b
		}
	}
}

// NewEditor builds an editor starting from the default gradient unless
// overridden by options. Nothing is published until the first mutation or
// Refresh.
func NewEditor(opts ...Option) (*Editor, error) {
	e := &Editor{
		stops:       DefaultStops(),
		params:      DefaultParams(),
		newID:       func() string { return "stop-" + uuid.NewString() },
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		broadcaster: NewBroadcaster(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if n := len(e.stops); n < MinStops || n > MaxStops {
		return nil, fmt.Errorf("gradient: %d color stops given, want %d to %d", n, MinStops, MaxStops)
	}
	if !validType(e.params.Type) {
		return nil, fmt.Errorf("gradient: %w %q", ErrUnknownType, e.params.Type)
	}

	seen := make(map[string]bool, len(e.stops))
	for i := range e.stops {
		if e.stops[i].ID == "" {
			e.stops[i].ID = e.newID()
		}
		if seen[e.stops[i].ID] {
			return nil, fmt.Errorf("gradient: %w %q", ErrDuplicateStop, e.stops[i].ID)
		}
		seen[e.stops[i].ID] = true
		if math.IsNaN(e.stops[i].Position) {
			return nil, fmt.Errorf("gradient: stop %s: %w", e.stops[i].ID, ErrInvalidPosition)
		}
		e.stops[i].Position = ClampPosition(e.stops[i].Position)
	}
	e.params.Angle = ClampAngle(e.params.Angle)
	e.params.Smoothness = ClampSmoothness(e.params.Smoothness)

	e.result = Compile(e.stops, e.params)
	return e, nil
}

// Broadcaster returns the broadcaster results are published to.
func (e *Editor) Broadcaster() *Broadcaster {
	return e.broadcaster
}

// Subscribe registers l on the editor's broadcaster.
func (e *Editor) Subscribe(l Listener) func() {
	return e.broadcaster.Subscribe(l)
}

// Stops returns a copy of the stop list in display order.
func (e *Editor) Stops() []ColorStop {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.stops)
}

// Stop returns the stop with the given id.
func (e *Editor) Stop(id string) (ColorStop, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(id); i >= 0 {
		return e.stops[i], true
	}
	return ColorStop{}, false
}

// Params returns the current params.
func (e *Editor) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Result returns the most recent compilation.
func (e *Editor) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Refresh publishes the current result without changing state. Front ends
// call it once on startup so listeners see the initial gradient.
func (e *Editor) Refresh() Result {
	var r Result
	_ = e.mutate("refresh", func() error { return nil }, &r)
	return r
}

// AddStop appends a stop with a random color at the midpoint between the
// lowest and highest positions.
func (e *Editor) AddStop() (ColorStop, error) {
	var added ColorStop
	err := e.mutate("add stop", func() error {
		if len(e.stops) >= MaxStops {
			return ErrTooManyStops
		}
		id := e.newID()
		if e.indexOf(id) >= 0 {
			return fmt.Errorf("%w %q", ErrDuplicateStop, id)
		}
		lo, hi := positionRange(e.stops)
		added = ColorStop{
			ID:       id,
			Color:    color.RandomHex(e.rng),
			Position: lo + (hi-lo)/2,
		}
		e.stops = append(e.stops, added)
		return nil
	}, nil)
	return added, err
}

// RemoveStop deletes the stop with the given id.
func (e *Editor) RemoveStop(id string) error {
	return e.mutate("remove stop", func() error {
		i := e.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w %q", ErrUnknownStop, id)
		}
		if len(e.stops) <= MinStops {
			return ErrTooFewStops
		}
		e.stops = slices.Delete(e.stops, i, i+1)
		return nil
	}, nil)
}

// SetColor sets a stop's color from any CSS color string. The color is
// stored as "#rrggbb".
func (e *Editor) SetColor(id, css string) error {
	c, err := color.ParseCSSColor(css)
	if err != nil {
		return err
	}
	return e.mutate("set color", func() error {
		i := e.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w %q", ErrUnknownStop, id)
		}
		e.stops[i].Color = c.Hex()
		return nil
	}, nil)
}

// SetPosition moves a stop. Positions outside [0, 100] are clamped.
func (e *Editor) SetPosition(id string, position float64) error {
	if math.IsNaN(position) {
		return ErrInvalidPosition
	}
	return e.mutate("set position", func() error {
		i := e.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w %q", ErrUnknownStop, id)
		}
		e.stops[i].Position = ClampPosition(position)
		return nil
	}, nil)
}

// Reorder moves the dragged stop to the target's index and then spreads all
// positions evenly in list order: round(i / (n-1) * 100). Dropping a stop
// onto itself does nothing.
func (e *Editor) Reorder(draggedID, targetID string) error {
	if draggedID == targetID {
		return nil
	}
	return e.mutate("reorder", func() error {
		from := e.indexOf(draggedID)
		if from < 0 {
			return fmt.Errorf("%w %q", ErrUnknownStop, draggedID)
		}
		to := e.indexOf(targetID)
		if to < 0 {
			return fmt.Errorf("%w %q", ErrUnknownStop, targetID)
		}
		e.stops = Respread(MoveStop(e.stops, from, to))
		return nil
	}, nil)
}

// SetType changes the gradient type.
func (e *Editor) SetType(t Type) error {
	if !validType(t) {
		return fmt.Errorf("%w %q", ErrUnknownType, t)
	}
	return e.mutate("set type", func() error {
		e.params.Type = t
		return nil
	}, nil)
}

// SetAngle sets the angle in degrees, clamped to [0, 360].
func (e *Editor) SetAngle(angle float64) error {
	if math.IsNaN(angle) {
		return ErrInvalidAngle
	}
	return e.mutate("set angle", func() error {
		e.params.Angle = ClampAngle(angle)
		return nil
	}, nil)
}

// SetSmoothness sets the smoothness, clamped to [0, 100].
func (e *Editor) SetSmoothness(smoothness int) error {
	return e.mutate("set smoothness", func() error {
		e.params.Smoothness = ClampSmoothness(smoothness)
		return nil
	}, nil)
}

// mutate applies fn under the state lock, recompiles on success and
// publishes outside the lock. A failed fn leaves the state untouched.
func (e *Editor) mutate(op string, fn func() error, out *Result) error {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	e.mu.Lock()
	prevStops := slices.Clone(e.stops)
	prevParams := e.params
	if err := fn(); err != nil {
		e.stops, e.params = prevStops, prevParams
		e.mu.Unlock()
		logging.Logger().Debug("gradient edit rejected", "op", op, "error", err)
		return err
	}
	e.result = Compile(e.stops, e.params)
	r := e.result
	e.mu.Unlock()

	if out != nil {
		*out = r
	}
	logging.Logger().Debug("gradient updated", "op", op, "stops", len(r.Stops), "css", r.CSS)
	e.broadcaster.Publish(r)
	return nil
}

// indexOf returns the index of id in e.stops or -1. Callers hold e.mu.
func (e *Editor) indexOf(id string) int {
	return slices.IndexFunc(e.stops, func(s ColorStop) bool { return s.ID == id })
}

// MoveStop returns a copy of stops with the element at from removed and
// reinserted at index to, counted in the list after removal.
func MoveStop(stops []ColorStop, from, to int) []ColorStop {
	out := slices.Clone(stops)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) {
		return out
	}
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}

// Respread assigns evenly spaced whole-number positions in list order.
func Respread(stops []ColorStop) []ColorStop {
	out := slices.Clone(stops)
	n := len(out)
	for i := range out {
		if n <= 1 {
			out[i].Position = 0
			continue
		}
		out[i].Position = math.Floor(float64(i)/float64(n-1)*100 + 0.5)
	}
	return out
}

// ClampPosition limits p to [0, 100].
func ClampPosition(p float64) float64 {
	return math.Max(MinPosition, math.Min(MaxPosition, p))
}

// ClampAngle limits a to [0, 360].
func ClampAngle(a float64) float64 {
	return math.Max(MinAngle, math.Min(MaxAngle, a))
}

// ClampSmoothness limits s to [0, 100].
func ClampSmoothness(s int) int {
	return max(MinSmoothness, min(MaxSmoothness, s))
}

// positionRange returns the lowest and highest stop positions
func positionRange(stops []ColorStop) (lo, hi float64) {
	if len(stops) == 0 {
		return 0, 0
	}
	lo, hi = stops[0].Position, stops[0].Position
	for _, s := range stops[1:] {
		lo = math.Min(lo, s.Position)
		hi = math.Max(hi, s.Position)
	}
	return lo, hi
}
