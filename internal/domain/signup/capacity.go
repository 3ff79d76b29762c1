// internal/domain/signup/capacity.go
package signup

import (
	"errors"
	"fmt"

	apperrors "panthers-signup/pkg/errors"
)

const (
	MessagePositionFull   = "This position is currently full. Please select another position."
	MessagePositionClosed = "This position is currently closed for sign-ups."
)

// CapacityState records which positions are known to be full. It only ever
// learns bad news: there is no way to reopen a position.
type CapacityState struct {
	full map[Position]bool
}

func NewCapacityState() *CapacityState {
	return &CapacityState{full: make(map[Position]bool, len(Positions))}
}

func (s *CapacityState) IsFull(p Position) bool {
	return s.full[p]
}

// MarkFull reports whether p transitioned from open to full.
func (s *CapacityState) MarkFull(p Position) bool {
	if _, ok := ParsePosition(string(p)); !ok || s.full[p] {
		return false
	}
	s.full[p] = true
	return true
}

// Full returns the full positions in display order.
func (s *CapacityState) Full() []Position {
	var out []Position
	for _, p := range Positions {
		if s.full[p] {
			out = append(out, p)
		}
	}
	return out
}

// Slots is the per-position slot count shown to players.
type Slots struct {
	Guard   int
	Forward int
	Center  int
}

func (s Slots) For(p Position) int {
	switch p {
	case PositionGuard:
		return s.Guard
	case PositionForward:
		return s.Forward
	case PositionCenter:
		return s.Center
	}
	return 0
}

// PositionOption is the render state of one position choice.
type PositionOption struct {
	Value    Position
	Label    string
	Badge    string
	Full     bool
	Selected bool
}

// Presenter gates position choices on a session's CapacityState.
type Presenter struct {
	state *CapacityState
	slots Slots
}

func NewPresenter(state *CapacityState, slots Slots) *Presenter {
	if state == nil {
		state = NewCapacityState()
	}
	return &Presenter{state: state, slots: slots}
}

func (p *Presenter) State() *CapacityState {
	return p.state
}

// Select rejects choosing a position that is known to be full.
func (p *Presenter) Select(pos Position) error {
	if p.state.IsFull(pos) {
		return &apperrors.ValidationError{
			Message: MessagePositionFull,
			Fields:  map[string]string{FieldPosition: MessagePositionFull},
		}
	}
	return nil
}

// CheckSubmit is the local gate run before any network call.
func (p *Presenter) CheckSubmit(pos Position) error {
	return p.Select(pos)
}

// Apply marks the position full when err is a capacity or closed rejection,
// and reports whether the state changed.
func (p *Presenter) Apply(err error) bool {
	pos, ok := capacityPosition(err)
	if !ok {
		return false
	}
	return p.state.MarkFull(pos)
}

// Message produces the user-facing text for a submission failure.
func (p *Presenter) Message(err error) string {
	var capErr *apperrors.CapacityExceededError
	var closedErr *apperrors.ClosedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &capErr):
		pos := Position(capErr.Position)
		n := p.slots.For(pos)
		return fmt.Sprintf("The %s position is now full (%d/%d %s taken). Please check back later.",
			pos.Label(), n, n, slotWord(n))
	case errors.As(err, &closedErr):
		return MessagePositionClosed
	}
	return err.Error()
}

// Options returns the position choices with their full flags and badges.
func (p *Presenter) Options(selected Position) []PositionOption {
	opts := make([]PositionOption, 0, len(Positions))
	for _, pos := range Positions {
		opt := PositionOption{
			Value:    pos,
			Label:    pos.Label(),
			Full:     p.state.IsFull(pos),
			Selected: pos == selected,
		}
		if opt.Full {
			opt.Badge = "Full"
		} else {
			n := p.slots.For(pos)
			opt.Badge = fmt.Sprintf("%d %s", n, slotWord(n))
		}
		opts = append(opts, opt)
	}
	return opts
}

func capacityPosition(err error) (Position, bool) {
	var capErr *apperrors.CapacityExceededError
	if errors.As(err, &capErr) {
		return Position(capErr.Position), true
	}
	var closedErr *apperrors.ClosedError
	if errors.As(err, &closedErr) {
		return Position(closedErr.Position), true
	}
	return "", false
}

func slotWord(n int) string {
	if n == 1 {
		return "slot"
	}
	return "slots"
}
