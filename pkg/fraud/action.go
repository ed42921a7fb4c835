package fraud

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when an action name is not recognised.
var ErrUnknownAction = errors.New("unknown action")

// Action is the response recommended for a scored transaction.
type Action struct {
	value string
}

var (
	ActionAllow  = Action{value: "allow"}
	ActionNotify = Action{value: "notify"}
	ActionStepUp = Action{value: "step-up"}
	ActionHold   = Action{value: "hold"}
)

// ActionFromString reconstructs an Action from its wire name.
func ActionFromString(s string) (Action, error) {
	switch s {
	case "allow":
		return ActionAllow, nil
	case "notify":
		return ActionNotify, nil
	case "step-up":
		return ActionStepUp, nil
	case "hold":
		return ActionHold, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// String returns the wire name.
func (a Action) String() string {
	return a.value
}

// IsZero returns true if the Action has not been set.
func (a Action) IsZero() bool {
	return a.value == ""
}

// Equal checks equality with another Action.
func (a Action) Equal(other Action) bool {
	return a.value == other.value
}

// Thresholds are the minimum scores for each escalating action.
type Thresholds struct {
	Notify float64 `json:"notify"`
	StepUp float64 `json:"step_up"`
	Hold   float64 `json:"hold"`
}

// DefaultThresholds returns notify 0.3, step-up 0.6, hold 0.8.
func DefaultThresholds() Thresholds {
	return Thresholds{Notify: 0.3, StepUp: 0.6, Hold: 0.8}
}

// Validate checks that thresholds are strictly increasing within (0, 1].
func (t Thresholds) Validate() error {
	if t.Notify <= 0 || t.Hold > 1 {
		return fmt.Errorf("thresholds must lie in (0, 1], got notify=%v hold=%v", t.Notify, t.Hold)
	}
	if !(t.Notify < t.StepUp && t.StepUp < t.Hold) {
		return fmt.Errorf("thresholds must be increasing: notify=%v step_up=%v hold=%v", t.Notify, t.StepUp, t.Hold)
	}
	return nil
}

// ActionPolicy maps a risk score to a recommended action.
type ActionPolicy struct {
	thresholds Thresholds
}

// NewActionPolicy creates a policy after validating the thresholds.
func NewActionPolicy(t Thresholds) (*ActionPolicy, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &ActionPolicy{thresholds: t}, nil
}

// DefaultActionPolicy returns a policy using DefaultThresholds.
func DefaultActionPolicy() *ActionPolicy {
	return &ActionPolicy{thresholds: DefaultThresholds()}
}

// Recommend evaluates thresholds from highest to lowest; the first match wins.
func (p *ActionPolicy) Recommend(score float64) Action {
	switch {
	case score >= p.thresholds.Hold:
		return ActionHold
	case score >= p.thresholds.StepUp:
		return ActionStepUp
	case score >= p.thresholds.Notify:
		return ActionNotify
	default:
		return ActionAllow
	}
}

// Thresholds returns the configured thresholds.
func (p *ActionPolicy) Thresholds() Thresholds {
	return p.thresholds
}
