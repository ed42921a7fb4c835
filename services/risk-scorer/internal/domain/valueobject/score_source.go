package valueobject

import "fmt"

// ScoreSource records which scorer produced a risk score.
type ScoreSource struct {
	value string
}

var (
	ScoreSourceAI        = ScoreSource{value: "ai"}
	ScoreSourceHeuristic = ScoreSource{value: "heuristic"}
)

var validScoreSources = map[string]ScoreSource{
	"ai":        ScoreSourceAI,
	"heuristic": ScoreSourceHeuristic,
}

// NewScoreSource parses a ScoreSource from its string form.
func NewScoreSource(s string) (ScoreSource, error) {
	src, ok := validScoreSources[s]
	if !ok {
		return ScoreSource{}, fmt.Errorf("invalid score source: %q", s)
	}
	return src, nil
}

// String returns the string representation of the ScoreSource.
func (s ScoreSource) String() string {
	return s.value
}

// IsZero returns true if the ScoreSource has not been set.
func (s ScoreSource) IsZero() bool {
	return s.value == ""
}

// Equal returns true if both sources are the same.
func (s ScoreSource) Equal(other ScoreSource) bool {
	return s.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (s ScoreSource) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ScoreSource) UnmarshalText(b []byte) error {
	parsed, err := NewScoreSource(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
