package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty is the ordered difficulty band of a question.
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

const numDifficulties = int(Advanced) + 1

// Difficulties lists every band from easiest to hardest.
var Difficulties = [numDifficulties]Difficulty{Beginner, Intermediate, Advanced}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of the three bands.
func (d Difficulty) Valid() bool {
	return d >= Beginner && d <= Advanced
}

// Harder returns the next band up. Advanced stays Advanced.
func (d Difficulty) Harder() Difficulty {
	if d >= Advanced {
		return Advanced
	}
	return d + 1
}

// Easier returns the next band down. Beginner stays Beginner.
func (d Difficulty) Easier() Difficulty {
	if d <= Beginner {
		return Beginner
	}
	return d - 1
}

// ParseDifficulty converts a band name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "advanced":
		return Advanced, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	parsed, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DifficultyCounts holds one counter per band, indexed by Difficulty.
type DifficultyCounts [numDifficulties]int

// Of returns the counter for d.
func (c DifficultyCounts) Of(d Difficulty) int {
	return c[d]
}

func (c DifficultyCounts) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, numDifficulties)
	for _, d := range Difficulties {
		m[d.String()] = c[d]
	}
	return json.Marshal(m)
}

func (c *DifficultyCounts) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out DifficultyCounts
	for k, v := range m {
		d, err := ParseDifficulty(k)
		if err != nil {
			return err
		}
		out[d] = v
	}
	*c = out
	return nil
}
