package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidScore = errors.New("invalid score")

// MaxScore соответствует колонке INTEGER в group_matches.
const MaxScore = math.MaxInt32

// Score is an optional non-negative game count. The zero value means
// "not entered yet", which is different from an entered 0.
type Score struct {
	value int
	valid bool
}

func ScoreOf(v int) Score {
	return Score{value: v, valid: true}
}

func NoScore() Score {
	return Score{}
}

func (s Score) Present() bool { return s.valid }

// Value returns the entered value, or 0 when absent.
func (s Score) Value() int {
	if !s.valid {
		return 0
	}
	return s.value
}

// Ptr returns nil for an absent score; used for nullable columns.
func (s Score) Ptr() *int {
	if !s.valid {
		return nil
	}
	v := s.value
	return &v
}

func ScoreFromPtr(p *int) Score {
	if p == nil {
		return Score{}
	}
	return ScoreOf(*p)
}

func (s Score) String() string {
	if !s.valid {
		return "-"
	}
	return strconv.Itoa(s.value)
}

// ParseScore accepts the raw text organizers type into score boxes.
// Empty or whitespace-only input is an absent score.
func ParseScore(raw string) (Score, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Score{}, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return Score{}, fmt.Errorf("%w: %q is not a whole number", ErrInvalidScore, raw)
	}
	if v < 0 {
		return Score{}, fmt.Errorf("%w: %d is negative", ErrInvalidScore, v)
	}
	if v > MaxScore {
		return Score{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidScore, v, MaxScore)
	}
	return ScoreOf(v), nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.value)), nil
}

// UnmarshalJSON accepts null, a number, or a string holding a number.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScore, err)
		}
		parsed, err := ParseScore(str)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidScore, string(data))
	}
	if f != float64(int(f)) {
		return fmt.Errorf("%w: %s is not a whole number", ErrInvalidScore, string(data))
	}
	if f < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidScore, string(data))
	}
	if f > MaxScore {
		return fmt.Errorf("%w: %s exceeds %d", ErrInvalidScore, string(data), MaxScore)
	}
	*s = ScoreOf(int(f))
	return nil
}
