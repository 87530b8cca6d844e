package grading

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinScore and MaxScore bound every subscore a teacher may enter.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// ErrInvalidScore indicates a raw score is not a number within [MinScore, MaxScore].
var ErrInvalidScore = errors.New("score must be a number between 0 and 100")

// Predicate is the letter grade derived from an average.
type Predicate string

const (
	PredicateA Predicate = "A"
	PredicateB Predicate = "B"
	PredicateC Predicate = "C"
	PredicateD Predicate = "D"
	PredicateE Predicate = "E"
)

// Color returns the badge colour used when rendering the predicate.
func (p Predicate) Color() string {
	switch p {
	case PredicateA:
		return "green"
	case PredicateB:
		return "blue"
	case PredicateC:
		return "yellow"
	case PredicateD:
		return "orange"
	case PredicateE:
		return "red"
	default:
		return "gray"
	}
}

// Scale holds the inclusive lower bounds for the A-D bands. Anything below D is E.
type Scale struct {
	A float64
	B float64
	C float64
	D float64
}

// DefaultScale is the common Indonesian school convention.
var DefaultScale = Scale{A: 85, B: 75, C: 65, D: 55}

// NewScale validates the cut points and returns a usable scale.
func NewScale(a, b, c, d float64) (Scale, error) {
	for _, v := range []float64{a, b, c, d} {
		if math.IsNaN(v) || v < MinScore || v > MaxScore {
			return Scale{}, fmt.Errorf("threshold %v outside [0,100]", v)
		}
	}
	if !(a > b && b > c && c > d) {
		return Scale{}, fmt.Errorf("thresholds must be strictly descending, got A=%v B=%v C=%v D=%v", a, b, c, d)
	}
	return Scale{A: a, B: b, C: c, D: d}, nil
}

// Result bundles the derived fields of a grade record.
type Result struct {
	Average   *float64
	Predicate *Predicate
}

// ComputeAverage returns the mean of the present scores, or nil when none are present.
// Absent scores do not count toward the divisor.
func ComputeAverage(scores ...*float64) *float64 {
	var sum float64
	var count int
	for _, score := range scores {
		if score == nil {
			continue
		}
		sum += *score
		count++
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// DerivePredicate maps an average onto the scale. A nil average yields a nil predicate.
func (s Scale) DerivePredicate(average *float64) *Predicate {
	if average == nil {
		return nil
	}

	var p Predicate
	switch v := *average; {
	case v >= s.A:
		p = PredicateA
	case v >= s.B:
		p = PredicateB
	case v >= s.C:
		p = PredicateC
	case v >= s.D:
		p = PredicateD
	default:
		p = PredicateE
	}
	return &p
}

// Aggregate computes the average and predicate for one record.
func (s Scale) Aggregate(scores ...*float64) Result {
	avg := ComputeAverage(scores...)
	return Result{Average: avg, Predicate: s.DerivePredicate(avg)}
}

// DerivePredicate applies DefaultScale.
func DerivePredicate(average *float64) *Predicate {
	return DefaultScale.DerivePredicate(average)
}

// ValidateScoreInput parses a teacher-entered score. Blank input means "not graded yet"
// and is accepted as nil.
func ValidateScoreInput(raw string) (*float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if strings.IndexFunc(trimmed, notDecimalRune) >= 0 {
		return nil, ErrInvalidScore
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, ErrInvalidScore
	}
	if value < MinScore || value > MaxScore {
		return nil, ErrInvalidScore
	}
	return &value, nil
}

// notDecimalRune rejects hex floats, underscores and words like "Inf" that ParseFloat would accept.
func notDecimalRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		return false
	}
	return true
}
