package expressions

import (
	"strings"

	"spandb/catalog/db_types"
	"spandb/common"
)

// DistanceMode decides how the distance between two spans is measured.
type DistanceMode int

const (
	// BoundaryDistance qualifies two spans when both their starts and their ends are at most Threshold apart.
	BoundaryDistance DistanceMode = iota
	// ExtentDistance qualifies two spans when the merged span is at most Threshold long.
	ExtentDistance
)

func (m DistanceMode) String() string {
	switch m {
	case BoundaryDistance:
		return "boundary"
	case ExtentDistance:
		return "extent"
	default:
		return "unknown"
	}
}

func ParseDistanceMode(s string) (DistanceMode, error) {
	switch strings.ToLower(s) {
	case "boundary", "":
		return BoundaryDistance, nil
	case "extent":
		return ExtentDistance, nil
	default:
		return 0, common.NewError(common.KindConfiguration, "JoinDistancePredicate", "Parse", "unknown distance mode %q", s)
	}
}

// JoinDistancePredicate pairs spans of the attribute JoinAttributeName that lie within Threshold bytes of each
// other.
type JoinDistancePredicate struct {
	joinAttributeName string
	threshold         int
	mode              DistanceMode
}

func NewJoinDistancePredicate(joinAttributeName string, threshold int, mode DistanceMode) (*JoinDistancePredicate, error) {
	if joinAttributeName == "" {
		return nil, common.NewError(common.KindConfiguration, "JoinDistancePredicate", "New", "join attribute name is empty")
	}
	if threshold < 0 {
		return nil, common.NewError(common.KindConfiguration, "JoinDistancePredicate", "New", "threshold %d is negative", threshold)
	}
	if mode != BoundaryDistance && mode != ExtentDistance {
		return nil, common.NewError(common.KindConfiguration, "JoinDistancePredicate", "New", "unknown distance mode %d", mode)
	}

	return &JoinDistancePredicate{
		joinAttributeName: joinAttributeName,
		threshold:         threshold,
		mode:              mode,
	}, nil
}

func (p *JoinDistancePredicate) JoinAttributeName() string {
	return p.joinAttributeName
}

func (p *JoinDistancePredicate) Threshold() int {
	return p.threshold
}

func (p *JoinDistancePredicate) Mode() DistanceMode {
	return p.mode
}

// Participates tells whether s is a span over the join attribute.
func (p *JoinDistancePredicate) Participates(s db_types.Span) bool {
	return s.AttributeName == p.joinAttributeName
}

func (p *JoinDistancePredicate) Qualifies(s1, s2 db_types.Span) bool {
	if p.mode == ExtentDistance {
		return max(s1.End, s2.End)-min(s1.Start, s2.Start) <= p.threshold
	}
	return abs(s1.Start-s2.Start) <= p.threshold && abs(s1.End-s2.End) <= p.threshold
}

// Merge builds the span covering s1 and s2. Its value is the covered part of fieldText when the text is known and
// long enough, otherwise the two values separated by a space.
func (p *JoinDistancePredicate) Merge(s1, s2 db_types.Span, fieldText string, hasText bool) db_types.Span {
	start, end := min(s1.Start, s2.Start), max(s1.End, s2.End)

	value := s1.Value + " " + s2.Value
	if hasText && end <= len(fieldText) {
		value = fieldText[start:end]
	}

	return db_types.NewSpan(p.joinAttributeName, start, end, s1.Key+"_"+s2.Key, value)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
