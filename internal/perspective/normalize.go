package perspective

import (
	"math"
	"sort"

	"github.com/ashita-ai/geoscore/internal/model"
)

// Method normalizes normalized_score in place across a group of perspectives
// that all belong to the same space. Implementations must handle the
// degenerate cases named in their doc comment explicitly rather than letting
// them fall out of the arithmetic (divide-by-zero, NaN, etc).
type Method interface {
	Normalize(perspectives []*model.Perspective)
}

// MethodFor resolves a normalization_method config string to its Method
// implementation. The bool is false for any name outside the four known
// methods — callers must treat that as a fatal configuration error rather
// than silently skipping normalization.
func MethodFor(name string) (Method, bool) {
	switch name {
	case model.MethodZScore:
		return zScoreMethod{}, true
	case model.MethodMinMax:
		return minMaxMethod{}, true
	case model.MethodRank:
		return rankMethod{}, true
	case model.MethodZScoreSigmoid:
		return zScoreSigmoidMethod{}, true
	default:
		return nil, false
	}
}

func meanStdDev(perspectives []*model.Perspective) (mean, stddev float64) {
	n := float64(len(perspectives))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, p := range perspectives {
		sum += p.RawScore
	}
	mean = sum / n

	var variance float64
	for _, p := range perspectives {
		d := p.RawScore - mean
		variance += d * d
	}
	variance /= n
	stddev = math.Sqrt(variance)
	return mean, stddev
}

// zScoreMethod is the z_score normalization method: (raw - mean) / stddev.
// If stddev is 0 every perspective in the group normalizes to 0.0.
type zScoreMethod struct{}

func (zScoreMethod) Normalize(perspectives []*model.Perspective) {
	mean, stddev := meanStdDev(perspectives)
	if stddev == 0 {
		for _, p := range perspectives {
			p.NormalizedScore = 0.0
		}
		return
	}
	for _, p := range perspectives {
		p.NormalizedScore = (p.RawScore - mean) / stddev
	}
}

// minMaxMethod is the min_max normalization method: (raw - min) / (max -
// min). If the range is 0 every perspective in the group normalizes to 0.5.
type minMaxMethod struct{}

func (minMaxMethod) Normalize(perspectives []*model.Perspective) {
	if len(perspectives) == 0 {
		return
	}
	min, max := perspectives[0].RawScore, perspectives[0].RawScore
	for _, p := range perspectives[1:] {
		if p.RawScore < min {
			min = p.RawScore
		}
		if p.RawScore > max {
			max = p.RawScore
		}
	}
	rangeVal := max - min
	if rangeVal == 0 {
		for _, p := range perspectives {
			p.NormalizedScore = 0.5
		}
		return
	}
	for _, p := range perspectives {
		p.NormalizedScore = (p.RawScore - min) / rangeVal
	}
}

// rankMethod is the rank normalization method: perspectives are sorted
// descending by raw_score, and the perspective at index i (0-based) gets
// (n-1-i)/(n-1). A single-perspective group normalizes to 0.5. Ties keep
// their relative input order (stable sort).
type rankMethod struct{}

func (rankMethod) Normalize(perspectives []*model.Perspective) {
	n := len(perspectives)
	if n == 0 {
		return
	}
	if n == 1 {
		perspectives[0].NormalizedScore = 0.5
		return
	}

	ordered := make([]*model.Perspective, n)
	copy(ordered, perspectives)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RawScore > ordered[j].RawScore
	})

	for i, p := range ordered {
		p.NormalizedScore = float64(n-1-i) / float64(n-1)
	}
}

// zScoreSigmoidMethod is the z_score_sigmoid normalization method:
// 1/(1+exp(-(raw-mean)/stddev)). If stddev is 0 every perspective in the
// group normalizes to 0.5.
type zScoreSigmoidMethod struct{}

func (zScoreSigmoidMethod) Normalize(perspectives []*model.Perspective) {
	mean, stddev := meanStdDev(perspectives)
	if stddev == 0 {
		for _, p := range perspectives {
			p.NormalizedScore = 0.5
		}
		return
	}
	for _, p := range perspectives {
		z := (p.RawScore - mean) / stddev
		p.NormalizedScore = 1 / (1 + math.Exp(-z))
	}
}

// GroupBySpace partitions perspectives by space_id, preserving relative
// order within each group.
func GroupBySpace(perspectives []*model.Perspective) map[string][]*model.Perspective {
	groups := make(map[string][]*model.Perspective)
	for _, p := range perspectives {
		groups[p.SpaceID] = append(groups[p.SpaceID], p)
	}
	return groups
}
