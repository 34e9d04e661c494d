package domain

// Rating holds the per-aspect scores for an entry. All values are on a
// 0-10 scale and nil means "not rated".
type Rating struct {
	Story   *float64 `json:"story"`
	Acting  *float64 `json:"acting"`
	Visuals *float64 `json:"visuals"`
	Overall *float64 `json:"overall"`
}

// WithSubScores returns a rating with the given sub-scores and Overall
// recomputed as their mean. Overall is nil when every sub-score is nil.
func (r Rating) WithSubScores(story, acting, visuals *float64) Rating {
	return Rating{
		Story:   copyFloat(story),
		Acting:  copyFloat(acting),
		Visuals: copyFloat(visuals),
		Overall: meanOf(story, acting, visuals),
	}
}

// WithOverall returns a rating whose Overall is set directly, leaving the
// sub-scores untouched. Used by quick-rate.
func (r Rating) WithOverall(overall *float64) Rating {
	c := r.Clone()
	c.Overall = copyFloat(overall)
	return c
}

// Consistent returns r with Overall recomputed from the sub-scores when any
// of them is set. A rating without sub-scores keeps its Overall as given.
func (r Rating) Consistent() Rating {
	if r.Story == nil && r.Acting == nil && r.Visuals == nil {
		return r.Clone()
	}
	return r.WithSubScores(r.Story, r.Acting, r.Visuals)
}

// IsRated reports whether an overall score is present.
func (r Rating) IsRated() bool {
	return r.Overall != nil
}

// OverallOr returns the overall score, or def when unrated.
func (r Rating) OverallOr(def float64) float64 {
	if r.Overall == nil {
		return def
	}
	return *r.Overall
}

// Clone returns a copy that shares no pointers with r.
func (r Rating) Clone() Rating {
	return Rating{
		Story:   copyFloat(r.Story),
		Acting:  copyFloat(r.Acting),
		Visuals: copyFloat(r.Visuals),
		Overall: copyFloat(r.Overall),
	}
}

// Score is a convenience for building a *float64 in literals and tests.
func Score(v float64) *float64 {
	return &v
}

func meanOf(values ...*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
