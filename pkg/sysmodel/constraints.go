package sysmodel

import "math"

// LocalConstraint caps the response time of a single component. A missing
// configuration entry defaults to +Inf (spec §3, §6).
type LocalConstraint struct {
	CompIdx   int
	MaxResTime float64
}

func defaultLocalConstraint(compIdx int) LocalConstraint {
	return LocalConstraint{CompIdx: compIdx, MaxResTime: math.Inf(1)}
}

// GlobalConstraint caps the end-to-end response time of a named path
// through the DAG.
type GlobalConstraint struct {
	PathName   string
	CompIdxs   []int
	MaxResTime float64
}
