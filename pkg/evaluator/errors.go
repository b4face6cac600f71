// Package evaluator checks feasibility and computes cost for a candidate
// solution against an immutable system instance, following the same
// check chain and cost accumulation as Solution::check_feasibility and
// Solution::objective_function in the original implementation.
package evaluator

import "fmt"

// InvalidAssignment reports a partition assigned to a resource it is not
// compatible with, assigned more than once, or over-subscribing a
// resource's available replica count.
type InvalidAssignment struct {
	Comp, Part int
	Reason     string
}

func (e *InvalidAssignment) Error() string {
	return fmt.Sprintf("evaluator: invalid assignment at component %d partition %d: %s", e.Comp, e.Part, e.Reason)
}

// CompatibilityViolation reports a placement forbidden by the
// compatibility matrix.
type CompatibilityViolation struct {
	Comp, Part int
}

func (e *CompatibilityViolation) Error() string {
	return fmt.Sprintf("evaluator: component %d partition %d placed on an incompatible resource", e.Comp, e.Part)
}

// MemoryViolation reports a resource whose committed memory exceeds its
// capacity.
type MemoryViolation struct {
	Used, Capacity float64
}

func (e *MemoryViolation) Error() string {
	return fmt.Sprintf("evaluator: memory occupation %.2f exceeds capacity %.2f", e.Used, e.Capacity)
}

// MonotonicityViolation reports a partition placed on Edge after an
// earlier partition of the same component already moved to VM or FaaS.
type MonotonicityViolation struct {
	Comp int
}

func (e *MonotonicityViolation) Error() string {
	return fmt.Sprintf("evaluator: component %d has a partition moving back to Edge after leaving it", e.Comp)
}

// ColocationViolation reports more than one partition placed on a resource
// that does not allow colocation.
type ColocationViolation struct {
	Comp, Part int
}

func (e *ColocationViolation) Error() string {
	return fmt.Sprintf("evaluator: component %d partition %d placed on an over-subscribed no-colocation resource", e.Comp, e.Part)
}

// UtilisationOverload reports a resource whose aggregate utilization is
// >= 1, making its queueing response time undefined.
type UtilisationOverload struct {
	U float64
}

func (e *UtilisationOverload) Error() string {
	return fmt.Sprintf("evaluator: resource utilization %.4f >= 1", e.U)
}

// LocalResponseViolation reports a component whose own response time
// exceeds its local constraint.
type LocalResponseViolation struct {
	Comp       int
	ResTime    float64
	MaxResTime float64
}

func (e *LocalResponseViolation) Error() string {
	return fmt.Sprintf("evaluator: component %d response time %.4f exceeds local constraint %.4f", e.Comp, e.ResTime, e.MaxResTime)
}

// GlobalResponseViolation reports a path whose end-to-end response time
// exceeds its global constraint.
type GlobalResponseViolation struct {
	PathName   string
	ResTime    float64
	MaxResTime float64
}

func (e *GlobalResponseViolation) Error() string {
	return fmt.Sprintf("evaluator: path %q response time %.4f exceeds global constraint %.4f", e.PathName, e.ResTime, e.MaxResTime)
}
