package domain

import "go.trai.ch/zerr"

// Resources is a declared amount of compute resources.
type Resources struct {
	// CPU is a number of cores; fractional values are allowed.
	CPU float64

	// MemoryMB is an amount of memory in mebibytes.
	MemoryMB int64
}

// ResourceSpec pairs a service's resource request with its limit. A zero
// limit dimension is unconstrained, mirroring the budget semantics; only a
// declared limit can be exceeded by a request.
type ResourceSpec struct {
	Requests Resources
	Limits   Resources
}

// ResourceBudget is the process-wide ceiling checked against the sum of all
// declared service limits before any service starts. A zero dimension means
// that dimension is unconstrained.
type ResourceBudget struct {
	CPU      float64
	MemoryMB int64
}

// ValidateResources rejects invalid plans before execution. A service whose
// request exceeds its own limit fails with ErrInvalidResourceDeclaration;
// limits summing above the budget fail with ErrBudgetExceeded naming the
// offending total and the configured ceiling. No partial start is attempted
// on either error.
func ValidateResources(services []Service, budget ResourceBudget) error {
	var total Resources
	for _, svc := range services {
		req, lim := svc.Resources.Requests, svc.Resources.Limits
		if (lim.CPU > 0 && req.CPU > lim.CPU) || (lim.MemoryMB > 0 && req.MemoryMB > lim.MemoryMB) {
			err := zerr.With(ErrInvalidResourceDeclaration, "service", svc.Name)
			err = zerr.With(err, "request_cpu", req.CPU)
			err = zerr.With(err, "limit_cpu", lim.CPU)
			err = zerr.With(err, "request_memory_mb", req.MemoryMB)
			err = zerr.With(err, "limit_memory_mb", lim.MemoryMB)
			return err
		}
		total.CPU += lim.CPU
		total.MemoryMB += lim.MemoryMB
	}

	if budget.CPU > 0 && total.CPU > budget.CPU {
		err := zerr.With(ErrBudgetExceeded, "total_cpu", total.CPU)
		return zerr.With(err, "budget_cpu", budget.CPU)
	}
	if budget.MemoryMB > 0 && total.MemoryMB > budget.MemoryMB {
		err := zerr.With(ErrBudgetExceeded, "total_memory_mb", total.MemoryMB)
		return zerr.With(err, "budget_memory_mb", budget.MemoryMB)
	}
	return nil
}
