// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// models, integrators and the trajectory simulator:
//
//   - [State]: vector representing system state
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [AdaptiveIntegrator]: embedded pair with local error control
//   - [Config]: solver tolerances and step limits
//
// # Errors
//
// Bad inputs are reported as [*ValidationError] before any integration
// starts. Solver failures are reported as [*NumericalError], which carries
// the index and initial condition of the trajectory that failed. Both wrap
// sentinel values so callers can use [errors.Is]:
//
//	if errors.Is(err, dynamo.ErrStepTooSmall) {
//	    // tighten the tolerances or shorten the run
//	}
//
// # Thread Safety
//
// Integrators may keep scratch buffers and are NOT safe for concurrent use.
// Create one integrator per goroutine.
package dynamo
