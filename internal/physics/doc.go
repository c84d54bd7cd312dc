// Package physics provides the Lorenz model used by the trajectory simulator.
//
// [Lorenz] implements [dynamo.System] for the vector field
//
//	dx/dt = σ(y − x)
//	dy/dt = x(ρ − z) − y
//	dz/dt = xy − βz
//
// [Params] carries the three coefficients and is immutable for the duration
// of a run; a new [Lorenz] is built for every simulation request.
//
//	dyn := physics.NewLorenz(physics.Classic())
//	dx := dyn.Derive(dynamo.State{1, 1, 1}, 0)
package physics
