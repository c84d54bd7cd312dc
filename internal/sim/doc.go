// Package sim turns a parameter tuple, a set of initial conditions and a
// time grid into a TrajectorySet by integrating the Lorenz system from each
// initial condition independently.
//
// A Simulator is immutable after New and safe for concurrent use. With
// Workers > 1 trajectories are integrated in parallel; each result lands in
// its input slot so the output is identical to a sequential run.
package sim
