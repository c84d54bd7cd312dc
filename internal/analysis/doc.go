// Package analysis provides chaos diagnostics for the Lorenz system.
//
//   - [LyapunovExponent]: largest Lyapunov exponent by repeated
//     renormalization of a nearby orbit
//   - [ZMaxima]: successive maxima of z, the Lorenz return map
//   - [RhoSweep]: z maxima across a range of ρ, a bifurcation diagram
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(sys, integ, x0, analysis.DefaultLyapunovOptions())
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
