// Package render turns a TrajectorySet into a Figure: one colored polyline
// per trajectory inside fixed axis limits, seen from a configurable camera.
// It also reduces trajectories to their mean positions for the x and y
// histograms.
//
// Figures are plain data. WriteHTML emits an interactive echarts page,
// WriteImage and WriteHistogram emit PNG or SVG through gonum/plot, and the
// viz package draws them on a terminal canvas.
package render
