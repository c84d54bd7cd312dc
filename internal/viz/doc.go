// Package viz draws rendered figures in the terminal.
//
// [Plot] projects a [render.Figure] onto a Braille [Canvas], two by four
// dots per cell, with each cell colored after the series drawn last into
// it. Series are painted back to front by mean depth. The shared lipgloss
// styles and the one-line histogram helpers are used by the explorer and
// the CLI.
package viz
