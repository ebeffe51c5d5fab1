// Package ui styles the command line output of hamilmoji with [lipgloss].
//
// Colors degrade to plain text when the output is not a terminal.
package ui
