// Package editor provides a Bubble Tea rich-text field backed by a
// controlled editing session.
//
// The package handles key input, the toolbar strip, the inline prompt used
// to insert and edit formulas and images, viewport scrolling, and
// rendering of marks, lists and atoms through node views.
package editor
