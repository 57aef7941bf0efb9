// Package ui provides the Bubble Tea TUI for shopper.
//
// The App model owns widgets only (inputs, viewport, spinner, help). All
// search and chat state lives in the controller, which the App drives with
// key presses and the result messages its commands return.
package ui

// frameMsg advances the score bar animation by one frame. gen ties the frame
// to the result set it animates; frames from an older set are dropped.
type frameMsg struct {
	gen int
}
