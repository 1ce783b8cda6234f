// Package hotzone implements the pointer presence state machine for joodock.
// A Monitor polls the pointer on a fixed cadence, classifies it against the
// hover zone at the top of the screen and the popup's safe area, and asks the
// visibility controller to show or hide the popup once the debounce delays
// have elapsed.
package hotzone
