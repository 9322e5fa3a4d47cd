// Package app defines the message types, commands and widget contract that
// tie the kiosk's bubbletea program to the refresh controller and the
// background collectors.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// StateEvent carries a dashboard snapshot from the refresh controller.
type StateEvent struct {
	State dashboard.State
}

// StateClosedEvent is delivered once the controller's update stream ends.
type StateClosedEvent struct{}

// DataUpdateEvent carries new data from a collector goroutine back into the
// bubbletea update loop. Receivers type-assert Data based on Source.
type DataUpdateEvent struct {
	Source    string // collector name, e.g. "node"
	Data      any
	Err       error
	Timestamp time.Time
}

// ClockTickEvent drives the clock's one-second repaint.
type ClockTickEvent struct {
	Time time.Time
}

// OpenLinkEvent asks the root model to open URL in the browser.
type OpenLinkEvent struct {
	URL string
}

// LinkOpenedEvent reports the outcome of an OpenLinkEvent.
type LinkOpenedEvent struct {
	URL string
	Err error
}

// RefreshRequestEvent asks the root model for a manual refresh.
type RefreshRequestEvent struct{}
