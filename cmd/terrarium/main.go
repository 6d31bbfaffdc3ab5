// Terrarium is a terminal dashboard for a terrarium climate controller. It
// polls sensors, relays and system status from the controller API and lets
// an operator switch relays, change the automation mode, edit thresholds
// and schedules, and browse history. Headless companions mirror the polled
// state over HTTP, websocket and MQTT, or expose the API as MCP tools.
package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
