// Package app defines the runtime contract shared by the bridge binaries
// (API server and relayer).
package app

// Runner represents a runnable application component.
type Runner interface {
	Run() error
}
