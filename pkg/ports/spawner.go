package ports

import "context"

// Command is an executable plus its ordered argument list.
// No shell interpolation is applied to it.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// Spawner launches operating system processes.
type Spawner interface {
	// Start launches the command detached from the caller and returns once it is running.
	Start(ctx context.Context, cmd Command) error

	// Run launches the command and waits for it to exit.
	Run(ctx context.Context, cmd Command) error

	// LookPath resolves an executable name against PATH.
	LookPath(file string) (string, error)
}
