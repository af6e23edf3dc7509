package actions_test

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/aretw0/companion/pkg/ports"
)

// fakeSpawner records commands instead of running them.
type fakeSpawner struct {
	mu       sync.Mutex
	started  []ports.Command
	ran      []ports.Command
	known    map[string]bool
	startErr error
	runErr   error
}

func newFakeSpawner(known ...string) *fakeSpawner {
	s := &fakeSpawner{known: make(map[string]bool)}
	for _, k := range known {
		s.known[k] = true
	}
	return s
}

func (s *fakeSpawner) Start(ctx context.Context, cmd ports.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started = append(s.started, cmd)
	return nil
}

func (s *fakeSpawner) Run(ctx context.Context, cmd ports.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ran = append(s.ran, cmd)
	return s.runErr
}

func (s *fakeSpawner) LookPath(file string) (string, error) {
	if s.known[file] {
		return "/usr/bin/" + file, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

type fakeRunner struct {
	allowed map[string]bool
	ran     []string
	err     error
}

func (r *fakeRunner) Allowed(name string) bool { return r.allowed[name] }

func (r *fakeRunner) Execute(ctx context.Context, name string) (string, error) {
	if !r.allowed[name] {
		return "", errors.New("not allowed")
	}
	r.ran = append(r.ran, name)
	return "", r.err
}
