// Package liveness answers whether a session's owning process is still running.
package liveness

import (
	"errors"
	"os"
	"syscall"
)

// Status is the answer of a liveness probe.
type Status int

const (
	Unknown Status = iota
	Alive
	Dead
)

func (s Status) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Oracle reports whether a process is alive. Implementations must treat any
// answer they cannot determine as Unknown; the classifier maps Unknown to
// active so that ambiguity never leads to a deletion.
type Oracle interface {
	IsAlive(pid int) Status
}

// ProcessOracle probes the OS process table with signal 0.
type ProcessOracle struct{}

func (ProcessOracle) IsAlive(pid int) Status {
	if pid <= 0 {
		return Unknown
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return Unknown
	}
	err = proc.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return Alive
	case errors.Is(err, os.ErrProcessDone), errors.Is(err, syscall.ESRCH):
		return Dead
	case errors.Is(err, syscall.EPERM):
		// Exists but owned by someone else.
		return Alive
	}
	return Unknown
}

// Fake is a scripted oracle for tests.
type Fake struct {
	Answers map[int]Status
	// Default is returned for PIDs not in Answers.
	Default Status
}

func (f Fake) IsAlive(pid int) Status {
	if s, ok := f.Answers[pid]; ok {
		return s
	}
	return f.Default
}
