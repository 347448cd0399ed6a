package liveness

import (
	"os"
	"testing"
)

func TestProcessOracleSelf(t *testing.T) {
	if got := (ProcessOracle{}).IsAlive(os.Getpid()); got != Alive {
		t.Errorf("own pid should be alive, got %v", got)
	}
}

func TestProcessOracleInvalidPID(t *testing.T) {
	o := ProcessOracle{}
	if got := o.IsAlive(0); got != Unknown {
		t.Errorf("pid 0 should be unknown, got %v", got)
	}
	if got := o.IsAlive(-5); got != Unknown {
		t.Errorf("negative pid should be unknown, got %v", got)
	}
}

func TestFake(t *testing.T) {
	f := Fake{
		Answers: map[int]Status{1: Alive, 2: Dead},
		Default: Unknown,
	}
	if f.IsAlive(1) != Alive || f.IsAlive(2) != Dead {
		t.Error("scripted answers not honored")
	}
	if f.IsAlive(99) != Unknown {
		t.Error("default not honored")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{Alive: "alive", Dead: "dead", Unknown: "unknown"}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
