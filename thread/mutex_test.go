package thread

import (
	"testing"

	"github.com/wippyai/pal"
)

func TestMutex_MutualExclusion(t *testing.T) {
	sys := newSystem(t)

	m, err := NewMutex(sys)
	if err != nil {
		t.Fatalf("NewMutex failed: %v", err)
	}
	defer m.Close()

	const workers = 8
	const iterations = 10000

	counter := 0
	var threads []*Thread
	for i := 0; i < workers; i++ {
		th, err := Create(sys, func(any) any {
			for j := 0; j < iterations; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
			return nil
		}, nil)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		threads = append(threads, th)
	}
	for _, th := range threads {
		if _, _, err := th.Join(0); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
	}

	if counter != workers*iterations {
		t.Errorf("counter = %d, want %d", counter, workers*iterations)
	}
}

func TestMutex_TryLock(t *testing.T) {
	sys := newSystem(t)

	m, err := NewMutex(sys)
	if err != nil {
		t.Fatalf("NewMutex failed: %v", err)
	}
	defer m.Close()

	if !m.TryLock() {
		t.Fatal("TryLock on a free mutex should succeed")
	}
	if m.TryLock() {
		t.Fatal("TryLock on a held mutex should fail")
	}
	m.Unlock()
	if !m.TryLock() {
		t.Fatal("TryLock after Unlock should succeed")
	}
	m.Unlock()
}

func TestMutex_UnlockNotHeldPanics(t *testing.T) {
	sys := newSystem(t, pal.WithInstrumented(true))

	m, err := NewMutex(sys)
	if err != nil {
		t.Fatalf("NewMutex failed: %v", err)
	}
	defer m.Close()

	defer func() {
		if recover() == nil {
			t.Error("Unlock of an unheld mutex should panic when instrumented")
		}
	}()
	m.Unlock()
}

func TestMutex_CloseReleasesResource(t *testing.T) {
	sys := newSystem(t)

	m, err := NewMutex(sys)
	if err != nil {
		t.Fatalf("NewMutex failed: %v", err)
	}
	if sys.Table().Len() != 1 {
		t.Fatalf("table len = %d, want 1", sys.Table().Len())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sys.Table().Len() != 0 {
		t.Errorf("table len = %d after Close, want 0", sys.Table().Len())
	}
}
