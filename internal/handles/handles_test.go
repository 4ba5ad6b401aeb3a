package handles

import (
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type record struct {
		Name  string
		Value int
	}

	rec := &record{Name: "input", Value: 42}
	id := Register(rec)
	defer Release(id, nil)

	if id == 0 {
		t.Fatal("Register should never return the zero token")
	}

	got, ok := Lookup(id).(*record)
	if !ok {
		t.Fatalf("Lookup returned wrong type: %T", Lookup(id))
	}
	if got != rec {
		t.Errorf("Lookup returned a different record: %+v", got)
	}
}

func TestReleaseOnlyOnce(t *testing.T) {
	id := Register("payload")

	var disposed []any
	dispose := func(v any) { disposed = append(disposed, v) }
	if v, ok := Release(id, dispose); !ok || v != "payload" {
		t.Fatalf("first Release = %v, %v, want payload, true", v, ok)
	}
	if v, ok := Release(id, dispose); ok || v != nil {
		t.Errorf("second Release = %v, %v, want nil, false", v, ok)
	}
	if v := Lookup(id); v != nil {
		t.Errorf("Lookup after Release = %v, want nil", v)
	}
	if len(disposed) != 1 || disposed[0] != "payload" {
		t.Errorf("disposed = %v, want [payload]", disposed)
	}
}

func TestLookupUnknown(t *testing.T) {
	if got := Lookup(^uintptr(0)); got != nil {
		t.Errorf("Lookup of unknown token = %v, want nil", got)
	}
	if got, ok := Release(^uintptr(0), nil); ok || got != nil {
		t.Errorf("Release of unknown token = %v, want nil", got)
	}
	if Enter(^uintptr(0)) {
		t.Error("Enter of unknown token should fail")
	}
	if Enter(0) {
		t.Error("Enter of the zero token should fail")
	}
	Leave(^uintptr(0))
}

func TestCountTracksOutstandingRecords(t *testing.T) {
	base := Count()

	a := Register(1)
	b := Register(2)
	if got := Count(); got != base+2 {
		t.Fatalf("Count = %d, want %d", got, base+2)
	}

	Release(a, nil)
	Release(b, nil)
	Release(b, nil)
	if got := Count(); got != base {
		t.Errorf("Count after Release = %d, want %d", got, base)
	}
}

func TestReleaseInsideCallbackWaitsForLeave(t *testing.T) {
	base, pending := Count(), Pending()
	id := Register("record")

	disposed := 0
	if !Enter(id) {
		t.Fatal("Enter of a live token failed")
	}
	if !Enter(id) {
		t.Fatal("nested Enter failed")
	}
	if _, ok := Release(id, func(any) { disposed++ }); !ok {
		t.Fatal("Release inside a callback failed")
	}

	if disposed != 0 {
		t.Fatal("record disposed while its callback runs")
	}
	if got := Lookup(id); got != nil {
		t.Errorf("Lookup of a released record = %v, want nil", got)
	}
	if Enter(id) {
		t.Error("Enter of a released record should fail")
	}
	if got := Count(); got != base {
		t.Errorf("Count = %d, want %d", got, base)
	}
	if got := Pending(); got != pending+1 {
		t.Errorf("Pending = %d, want %d", got, pending+1)
	}

	Leave(id)
	if disposed != 0 {
		t.Fatal("inner Leave disposed the record")
	}
	Leave(id)
	if disposed != 1 {
		t.Errorf("disposed %d times after the outer Leave, want 1", disposed)
	}
	if got := Pending(); got != pending {
		t.Errorf("Pending = %d, want %d", got, pending)
	}

	Leave(id)
	if disposed != 1 {
		t.Errorf("extra Leave disposed again")
	}
}

func TestLeaveWithoutReleaseKeepsRecord(t *testing.T) {
	id := Register("record")
	defer Release(id, nil)

	Enter(id)
	Leave(id)
	if got := Lookup(id); got != "record" {
		t.Errorf("Lookup = %v, want record", got)
	}
}

func TestConcurrentReleaseDisposesOnce(t *testing.T) {
	const racers = 32

	for i := 0; i < 100; i++ {
		id := Register(i)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			wins     int
			disposed int
		)
		dispose := func(any) {
			mu.Lock()
			disposed++
			mu.Unlock()
		}
		wg.Add(racers)
		for r := 0; r < racers; r++ {
			go func() {
				defer wg.Done()
				if _, ok := Release(id, dispose); ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if wins != 1 || disposed != 1 {
			t.Fatalf("token %d released %d times, disposed %d times", id, wins, disposed)
		}
	}
}

func TestTokensAreUnique(t *testing.T) {
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		id := Register(i)
		if seen[id] {
			t.Errorf("token %d issued twice", id)
		}
		seen[id] = true
	}

	for id := range seen {
		Release(id, nil)
	}
}
