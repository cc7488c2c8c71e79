package terrain

import (
	"sync"
	"testing"

	"refractor/internal/earth"
)

// flatTile is a test Tile whose elevation is a fixed plane, used to give
// normal estimation a known, checkable answer.
type flatTile struct {
	base float64
}

func (f flatTile) Elev(lat, lon float64) (float64, bool) {
	return f.base, true
}

func TestSamplerServesCachedCell(t *testing.T) {
	var loads int
	var mu sync.Mutex
	loader := func(lat, lon int) (Tile, bool) {
		mu.Lock()
		loads++
		mu.Unlock()
		return flatTile{base: 100}, true
	}

	s := NewSampler(loader)
	for i := 0; i < 20; i++ {
		elev, ok := s.GetElev(10.5, 20.5)
		if !ok || elev != 100 {
			t.Fatalf("GetElev: got (%v,%v)", elev, ok)
		}
	}
	if loads != 1 {
		t.Errorf("expected exactly 1 load for repeated queries in the same cell, got %d", loads)
	}
}

func TestSamplerConcurrentLoadSerializesOnce(t *testing.T) {
	var loads int32Counter
	loader := func(lat, lon int) (Tile, bool) {
		loads.add(1)
		return flatTile{base: 50}, true
	}

	s := NewSampler(loader)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.GetElev(1.1, 2.2)
		}()
	}
	wg.Wait()

	if got := loads.get(); got != 1 {
		t.Errorf("expected the cell to load exactly once under concurrent access, got %d", got)
	}
}

func TestSamplerMissingCellReturnsNotOk(t *testing.T) {
	loader := func(lat, lon int) (Tile, bool) { return nil, false }
	s := NewSampler(loader)
	if _, ok := s.GetElev(0, 0); ok {
		t.Errorf("expected no tile to cover (0,0)")
	}
}

func TestSampleNormalPointsUpOnFlatTerrain(t *testing.T) {
	loader := func(lat, lon int) (Tile, bool) { return flatTile{base: 0}, true }
	s := NewSampler(loader)
	model := earth.NewSpherical(earth.SimpleSphereRadius)

	sample := s.Sample(model, 0, 0)
	if !sample.Valid {
		t.Fatalf("expected a valid sample")
	}
	frame := model.WorldDirections(0, 0)
	dot := sample.Normal.Dot(frame.Up)
	if dot < 0.99 {
		t.Errorf("flat terrain normal should point along local up, dot=%v", dot)
	}
}

func TestSampleInvalidReturnsZeroElevWithUpNormal(t *testing.T) {
	loader := func(lat, lon int) (Tile, bool) { return nil, false }
	s := NewSampler(loader)
	model := earth.NewSpherical(earth.SimpleSphereRadius)

	sample := s.Sample(model, 5, 5)
	if sample.Valid {
		t.Fatalf("expected invalid sample")
	}
	if sample.Elev != 0 {
		t.Errorf("invalid sample should default elev to 0, got %v", sample.Elev)
	}
	if up := model.WorldDirections(5, 5).Up; sample.Normal != up {
		t.Errorf("invalid sample normal should be local up %v, got %v", up, sample.Normal)
	}
}

// int32Counter is a tiny atomic counter, avoiding the stdlib sync/atomic
// boilerplate for this single test.
type int32Counter struct {
	mu sync.Mutex
	n  int
}

func (c *int32Counter) add(d int) {
	c.mu.Lock()
	c.n += d
	c.mu.Unlock()
}

func (c *int32Counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
