package hash

import (
	"math"
	"testing"
)

func TestHash(t *testing.T) {
	type config struct {
		Name   string
		Values []float64
		Attrs  map[string]string
	}
	a := config{Name: "a", Values: []float64{1, math.NaN()}, Attrs: map[string]string{"x": "1", "y": "2"}}
	b := config{Name: "a", Values: []float64{1, math.NaN()}, Attrs: map[string]string{"y": "2", "x": "1"}}
	if Hash(a) != Hash(b) {
		t.Errorf("equal values have different hashes: %s, %s", Hash(a), Hash(b))
	}
	b.Values[0] = 2
	if Hash(a) == Hash(b) {
		t.Errorf("different values have the same hash %s", Hash(a))
	}
	if len(Hash(a)) != 32 {
		t.Errorf("hash length: %d", len(Hash(a)))
	}
}
