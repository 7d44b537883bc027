package terrain

import (
	"errors"
	"sync"
	"testing"
)

func TestWorld_Regenerate(t *testing.T) {
	w := NewWorld(16, 5, nil)

	if w.Seed() != 5 {
		t.Errorf("expected seed 5, got %d", w.Seed())
	}
	if w.Size() != 16 {
		t.Errorf("expected size 16, got %d", w.Size())
	}

	before := w.Field()
	after := w.Regenerate(6)
	if after == before {
		t.Error("expected regeneration to publish a new field")
	}
	if !before.Equal(Generate(5, 16)) {
		t.Error("expected the previous field to be left untouched")
	}
	if !w.Field().Equal(Generate(6, 16)) {
		t.Error("expected world to expose the regenerated field")
	}
}

func TestWorld_Queries(t *testing.T) {
	w := NewWorld(8, 11, nil)
	hf := Generate(11, 8)

	for x := -1; x <= 8; x++ {
		for z := -1; z <= 8; z++ {
			if w.HeightAt(x, z) != hf.HeightAt(x, z) {
				t.Fatalf("height mismatch at (%d,%d)", x, z)
			}
			for y := -1; y <= hf.MaxHeight(); y++ {
				if w.IsAir(x, z, y) != hf.IsAir(x, z, y) {
					t.Fatalf("air mismatch at (%d,%d,%d)", x, z, y)
				}
				if w.FaceMask(x, z, y) != FaceMaskAt(hf, x, z, y) {
					t.Fatalf("mask mismatch at (%d,%d,%d)", x, z, y)
				}
			}
		}
	}
}

func TestWorld_SnapshotConsistent(t *testing.T) {
	w := NewWorld(DefaultSize, 1, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for seed := int64(2); seed < 40; seed++ {
			w.Regenerate(seed)
		}
	}()

	for range 200 {
		hf, cache := w.Snapshot()
		if cache.Field() != hf {
			t.Fatal("snapshot returned a cache built for a different field")
		}
	}
	wg.Wait()
}

func TestWorld_Load(t *testing.T) {
	w := NewWorld(4, 1, nil)
	hf := Generate(99, 10)

	w.Load(hf)
	if w.Field() != hf {
		t.Error("expected loaded field to be published")
	}
	if w.Size() != 10 {
		t.Errorf("expected size to follow loaded field, got %d", w.Size())
	}
}

func TestWorld_RegenerateAndLoadConcurrent(t *testing.T) {
	w := NewWorld(4, 1, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			hf := w.Regenerate(int64(i))
			if hf.Size < 4 || hf.Size > 6 {
				t.Errorf("expected size between 4 and 6, got %d", hf.Size)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 500 {
			w.Load(Generate(int64(i), 4+i%3))
		}
	}()
	wg.Wait()

	hf, cache := w.Snapshot()
	if w.Size() != hf.Size {
		t.Errorf("expected size %d to match published field, got %d", hf.Size, w.Size())
	}
	if cache.Field() != hf {
		t.Error("expected cache to belong to the published field")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	hf := Generate(-321, DefaultSize)

	data, err := hf.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	got, err := UnmarshalHeightField(data)
	if err != nil {
		t.Fatalf("UnmarshalHeightField failed: %v", err)
	}
	if !got.Equal(hf) {
		t.Error("expected decoded field to equal the original")
	}
	if got.Seed != hf.Seed {
		t.Errorf("expected seed %d, got %d", hf.Seed, got.Seed)
	}
	if got.Checksum() != hf.Checksum() {
		t.Errorf("expected checksum %x, got %x", hf.Checksum(), got.Checksum())
	}
}

func TestSnapshot_Errors(t *testing.T) {
	valid, err := Generate(1, 4).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "NOPE")

	badVersion := append([]byte(nil), valid...)
	badVersion[4] = 9

	tooLarge := append([]byte(nil), valid...)
	tooLarge[5], tooLarge[6], tooLarge[7], tooLarge[8] = 0xFF, 0xFF, 0, 0

	wrongSize := append([]byte(nil), valid...)
	wrongSize[5] = 5

	large, err := Generate(1, 32).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	// header claims 2x2, payload inflates to 32x32
	oversized := append([]byte(nil), large...)
	oversized[5], oversized[6] = 2, 0

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", valid[:8], ErrTruncatedSnapshot},
		{"magic", badMagic, ErrInvalidSnapshotMagic},
		{"version", badVersion, ErrUnsupportedSnapshotVersion},
		{"too large", tooLarge, ErrSnapshotTooLarge},
		{"size mismatch", wrongSize, ErrTruncatedSnapshot},
		{"payload larger than size", oversized, ErrTruncatedSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalHeightField(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestChecksum_DiffersBySize(t *testing.T) {
	a := &HeightField{Size: 1, Heights: []int{1}}
	b := &HeightField{Size: 0}
	if a.Checksum() == b.Checksum() {
		t.Error("expected different checksums for different fields")
	}
}
