package heightgen

import (
	"errors"
	"testing"

	"github.com/Faultbox/terracast/pkg/terrain"
)

func smallConfig() Config {
	cfg := Default()
	cfg.Width = 32
	cfg.Height = 16
	cfg.Amplitude = 5
	cfg.Seed = 7
	return cfg
}

func TestGenerate_Dimensions(t *testing.T) {
	cfg := smallConfig()
	hm, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if hm.Width != 32 || hm.Height != 16 {
		t.Errorf("expected 32x16, got %dx%d", hm.Width, hm.Height)
	}
	if len(hm.Heights) != 512 {
		t.Errorf("expected 512 samples, got %d", len(hm.Heights))
	}
	if hm.Scale.X != cfg.CellSize || hm.Scale.Y != cfg.CellSize {
		t.Errorf("expected uniform cell size %v, got %v", cfg.CellSize, hm.Scale)
	}
	if hm.VerticalScale != cfg.VerticalScale {
		t.Errorf("expected vertical scale %v, got %v", cfg.VerticalScale, hm.VerticalScale)
	}
}

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	cfg := smallConfig()

	first, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := range first.Heights {
		if first.Heights[i] != second.Heights[i] {
			t.Fatalf("sample %d differs between runs with the same seed", i)
		}
	}

	cfg.Seed = 8
	other, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	same := true
	for i := range first.Heights {
		if first.Heights[i] != other.Heights[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected a different seed to produce different terrain")
	}
}

func TestGenerate_HeightsWithinAmplitude(t *testing.T) {
	hm, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i, h := range hm.Heights {
		if h < 0 || h > 5 {
			t.Fatalf("sample %d out of [0, 5]: %v", i, h)
		}
	}
	if hm.MinHeight > hm.MaxHeight {
		t.Errorf("inconsistent bounds [%v, %v]", hm.MinHeight, hm.MaxHeight)
	}
}

func TestGenerate_InvalidParameters(t *testing.T) {
	cfg := smallConfig()
	cfg.Width = 1
	if _, err := Generate(cfg); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}

	cfg = smallConfig()
	cfg.Octaves = 0
	if _, err := Generate(cfg); !errors.Is(err, ErrInvalidOctaves) {
		t.Errorf("expected ErrInvalidOctaves, got %v", err)
	}

	cfg = smallConfig()
	cfg.CellSize = 0
	if _, err := Generate(cfg); !errors.Is(err, terrain.ErrHeightmapScale) {
		t.Errorf("expected ErrHeightmapScale, got %v", err)
	}
}

func TestGenerate_RandomSeed(t *testing.T) {
	cfg := smallConfig()
	cfg.Seed = 0

	hm, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := hm.Validate(); err != nil {
		t.Errorf("expected a valid heightmap, got %v", err)
	}
}

func TestGenerate_Queryable(t *testing.T) {
	hm, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	h, ok := hm.HeightAt(0, 0)
	if !ok {
		t.Fatal("expected the world origin to be inside the grid")
	}
	if h < 0 || h > 5 {
		t.Errorf("expected interpolated height in [0, 5], got %v", h)
	}
}
