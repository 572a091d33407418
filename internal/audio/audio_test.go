package audio

import (
	"testing"

	"sprite2d/internal/sector"
)

func TestSpatializeFalloff(t *testing.T) {
	m := newManager()
	m.listener = sector.NewPoint(100, 0)

	near, _ := m.spatialize(sector.NewPoint(101, 0), m.FullSpeed)
	far, _ := m.spatialize(sector.NewPoint(130, 0), m.FullSpeed)
	if near <= far || far <= 0 {
		t.Errorf("Expected near louder than far, got %f and %f", near, far)
	}

	if v, _ := m.spatialize(sector.NewPoint(100+float64(m.MaxDistance), 0), m.FullSpeed); v != 0 {
		t.Errorf("Expected silence at max distance, got %f", v)
	}
	if v, _ := m.spatialize(sector.NewPoint(100, 0), m.MinSpeed/2); v != 0 {
		t.Errorf("Expected slow impacts to be silent, got %f", v)
	}
}

func TestSpatializePan(t *testing.T) {
	m := newManager()

	if _, pan := m.spatialize(sector.NewPoint(-5, 0), m.FullSpeed); pan != 0 {
		t.Errorf("Expected full left, got %f", pan)
	}
	if _, pan := m.spatialize(sector.NewPoint(5, 0), m.FullSpeed); pan != 1 {
		t.Errorf("Expected full right, got %f", pan)
	}
	if _, pan := m.spatialize(sector.NewPoint(0, 5), m.FullSpeed); pan != 0.5 {
		t.Errorf("Expected center for a sound straight below, got %f", pan)
	}
}

func TestImpactSamplesDecay(t *testing.T) {
	samples := ImpactSamples(sampleRate, 0.1)
	if len(samples) != sampleRate/10 {
		t.Fatalf("Expected %d samples, got %d", sampleRate/10, len(samples))
	}

	peak := func(s []int16) int16 {
		var p int16
		for _, v := range s {
			if v < 0 {
				v = -v
			}
			if v > p {
				p = v
			}
		}
		return p
	}
	head, tail := peak(samples[:200]), peak(samples[len(samples)-200:])
	if head <= tail*10 {
		t.Errorf("Expected the knock to decay, head %d tail %d", head, tail)
	}
	if len(encodePCM(samples)) != 2*len(samples) {
		t.Error("Expected 16-bit PCM")
	}
}

func TestPlayWithoutDevice(t *testing.T) {
	// no Init: must be a no-op
	SetListener(sector.Point{})
	PlayImpact(sector.Point{}, 10)
	if Get() != nil {
		t.Error("Expected no manager before Init")
	}
}
