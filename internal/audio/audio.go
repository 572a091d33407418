// Package audio plays short impact sounds panned and attenuated around a
// listener in world space.
package audio

import (
	"encoding/binary"
	"sync"

	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	sampleRate = 22050
	voiceCount = 8
)

// Manager handles impact playback. Sounds are drawn round-robin from a small
// pool of voices so overlapping impacts do not cut each other off.
type Manager struct {
	mu          sync.Mutex
	listener    sector.Point
	voices      []rl.Sound
	next        int
	MaxDistance float32 // world units; silent beyond
	MinSpeed    float32 // impacts slower than this are not played
	FullSpeed   float32 // impacts at this speed play at full volume
	Muted       bool
}

var globalManager *Manager

// Init opens the audio device and builds the impact voices.
func Init() {
	rl.InitAudioDevice()
	if !rl.IsAudioDeviceReady() {
		return
	}
	wave := rl.NewWave(uint32(sampleRate/10), sampleRate, 16, 1, encodePCM(ImpactSamples(sampleRate, 0.1)))

	m := newManager()
	for i := 0; i < voiceCount; i++ {
		m.voices = append(m.voices, rl.LoadSoundFromWave(wave))
	}
	globalManager = m
}

func newManager() *Manager {
	return &Manager{
		MaxDistance: 40,
		MinSpeed:    1,
		FullSpeed:   15,
	}
}

// Get returns the manager, or nil before Init or without an audio device.
func Get() *Manager {
	return globalManager
}

// Close shuts down the audio system
func Close() {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	for _, v := range globalManager.voices {
		rl.UnloadSound(v)
	}
	globalManager.voices = nil
	globalManager.mu.Unlock()
	globalManager = nil
	rl.CloseAudioDevice()
}

// SetListener moves the point impacts are heard from.
func SetListener(pos sector.Point) {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.listener = pos
}

// PlayImpact plays one impact at pos. Louder for faster impacts.
func PlayImpact(pos sector.Point, speed float32) {
	m := globalManager
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Muted || len(m.voices) == 0 {
		return
	}
	volume, pan := m.spatialize(pos, speed)
	if volume <= 0 {
		return
	}

	v := m.voices[m.next]
	m.next = (m.next + 1) % len(m.voices)
	rl.SetSoundVolume(v, volume)
	rl.SetSoundPan(v, pan)
	// heavier hits sound lower
	rl.SetSoundPitch(v, 1.2-0.4*math32.Min(1, speed/m.FullSpeed))
	rl.PlaySound(v)
}

// spatialize returns volume in [0, 1] and pan in [0, 1] (0 = full left).
func (m *Manager) spatialize(pos sector.Point, speed float32) (volume, pan float32) {
	if speed < m.MinSpeed {
		return 0, 0.5
	}
	toSource := pos.Sub(m.listener)
	distance := rl.Vector2Length(toSource)
	if distance >= m.MaxDistance {
		return 0, 0.5
	}

	// Linear falloff
	volume = (1 - distance/m.MaxDistance) * math32.Min(1, speed/m.FullSpeed)

	pan = 0.5
	if distance > 0.001 {
		pan = 0.5 + 0.5*toSource.X/distance
		if pan < 0 {
			pan = 0
		} else if pan > 1 {
			pan = 1
		}
	}
	return volume, pan
}

// ImpactSamples synthesizes a short knock: a low sine with a fast decay.
func ImpactSamples(rate int, seconds float32) []int16 {
	n := int(float32(rate) * seconds)
	out := make([]int16, n)
	for i := range out {
		t := float32(i) / float32(rate)
		env := math32.Exp(-t * 40)
		s := math32.Sin(2*math32.Pi*180*t) + 0.3*math32.Sin(2*math32.Pi*430*t)
		out[i] = int16(clampUnit(s*env*0.7) * 32767)
	}
	return out
}

func encodePCM(samples []int16) []byte {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

func clampUnit(x float32) float32 {
	return math32.Max(-1, math32.Min(1, x))
}
