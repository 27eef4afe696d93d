package world

import "sync"

// Surface is the shared, mutable voxel grid minigames are built into.
type Surface interface {
	Block(pos BlockPos) BlockKind
	// SetBlock places kind at pos and returns the block it replaced.
	SetBlock(pos BlockPos, kind BlockKind) BlockKind
	PlaySound(sound Sound, pos BlockPos, volume, pitch float32)
}

type PlayedSound struct {
	Sound         Sound
	Pos           BlockPos
	Volume, Pitch float32
}

// maxSounds bounds the sounds a Memory remembers.
const maxSounds = 256

// Memory is a Surface held entirely in a map. Unset coordinates are air.
type Memory struct {
	mu     sync.RWMutex
	blocks map[BlockPos]BlockKind
	sounds []PlayedSound
}

func NewMemory() *Memory {
	return &Memory{blocks: make(map[BlockPos]BlockKind)}
}

func (m *Memory) Block(pos BlockPos) BlockKind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blocks[pos]
}

func (m *Memory) SetBlock(pos BlockPos, kind BlockKind) BlockKind {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.blocks[pos]
	if kind.IsAir() {
		delete(m.blocks, pos)
	} else {
		m.blocks[pos] = kind
	}
	return prev
}

func (m *Memory) PlaySound(sound Sound, pos BlockPos, volume, pitch float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sounds) == maxSounds {
		copy(m.sounds, m.sounds[1:])
		m.sounds = m.sounds[:maxSounds-1]
	}
	m.sounds = append(m.sounds, PlayedSound{Sound: sound, Pos: pos, Volume: volume, Pitch: pitch})
}

// Sounds returns the most recent sounds played, oldest first.
func (m *Memory) Sounds() []PlayedSound {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PlayedSound, len(m.sounds))
	copy(out, m.sounds)
	return out
}

// NumBlocks returns the number of non-air blocks.
func (m *Memory) NumBlocks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}
