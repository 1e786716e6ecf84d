// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"sync/atomic"
)

var tableIDs atomic.Uint64

type slot struct {
	voice   Voice
	gen     uint32
	pending bool // exhausted during the current render
}

// VoiceTable is a fixed-capacity arena of voices indexed by (channel, slot).
//
// Every slot carries a generation counter that is bumped on reuse, so a
// handle to a removed voice never resolves to the voice that later takes
// its slot. Voices on a channel are visited in insertion order.
//
// A VoiceTable is not safe for concurrent use.
type VoiceTable struct {
	id       uint64
	capacity int
	slots    [][]slot
	order    [][]int // live slot indices per channel, oldest first
	live     int
}

func NewVoiceTable(channels, capacity int) *VoiceTable {
	t := &VoiceTable{
		id:       tableIDs.Add(1),
		capacity: capacity,
		slots:    make([][]slot, channels),
		order:    make([][]int, channels),
	}
	for ch := range channels {
		t.slots[ch] = make([]slot, capacity)
		t.order[ch] = make([]int, 0, capacity)
	}

	return t
}

// Insert stores v on channel and returns its handle.
func (t *VoiceTable) Insert(channel int, v Voice) (Handle, error) {
	if channel < 0 || channel >= len(t.slots) {
		return Handle{}, fmt.Errorf("%w: %d of %d", ErrInvalidChannel, channel, len(t.slots))
	}
	if len(t.order[channel]) == t.capacity {
		return Handle{}, fmt.Errorf("%w: channel %d holds %d voices", ErrRegistryFull, channel, t.capacity)
	}

	slots := t.slots[channel]
	for i := range slots {
		s := &slots[i]
		if s.voice != nil {
			continue
		}

		s.gen++
		if s.gen == 0 {
			s.gen = 1
		}
		s.voice = v
		s.pending = false

		t.order[channel] = append(t.order[channel], i)
		t.live++

		return t.handle(channel, i), nil
	}

	panic("audio: voice table order and slots disagree")
}

// Remove frees the slot h refers to. It reports false, doing nothing, when h
// does not refer to a live voice of this table.
func (t *VoiceTable) Remove(h Handle) bool {
	s := t.lookup(h)
	if s == nil {
		return false
	}

	s.voice = nil
	s.pending = false

	order := t.order[h.channel]
	for i, idx := range order {
		if idx == h.slot {
			t.order[h.channel] = append(order[:i], order[i+1:]...)
			break
		}
	}
	t.live--

	return true
}

// Get resolves h.
func (t *VoiceTable) Get(h Handle) (Voice, bool) {
	s := t.lookup(h)
	if s == nil {
		return nil, false
	}
	return s.voice, true
}

// Each visits the live voices of channel in insertion order until fn
// returns false.
func (t *VoiceTable) Each(channel int, fn func(Handle, Voice) bool) {
	for _, idx := range t.order[channel] {
		s := &t.slots[channel][idx]
		if !fn(t.handle(channel, idx), s.voice) {
			return
		}
	}
}

// Len is the number of live voices across all channels.
func (t *VoiceTable) Len() int { return t.live }

// ChannelLen is the number of live voices on channel.
func (t *VoiceTable) ChannelLen(channel int) int { return len(t.order[channel]) }

func (t *VoiceTable) Channels() int { return len(t.slots) }
func (t *VoiceTable) Capacity() int { return t.capacity }

func (t *VoiceTable) handle(channel, idx int) Handle {
	return Handle{table: t.id, channel: channel, slot: idx, gen: t.slots[channel][idx].gen}
}

// lookup treats the zero handle and handles of other tables as absent. A
// handle minted here with an index outside the table is a bookkeeping bug.
func (t *VoiceTable) lookup(h Handle) *slot {
	if h.gen == 0 || h.table != t.id {
		return nil
	}
	if h.channel < 0 || h.channel >= len(t.slots) || h.slot < 0 || h.slot >= t.capacity {
		panic(fmt.Sprintf("audio: %v outside %dx%d voice table", h, len(t.slots), t.capacity))
	}

	s := &t.slots[h.channel][h.slot]
	if s.voice == nil || s.gen != h.gen {
		return nil
	}
	return s
}
