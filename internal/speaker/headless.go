// SPDX-License-Identifier: EPL-2.0

//go:build headless

package speaker

import (
	"fmt"

	"github.com/ik5/audmix/audio"
)

// headlessDevice pulls periods as fast as they are published.
type headlessDevice struct {
	s    *Speaker
	done chan struct{}
}

func (d *headlessDevice) run() {
	for {
		select {
		case <-d.done:
			return
		case b := <-d.s.queue:
			b.Release()
		}
	}
}

func (d *headlessDevice) Close() error {
	close(d.done)
	return nil
}

// New returns a speaker that discards every period; builds without a sound
// stack use it.
func New(f audio.Format) (*Speaker, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("speaker: %w", err)
	}

	s := newSpeaker(f)
	d := &headlessDevice{s: s, done: make(chan struct{})}
	s.backend = d
	go d.run()

	return s, nil
}
