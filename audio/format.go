// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ik5/audmix/utils"
)

// BitDepth is the width of one output sample in bits.
type BitDepth int

const (
	Depth8  BitDepth = 8
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// DefaultVoicesPerChannel is the voice table capacity used when
// Format.VoicesPerChannel is left at zero.
const DefaultVoicesPerChannel = 8

func (d BitDepth) Valid() bool {
	switch d {
	case Depth8, Depth16, Depth24, Depth32:
		return true
	}
	return false
}

// Bytes per sample.
func (d BitDepth) Bytes() int { return int(d) / 8 }

// Max is the largest representable sample.
func (d BitDepth) Max() int32 { return int32(utils.FullScale(int(d))) }

// Min is the smallest representable sample.
func (d BitDepth) Min() int32 { return -d.Max() - 1 }

// Quantize scales a normalized value to this depth, saturating outside [-1,1].
func (d BitDepth) Quantize(x float64) int32 { return utils.Quantize(x, int(d)) }

// Clip hard-limits an accumulated value to this depth.
func (d BitDepth) Clip(v int64) (int32, bool) { return utils.Clip(v, int(d)) }

// Put stores v little-endian, two's complement, into dst[:d.Bytes()].
func (d BitDepth) Put(dst []byte, v int32) {
	switch d {
	case Depth8:
		dst[0] = byte(int8(v))
	case Depth16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
	case Depth24:
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v >> 16)
	case Depth32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	default:
		panic(fmt.Sprintf("audio: unsupported bit depth %d", d))
	}
}

// Sample is the inverse of Put.
func (d BitDepth) Sample(src []byte) int32 {
	switch d {
	case Depth8:
		return int32(int8(src[0]))
	case Depth16:
		return int32(int16(binary.LittleEndian.Uint16(src)))
	case Depth24:
		v := int32(src[0]) | int32(src[1])<<8 | int32(src[2])<<16
		// sign extend from bit 23
		return v << 8 >> 8
	case Depth32:
		return int32(binary.LittleEndian.Uint32(src))
	default:
		panic(fmt.Sprintf("audio: unsupported bit depth %d", d))
	}
}

// Format is the fixed output configuration of a player.
type Format struct {
	SampleRate   int      // Hz
	Channels     int      // interleaved output lanes
	BitDepth     BitDepth // 8, 16, 24 or 32
	BufferFrames int      // frames rendered per period

	// VoicesPerChannel caps the voices mixed into one channel.
	// Zero selects DefaultVoicesPerChannel.
	VoicesPerChannel int
}

// Validate reports every invalid field at once.
func (f Format) Validate() error {
	var errs []error

	if f.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidSampleRate, f.SampleRate))
	}
	if f.Channels < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidChannels, f.Channels))
	}
	if !f.BitDepth.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, f.BitDepth))
	}
	if f.BufferFrames <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidBufferFrames, f.BufferFrames))
	}
	if f.VoicesPerChannel < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidVoiceCapacity, f.VoicesPerChannel))
	}

	return errors.Join(errs...)
}

// WithDefaults fills zero optional fields.
func (f Format) WithDefaults() Format {
	if f.VoicesPerChannel == 0 {
		f.VoicesPerChannel = DefaultVoicesPerChannel
	}
	return f
}

// FrameBytes is the size of one interleaved frame.
func (f Format) FrameBytes() int { return f.Channels * f.BitDepth.Bytes() }

// BufferBytes is the size of one period buffer.
func (f Format) BufferBytes() int { return f.BufferFrames * f.FrameBytes() }

// BytesPerSecond is the output throughput.
func (f Format) BytesPerSecond() int { return f.SampleRate * f.FrameBytes() }

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit/%dframes", f.SampleRate, f.Channels, f.BitDepth, f.BufferFrames)
}
