// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("wav: not a WAV file")
	ErrUnsupportedFormat   = errors.New("wav: only PCM is supported")
	ErrUnsupportedBitDepth = errors.New("wav: unsupported bit depth")
	ErrRecorderClosed      = errors.New("wav: recorder closed")
)
