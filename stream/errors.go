// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrSeekOutOfRange = errors.New("seek position outside the stream")
	ErrInvalidBufSize = errors.New("buffer size must be positive")
)
