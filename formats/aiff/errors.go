// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the file is not a valid AIFF file
	ErrNotAiffFile = errors.New("aiff: not an AIFF file")

	// ErrUnsupportedBitDepth is returned for sample sizes other than 8, 16, 24 or 32 bits.
	ErrUnsupportedBitDepth = errors.New("aiff: unsupported bit depth")

	// ErrUnsupportedAiffLayout indicates an unsupported AIFF layout
	ErrUnsupportedAiffLayout = errors.New("aiff: unsupported layout")
)
