// SPDX-License-Identifier: EPL-2.0

package audmix

import "errors"

var (
	ErrNotInitialized     = errors.New("player is not initialized")
	ErrAlreadyInitialized = errors.New("player is already initialized")
	ErrUnknownVoice       = errors.New("handle does not refer to a live voice")
	ErrGainNotSupported   = errors.New("voice has no adjustable gain")
)
