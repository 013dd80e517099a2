package sync_preparer

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// TransportDecodeError reports transport-encoded data that cannot be decoded.
// It always indicates corrupt upstream data and is propagated to the caller.
type TransportDecodeError struct {
	Cause error
}

func (e *TransportDecodeError) Error() string {
	return fmt.Sprintf("invalid transport payload: %v", e.Cause)
}

func (e *TransportDecodeError) Unwrap() error { return e.Cause }

// DecodeTransportPayload reverses the base64 transport encoding into text.
// The bytes are interpreted as UTF-8; content that is not valid UTF-8 falls
// back to a byte-per-character decode so no payload is silently truncated.
func DecodeTransportPayload(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &TransportDecodeError{Cause: err}
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Byte-per-character fallback, mapping each byte to the code point of the
	// same value.
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
