package wire

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// MaxMessageBytes bounds how much of an inbound stream is read before
// decoding, capping memory for a malicious or buggy peer (spec.md §4.4:
// "bounded at 100 MiB to cap memory"). It is a compile-time constant with
// no run-time setting; Read takes the bound as a parameter and the network
// adapter passes this value.
const MaxMessageBytes = 100 * 1024 * 1024

// Write serializes msg and writes it to w in full. Callers are expected to
// finish the underlying stream afterward; Write itself does not close
// anything, matching the "one message per stream" contract where the
// caller owns the stream's lifecycle.
func Write(w io.Writer, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "wire: encode message")
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "wire: write message")
	}
	return nil
}

// Read reads r to end, bounded at maxBytes, and decodes exactly one
// message. It is the receiver-side counterpart of Write: one stream, one
// message, read once.
func Read(r io.Reader, maxBytes int64) (Message, error) {
	limited := io.LimitReader(r, maxBytes+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return Message{}, errors.Wrap(err, "wire: read stream")
	}
	if int64(len(b)) > maxBytes {
		return Message{}, errors.Errorf("wire: message exceeds %d byte limit", maxBytes)
	}
	var msg Message
	if err := json.Unmarshal(b, &msg); err != nil {
		return Message{}, errors.Wrap(err, "wire: decode message")
	}
	return msg, nil
}
