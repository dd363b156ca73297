package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single framed message. An oversized message is a
// hard error, never a silent truncation.
const MaxMessageSize = 1 << 20

var ErrMessageTooLarge = errors.New("message exceeds maximum size")

// DecodeError marks a payload that was framed correctly but is not valid JSON
// for the target type. The stream itself is still in sync, so the caller can
// answer with an error response and keep reading.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode message: %v", e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// ReadMessage reads one newline-delimited JSON message into v. It returns
// io.EOF when the peer closed the connection with no pending data,
// ErrMessageTooLarge when the line exceeds MaxMessageSize, and a *DecodeError
// when the line is not valid JSON.
func ReadMessage(r *bufio.Reader, v any) error {
	line, err := readLine(r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(line, v); err != nil {
		return &DecodeError{err: err}
	}

	return nil
}

func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte

	for {
		frag, err := r.ReadSlice('\n')
		line = append(line, frag...)

		if len(line) > MaxMessageSize {
			return nil, ErrMessageTooLarge
		}

		switch {
		case err == nil:
			return bytes.TrimRight(line, "\r\n"), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			// A final message without a trailing newline is accepted; a bare
			// EOF means the peer is done.
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) > 0 {
				return trimmed, nil
			}
			return nil, io.EOF
		default:
			return nil, err
		}
	}
}

// WriteMessage marshals v and writes it as a single newline-terminated frame.
func WriteMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}
