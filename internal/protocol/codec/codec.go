package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/palemoky/bingo-client/internal/protocol"
)

var (
	ErrEmptyFrame  = errors.New("empty frame")
	ErrMissingType = errors.New("missing type discriminator")
)

// Decode parses one inbound frame. The returned message comes from the pool;
// callers hand it back with PutMessage once handled.
func Decode(data []byte) (*protocol.Message, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFrame
	}

	var envelope struct {
		Type protocol.MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.Type == "" {
		return nil, ErrMissingType
	}

	msg := GetMessage()
	msg.Type = envelope.Type
	msg.Raw = data
	return msg, nil
}

// ParsePayload decodes the message body into T.
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Raw, &payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return &payload, nil
}

// Encode serializes an outbound message.
func Encode(v any) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encoder appends a newline; copy out since buf returns to the pool
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return append([]byte(nil), out...), nil
}
