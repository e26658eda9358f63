package feed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/amalg/bomb-arena/internal/game"
)

// MsgType identifies the type of a feed message.
type MsgType string

const (
	MsgHello  MsgType = "hello"  // Full state, sent once on connect
	MsgEvents MsgType = "events" // Render events of one tick
	MsgState  MsgType = "state"  // Full state, sent when a round ends
)

// Format selects the wire encoding of a connection.
type Format string

const (
	FormatJSON    Format = "json"    // WebSocket text messages
	FormatMsgpack Format = "msgpack" // WebSocket binary messages
)

// ParseFormat maps a query value to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Envelope wraps every feed message.
type Envelope struct {
	Type    MsgType        `json:"type" msgpack:"type"`
	MatchID string         `json:"match_id" msgpack:"match_id"`
	Events  []game.Event   `json:"events,omitempty" msgpack:"events,omitempty"`
	State   *game.Snapshot `json:"state,omitempty" msgpack:"state,omitempty"`
}

// Encode serializes an envelope in the given format.
func Encode(f Format, env Envelope) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch f {
	case FormatMsgpack:
		b, err = marshalMsgpack(&env)
	default:
		b, err = json.Marshal(env)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", f, err)
	}
	return b, nil
}

// Decode parses an envelope in the given format.
func Decode(f Format, data []byte) (*Envelope, error) {
	var env Envelope
	var err error
	switch f {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		err = dec.Decode(&env)
	default:
		err = json.Unmarshal(data, &env)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s envelope: %w", f, err)
	}
	return &env, nil
}

// marshalMsgpack falls back to json tags so both formats share field names.
func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
