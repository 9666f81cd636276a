package cache

import "encoding/json"

// SnapshotVersion tags every persisted snapshot. A payload carrying any other
// version, or no recognizable envelope at all, decodes as absent.
const SnapshotVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// EncodeSnapshot wraps data in the versioned envelope.
func EncodeSnapshot[T any](data T) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SnapshotVersion, Data: raw})
}

// DecodeSnapshot unwraps a snapshot payload. Malformed input, a foreign
// shape, a version mismatch, or data that does not fit T all report !ok
// rather than an error: the cache contract treats them as absent.
func DecodeSnapshot[T any](payload []byte) (T, bool) {
	var zero T
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return zero, false
	}
	if env.Version != SnapshotVersion || len(env.Data) == 0 {
		return zero, false
	}
	var data T
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return zero, false
	}
	return data, true
}
