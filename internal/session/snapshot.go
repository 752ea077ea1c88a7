package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// TransientPrefix marks keys that are never persisted.
const TransientPrefix = "_"

// Snapshot is the persisted form of one session: a flat mapping of named
// fields to their JSON encoded values.
type Snapshot map[string]json.RawMessage

// IsTransient reports whether key is excluded from persistence.
func IsTransient(key string) bool {
	return strings.HasPrefix(key, TransientPrefix)
}

// Put encodes v under key.
func (s Snapshot) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	s[key] = raw
	return nil
}

// Get decodes the value under key into dst. It reports false when the key
// is absent.
func (s Snapshot) Get(key string, dst any) (bool, error) {
	raw, ok := s[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Merge copies every key of other into s, leaving keys absent from other
// untouched.
func (s Snapshot) Merge(other Snapshot) {
	for k, v := range other {
		s[k] = cloneRaw(v)
	}
}

// Persistable returns a deep copy of s without transient keys.
func (s Snapshot) Persistable() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		if IsTransient(k) {
			continue
		}
		out[k] = cloneRaw(v)
	}
	return out
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := maps.Clone(s)
	if out == nil {
		return Snapshot{}
	}
	for k, v := range out {
		out[k] = cloneRaw(v)
	}
	return out
}

func cloneRaw(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}
