package todoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TaskDto is the wire representation of a single todo item.
type TaskDto struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Title    string `json:"title"`
	Finished bool   `json:"completed"`
}

// taskWire mirrors TaskDto with identifiers kept raw so they can be decoded
// from either JSON strings or JSON numbers.
type taskWire struct {
	ID       json.RawMessage `json:"id"`
	UserID   json.RawMessage `json:"userId"`
	Title    string          `json:"title"`
	Finished bool            `json:"completed"`
}

// UnmarshalJSON accepts numeric identifiers as emitted by some upstreams.
func (t *TaskDto) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := identifier(w.ID)
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	userID, err := identifier(w.UserID)
	if err != nil {
		return fmt.Errorf("decode userId: %w", err)
	}
	*t = TaskDto{ID: id, UserID: userID, Title: w.Title, Finished: w.Finished}
	return nil
}

func identifier(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}
