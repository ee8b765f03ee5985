package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// position is the decoded form of a query cursor: the sort value and key of
// the last document a page returned.
type position struct {
	Value int64  `json:"v"`
	Key   string `json:"k"`
}

func encodeCursor(p position) string {
	raw, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (*position, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var p position
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if p.Key == "" {
		return nil, fmt.Errorf("%w: missing key", ErrInvalidCursor)
	}
	return &p, nil
}

func sortValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
