package backend

import (
	"bytes"
	"encoding/json"

	"github.com/hospos/hospos-client/internal/core/ports"
)

// DecodeList turns a list response into items. Anything other than a JSON
// array of T, including null and error envelopes, yields an empty list with
// Malformed set.
func DecodeList[T any](data []byte) ports.ListResult[T] {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ports.ListResult[T]{Items: []T{}, Malformed: true}
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return ports.ListResult[T]{Items: []T{}, Malformed: true}
	}
	if items == nil {
		items = []T{}
	}
	return ports.ListResult[T]{Items: items}
}
