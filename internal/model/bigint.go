package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// BigInt is an int64 that persists as a discriminated wrapper object:
//
//	{"__type":"bigint","value":"1747413600"}
//
// Expiry timestamps sit in the 64-bit range and must round-trip exactly;
// encoding them as bare JSON numbers would push them through float64 on
// decode and lose precision past 2^53.
type BigInt int64

type bigintWrapper struct {
	Type  string `json:"__type"`
	Value string `json:"value"`
}

// MarshalJSON encodes the value as a tagged wrapper object.
func (b BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(bigintWrapper{
		Type:  "bigint",
		Value: strconv.FormatInt(int64(b), 10),
	})
}

// UnmarshalJSON accepts the tagged wrapper form and, for forward
// compatibility with hand-written fixtures, a bare integer literal.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var w bigintWrapper
		if err := json.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("failed to decode bigint wrapper: %w", err)
		}
		if w.Type != "bigint" {
			return fmt.Errorf("unexpected wrapper type: %q", w.Type)
		}
		v, err := strconv.ParseInt(w.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse bigint value: %w", err)
		}
		*b = BigInt(v)
		return nil
	}

	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse bigint literal: %w", err)
	}
	*b = BigInt(v)
	return nil
}

// Int64 returns the underlying value.
func (b BigInt) Int64() int64 {
	return int64(b)
}
