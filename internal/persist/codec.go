package persist

import "encoding/json"

// Codec converts a cached value to and from its stored form.
type Codec[T any] interface {
	Encode(value T) ([]byte, error)
	Decode(raw []byte) (T, error)
}

// JSONCodec stores values as JSON.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (JSONCodec[T]) Decode(raw []byte) (T, error) {
	var value T
	err := json.Unmarshal(raw, &value)
	return value, err
}
