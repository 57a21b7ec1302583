package marketplace

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeSnapshot decodes a loosely typed document, such as a parsed JSON
// scenario file, into a snapshot struct. Decoding is weakly typed: numbers
// arriving as strings ("1500") or integers are accepted, since exported
// marketplace documents are not always strict about numeric types. Strict
// schema validation happens later, at flow entry.
func DecodeSnapshot(src, dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("build snapshot decoder: %w", err)
	}

	if err := decoder.Decode(src); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}
