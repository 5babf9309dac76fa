// Package codec builds the data converter shared by the Temporal client, the
// worker and the signal-with-start coordinator. All three must agree, or
// results written by the worker cannot be decoded by the caller.
package codec

import (
	"fmt"

	"go.temporal.io/sdk/converter"
)

const (
	JSON = "json"
	Zlib = "zlib"
)

// NewDataConverter returns the converter selected by name. "json" (or empty)
// is the SDK default converter; "zlib" compresses every payload it produces.
func NewDataConverter(name string) (converter.DataConverter, error) {
	switch name {
	case "", JSON:
		return converter.GetDefaultDataConverter(), nil
	case Zlib:
		return converter.NewCodecDataConverter(
			converter.GetDefaultDataConverter(),
			converter.NewZlibCodec(converter.ZlibCodecOptions{AlwaysEncode: true}),
		), nil
	default:
		return nil, fmt.Errorf("unsupported payload codec %q", name)
	}
}
