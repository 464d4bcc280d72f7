package storage

import (
	"errors"
	"fmt"
	"runboard/internal/storage/interfaces"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var ErrCorruptBlob = errors.New("corrupt blob")

const schemaVersionField = "schemaVersion"

// Codec turns versioned records into compressed JSON blobs and back.
type Codec struct {
	compressor interfaces.CompressorInterface
}

func NewCodec(compressor interfaces.CompressorInterface) *Codec {
	return &Codec{compressor: compressor}
}

func (c *Codec) Encode(v any) ([]byte, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.compressor.Compress(jsonData)
}

// Open decompresses a blob and reads its schema version before anything else
// is interpreted.
func (c *Codec) Open(blob []byte) (raw []byte, version int, err error) {
	raw, err = c.compressor.Decompress(blob)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrCorruptBlob, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, 0, fmt.Errorf("%w: invalid json", ErrCorruptBlob)
	}
	v := gjson.GetBytes(raw, schemaVersionField)
	if v.Type != gjson.Number || v.Int() < 1 {
		return nil, 0, fmt.Errorf("%w: missing schema version", ErrCorruptBlob)
	}
	return raw, int(v.Int()), nil
}

func (c *Codec) Unmarshal(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s", ErrCorruptBlob, err)
	}
	return nil
}
