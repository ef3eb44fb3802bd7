package confloader

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/maps"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: map provider does not support ReadBytes")

// mapProvider feeds a map into koanf. Keys may be nested maps or dotted
// paths; dotted keys are expanded so they merge with file and env values.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	flat := make(map[string]any, len(m))
	nested := make(map[string]any)
	for k, v := range m {
		if strings.Contains(k, ".") {
			flat[k] = v
			continue
		}
		nested[k] = v
	}
	if len(flat) > 0 {
		maps.Merge(maps.Unflatten(flat, "."), nested)
	}
	return nested, nil
}
