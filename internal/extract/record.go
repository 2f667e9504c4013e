package extract

import (
	"errors"
	"fmt"

	"github.com/titanous/json5"
)

// ErrMalformedRecord is returned when a fragment body cannot be decoded, which
// usually means the body was cut short by a nested terminator.
var ErrMalformedRecord = errors.New("malformed record")

// Record is a decoded fragment body. Values are whatever the source encoded:
// strings, float64 numbers, booleans, nil, and nested maps/slices.
type Record = map[string]any

// ParseRecord wraps body in braces to make it a complete object and decodes it.
// The decoder accepts json5, a superset of the json found in pages.
func ParseRecord(body string) (Record, error) {
	var record Record
	err := json5.Unmarshal([]byte("{"+body+"}"), &record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return record, nil
}
