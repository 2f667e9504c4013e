// Package normalize turns display text fields (salaries, heights, weights,
// made-attempted pairs) into numbers.
//
// Every transform passes absent input (nil or a non-string value) through
// unchanged and maps an empty string to nil. ErrUnparseableField is only
// returned for a non-empty string that does not have the expected shape.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrUnparseableField = errors.New("unparseable field")

// Transform normalizes a single field value.
type Transform func(value any) (any, error)

func unparseable(kind, value string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrUnparseableField, kind, value, cause)
	}
	return fmt.Errorf("%w: %s %q", ErrUnparseableField, kind, value)
}

var errNotFinite = errors.New("not a finite number")

// parseFinite is strconv.ParseFloat without NaN and the infinities.
func parseFinite(str string) (float64, error) {
	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errNotFinite
	}
	return value, nil
}

// text returns (text, true) only for non-empty strings.
func text(value any) (string, bool) {
	str, ok := value.(string)
	if !ok {
		return "", false
	}
	str = strings.TrimSpace(str)
	return str, str != ""
}

// Currency strips everything that isn't a digit or a decimal point and parses
// what is left as a whole number, `$1,445,697` -> int64(1445697).
func Currency(value any) (any, error) {
	str, ok := text(value)
	if !ok {
		return emptyAsNil(value), nil
	}

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, str)
	if digits == "" {
		return nil, unparseable("currency", str, nil)
	}

	amount, err := parseFinite(digits)
	if err != nil {
		return nil, unparseable("currency", str, err)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds
	if amount >= math.MaxInt64 {
		return nil, unparseable("currency", str, nil)
	}
	return int64(math.Trunc(amount)), nil
}

// LinearMeasure converts feet-inches notation to inches, `6' 3"` -> 75.0.
func LinearMeasure(value any) (any, error) {
	str, ok := text(value)
	if !ok {
		return emptyAsNil(value), nil
	}

	parts := strings.Fields(str)
	if len(parts) != 2 {
		return nil, unparseable("linear measure", str, nil)
	}
	feet, err := parseFinite(strings.TrimSuffix(parts[0], "'"))
	if err != nil {
		return nil, unparseable("linear measure", str, err)
	}
	inches, err := parseFinite(strings.TrimSuffix(parts[1], `"`))
	if err != nil {
		return nil, unparseable("linear measure", str, err)
	}
	return feet*12 + inches, nil
}

// Mass takes the leading number of `<number> <unit>`, `210 lbs` -> 210.0.
func Mass(value any) (any, error) {
	str, ok := text(value)
	if !ok {
		return emptyAsNil(value), nil
	}

	leading := strings.Fields(str)[0]
	mass, err := parseFinite(leading)
	if err != nil {
		return nil, unparseable("mass", str, err)
	}
	return mass, nil
}

// SplitComposite splits a made-attempted pair, `8.1-17.1` -> (8.1, 17.1).
func SplitComposite(value string) (made, attempted float64, err error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return 0, 0, unparseable("composite", value, nil)
	}
	made, err = parseFinite(parts[0])
	if err != nil {
		return 0, 0, unparseable("composite", value, err)
	}
	attempted, err = parseFinite(parts[1])
	if err != nil {
		return 0, 0, unparseable("composite", value, err)
	}
	return made, attempted, nil
}

func emptyAsNil(value any) any {
	if _, isString := value.(string); isString {
		return nil
	}
	return value
}
