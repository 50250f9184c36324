package util

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/theorytab/model"
	"github.com/pkg/errors"
)

// ParseInt coerces a required legacy text field. A missing or non-integer
// value is an invalid encoding.
func ParseInt(field string, val *string) (int, error) {
	if val == nil {
		return 0, errors.Wrapf(model.ErrInvalidChordEncoding, "missing %s", field)
	}
	res, err := strconv.Atoi(strings.TrimSpace(*val))
	if err != nil {
		return 0, errors.Wrapf(model.ErrInvalidChordEncoding, "%s %q is not an integer", field, *val)
	}
	return res, nil
}

// ParseFloat coerces a required legacy number. NaN and infinities have no
// json form and are rejected like any other bad number.
func ParseFloat(field string, val *string) (float64, error) {
	if val == nil {
		return 0, errors.Wrapf(model.ErrInvalidChordEncoding, "missing %s", field)
	}
	res, err := strconv.ParseFloat(strings.TrimSpace(*val), 64)
	if err != nil || math.IsNaN(res) || math.IsInf(res, 0) {
		return 0, errors.Wrapf(model.ErrInvalidChordEncoding, "%s %q is not a number", field, *val)
	}
	return res, nil
}

// StringOr dereferences val, falling back when it is absent.
func StringOr(val *string, fallback string) string {
	if val == nil {
		return fallback
	}
	return *val
}
