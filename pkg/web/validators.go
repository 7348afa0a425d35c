package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest decimal.Decimal) bool

func newComparisonValidator(valueInClosure decimal.Decimal, compareFn func(argValue, closedValue decimal.Decimal) bool) ParamValidator {
	return func(argValue decimal.Decimal) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst decimal.Decimal) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue decimal.Decimal) bool {
		return argValue.GreaterThanOrEqual(closedValue)
	})
}

// ParseDecimalGte reads an optional decimal query parameter that must be >= min.
// A missing parameter yields def.
func ParseDecimalGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, def, min decimal.Decimal) (decimal.Decimal, bool) {
	return parseValidate(r, w, logger, key, def, gte(min))
}

// ParseBool reads an optional boolean query parameter. A missing parameter yields false.
func ParseBool(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (bool, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s value: %s", key, value))
		return false, false
	}
	return b, true
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, def decimal.Decimal, pValidator ParamValidator) (decimal.Decimal, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !pValidator(d) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return decimal.Zero, false
	}
	return d, true
}
