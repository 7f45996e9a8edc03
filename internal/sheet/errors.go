package sheet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	schemaMismatchTemplateConstant      = "sheet response does not match the configured schema: missing %q (available: %s)"
	availableKeysSeparatorConstant      = ", "
	missingEndpointErrorMessageConstant = "sheet endpoint must be provided"
	unreadablePriceErrorMessageConstant = "stored price is not a number"
)

var (
	// ErrMissingEndpoint indicates the sheet endpoint was not configured.
	ErrMissingEndpoint = errors.New(missingEndpointErrorMessageConstant)
	// ErrUnreadablePrice marks a price cell that holds something other than a number, N/A, or nothing.
	ErrUnreadablePrice = errors.New(unreadablePriceErrorMessageConstant)
)

// SchemaMismatchError reports a configured key that the sheet response lacks.
type SchemaMismatchError struct {
	MissingKey    string
	AvailableKeys []string
}

// Error describes the missing key together with the keys the response offered.
func (mismatch SchemaMismatchError) Error() string {
	return fmt.Sprintf(schemaMismatchTemplateConstant, mismatch.MissingKey, strings.Join(mismatch.AvailableKeys, availableKeysSeparatorConstant))
}

func newSchemaMismatchError(missingKey string, available map[string]any) SchemaMismatchError {
	keys := make([]string, 0, len(available))
	for key := range available {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return SchemaMismatchError{MissingKey: missingKey, AvailableKeys: keys}
}
