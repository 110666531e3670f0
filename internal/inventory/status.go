package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Status enumerates the lifecycle states a box moves through.
type Status string

const (
	// StatusPacked marks a box that has been filled and sealed.
	StatusPacked Status = "packed"
	// StatusStaging marks a box waiting near the truck for loading.
	StatusStaging Status = "staging"
	// StatusLoaded marks a box placed inside the truck.
	StatusLoaded Status = "loaded"
	// StatusOut marks a box in transit.
	StatusOut Status = "out"
	// StatusDelivered marks a box unloaded at the destination.
	StatusDelivered Status = "delivered"
	// StatusUnpacked marks a box whose contents have been put away.
	StatusUnpacked Status = "unpacked"
)

// ErrInvalidStatus indicates a status value outside the closed lifecycle set.
var ErrInvalidStatus = errors.New("inventory: invalid status")

var statusOrder = []Status{
	StatusPacked,
	StatusStaging,
	StatusLoaded,
	StatusOut,
	StatusDelivered,
	StatusUnpacked,
}

// ParseStatus validates raw input against the closed lifecycle set.
func ParseStatus(rawValue string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(rawValue)))
	for _, status := range statusOrder {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, rawValue)
}

// CoerceStatus returns the parsed status, or StatusPacked when the value is
// missing or outside the closed set. Both backends share this function so
// defaulting behavior cannot drift between them.
func CoerceStatus(rawValue string) Status {
	status, err := ParseStatus(rawValue)
	if err != nil {
		return StatusPacked
	}
	return status
}

// Valid reports whether the status belongs to the closed lifecycle set.
func (status Status) Valid() bool {
	_, err := ParseStatus(string(status))
	return err == nil
}

// String returns the lowercase wire value of the status.
func (status Status) String() string {
	return string(status)
}

// StatusValues returns the closed lifecycle set in lifecycle order.
func StatusValues() []string {
	values := make([]string, 0, len(statusOrder))
	for _, status := range statusOrder {
		values = append(values, string(status))
	}
	return values
}
