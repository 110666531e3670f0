package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Box is a tracked physical container with lifecycle status and an optional
// truck-grid position. Position is non-nil only after the positioning
// operation has run; the status-update operation clears it again on a
// loaded→non-loaded transition.
type Box struct {
	ID        int64
	BoxNumber int
	Owner     string
	Room      string
	Contents  string
	Status    Status
	Position  *Position
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner is a named color tag used to group boxes informally. Box.Owner joins
// against Owner.Name case-insensitively; there is no enforced reference.
type Owner struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activity is one immutable entry in the append-only log of state changes.
// BoxID is nil for events not tied to a single box.
type Activity struct {
	ID          int64
	BoxID       *int64
	Type        string
	Description string
	Timestamp   time.Time
}

// QRCode is the derived lookup artifact for one box. Data carries the fixed
// wire format produced by FormatQRData.
type QRCode struct {
	ID        int64
	BoxID     int64
	Data      string
	CreatedAt time.Time
}

// NewBox carries the caller-supplied fields for box creation. Status is kept
// raw here: the store coerces it to the closed set, defaulting to packed.
type NewBox struct {
	BoxNumber int
	Owner     string
	Room      string
	Contents  string
	Status    string
}

// BoxPatch carries a partial box update; nil fields are left untouched.
// A present Status is re-coerced, never rejected.
type BoxPatch struct {
	BoxNumber *int
	Owner     *string
	Room      *string
	Contents  *string
	Status    *string
}

// NewOwner carries the caller-supplied fields for owner creation.
type NewOwner struct {
	Name  string
	Color string
}

// OwnerPatch carries a partial owner update; nil fields are left untouched.
type OwnerPatch struct {
	Name  *string
	Color *string
}

// Activity type codes. Status updates additionally log the lowercased status
// string itself as the type.
const (
	ActivityTypeCreated = "created"
	ActivityTypeUpdated = "updated"
	ActivityTypeLoaded  = "loaded"
	ActivityTypeMoved   = "moved"
	ActivityTypeDeleted = "deleted"
)

const qrDataPrefix = "boxtracker-"

// FormatQRData renders the fixed QR payload for a box id.
func FormatQRData(boxID int64) string {
	return qrDataPrefix + strconv.FormatInt(boxID, 10)
}

// ParseQRData extracts the box id from a scanned QR payload.
func ParseQRData(data string) (int64, error) {
	trimmed := strings.TrimSpace(data)
	if !strings.HasPrefix(trimmed, qrDataPrefix) {
		return 0, fmt.Errorf("inventory: unrecognized qr payload %q", data)
	}
	boxID, err := strconv.ParseInt(strings.TrimPrefix(trimmed, qrDataPrefix), 10, 64)
	if err != nil || boxID <= 0 {
		return 0, fmt.Errorf("inventory: unrecognized qr payload %q", data)
	}
	return boxID, nil
}

func createdDescription(boxNumber int) string {
	return fmt.Sprintf("Box #%d created", boxNumber)
}

func updatedDescription(boxNumber int) string {
	return fmt.Sprintf("Box #%d updated", boxNumber)
}

func loadedDescription(boxNumber int, position Position) string {
	return fmt.Sprintf("Box #%d loaded at %s", boxNumber, position)
}

func movedDescription(boxNumber int, position Position) string {
	return fmt.Sprintf("Box #%d moved to %s", boxNumber, position)
}

func statusDescription(boxNumber int, status Status) string {
	return fmt.Sprintf("Box #%d marked as %s", boxNumber, status)
}

func deletedDescription(boxNumber int) string {
	return fmt.Sprintf("Box #%d deleted", boxNumber)
}
