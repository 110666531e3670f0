package inventory

import (
	"context"
	"errors"
)

// ErrNotFound indicates a lookup for a box, owner, or QR code that does not
// exist. Wrapped variants carry the entity and id; callers test with errors.Is.
var ErrNotFound = errors.New("inventory: record not found")

// ErrOwnerInUse indicates an owner deletion refused because at least one box
// still carries the owner's name.
var ErrOwnerInUse = errors.New("inventory: owner in use")

// Store is the persistence contract shared by the in-memory and SQL backends.
// A backend is selected once at process start and never mixed with the other.
//
// Every box mutation appends exactly one activity within the same logical
// operation. Owner and QR code operations append none. Absence of a target
// record is reported through ErrNotFound, never through a panic or a nil
// result.
type Store interface {
	// ListBoxes returns every box ordered by most recently updated first.
	ListBoxes(ctx context.Context) ([]Box, error)
	// GetBox returns the box with the given id.
	GetBox(ctx context.Context, boxID int64) (Box, error)
	// GetBoxByNumber returns the earliest-created box carrying the user
	// assigned number. Numbers are not unique.
	GetBoxByNumber(ctx context.Context, boxNumber int) (Box, error)
	// CreateBox persists a new box with a nil position, coercing an
	// unrecognized status to packed, and logs a created activity.
	CreateBox(ctx context.Context, newBox NewBox) (Box, error)
	// UpdateBox merges the non-nil patch fields into the box and logs an
	// updated activity. A patched status is re-coerced. Position is never
	// touched here.
	UpdateBox(ctx context.Context, boxID int64, patch BoxPatch) (Box, error)
	// UpdateBoxPosition places the box in a truck cell and, when status is
	// non-nil, applies it verbatim. Logs a loaded activity when the
	// supplied status is loaded, a moved activity otherwise.
	UpdateBoxPosition(ctx context.Context, boxID int64, position Position, status *Status) (Box, error)
	// UpdateBoxStatus applies the status and clears the position only on a
	// loaded to non-loaded transition. Logs an activity typed by the
	// status string.
	UpdateBoxStatus(ctx context.Context, boxID int64, status Status) (Box, error)
	// DeleteBox removes the box and its QR code, then logs a deleted
	// activity that still references the removed id. Activities are kept.
	DeleteBox(ctx context.Context, boxID int64) error

	// ListOwners returns every owner ordered by creation.
	ListOwners(ctx context.Context) ([]Owner, error)
	// GetOwner returns the owner with the given id.
	GetOwner(ctx context.Context, ownerID int64) (Owner, error)
	// CreateOwner persists a new owner.
	CreateOwner(ctx context.Context, newOwner NewOwner) (Owner, error)
	// UpdateOwner merges the non-nil patch fields into the owner.
	UpdateOwner(ctx context.Context, ownerID int64, patch OwnerPatch) (Owner, error)
	// DeleteOwner removes the owner unless a box's owner field matches the
	// owner's name case-insensitively, in which case it reports
	// ErrOwnerInUse and changes nothing.
	DeleteOwner(ctx context.Context, ownerID int64) error

	// GetQRCode returns the QR code with the given id.
	GetQRCode(ctx context.Context, qrCodeID int64) (QRCode, error)
	// GetQRCodeByBoxID returns the QR code attached to the box.
	GetQRCodeByBoxID(ctx context.Context, boxID int64) (QRCode, error)
	// CreateQRCode persists a QR code for the box. Uniqueness per box is
	// the caller's concern; the lazy get-or-create pattern at the boundary
	// is what prevents duplicates in practice.
	CreateQRCode(ctx context.Context, boxID int64, data string) (QRCode, error)

	// ListActivities returns activities newest first, ties broken by most
	// recent insertion. A limit of zero or less returns all of them.
	ListActivities(ctx context.Context, limit int) ([]Activity, error)
	// ListBoxActivities returns the activities referencing one box, newest
	// first, including those logged for a box that was since deleted.
	ListBoxActivities(ctx context.Context, boxID int64) ([]Activity, error)
}
