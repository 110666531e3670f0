package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStoreConfig describes the collaborators of the in-memory backend.
// Every field is optional.
type MemoryStoreConfig struct {
	Clock  func() time.Time
	Logger *zap.Logger
	// ActivityPublisher receives each appended activity after the owning
	// mutation has completed.
	ActivityPublisher func(Activity)
}

// MemoryStore keeps the whole inventory in process memory behind a single
// mutex. Identifiers are monotonic counters starting at one and are never
// reused within a process lifetime; nothing survives a restart.
type MemoryStore struct {
	mutex   sync.Mutex
	clock   func() time.Time
	logger  *zap.Logger
	publish func(Activity)

	boxes      map[int64]Box
	owners     map[int64]Owner
	qrCodes    map[int64]QRCode
	activities []Activity

	nextBoxID      int64
	nextOwnerID    int64
	nextQRCodeID   int64
	nextActivityID int64
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &MemoryStore{
		clock:          clock,
		logger:         logger,
		publish:        cfg.ActivityPublisher,
		boxes:          make(map[int64]Box),
		owners:         make(map[int64]Owner),
		qrCodes:        make(map[int64]QRCode),
		nextBoxID:      1,
		nextOwnerID:    1,
		nextQRCodeID:   1,
		nextActivityID: 1,
	}
}

// ListBoxes returns every box, most recently updated first.
func (store *MemoryStore) ListBoxes(ctx context.Context) ([]Box, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	boxes := make([]Box, 0, len(store.boxes))
	for _, box := range store.boxes {
		boxes = append(boxes, cloneBox(box))
	}
	sortBoxes(boxes)
	return boxes, nil
}

// GetBox returns the box with the given id.
func (store *MemoryStore) GetBox(ctx context.Context, boxID int64) (Box, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	box, found := store.boxes[boxID]
	if !found {
		store.logMiss(opGetBox, zap.Int64("box_id", boxID))
		return Box{}, fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}
	return cloneBox(box), nil
}

// GetBoxByNumber returns the earliest-created box with the given number.
func (store *MemoryStore) GetBoxByNumber(ctx context.Context, boxNumber int) (Box, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	found := false
	var match Box
	for _, box := range store.boxes {
		if box.BoxNumber != boxNumber {
			continue
		}
		if !found || box.ID < match.ID {
			match = box
			found = true
		}
	}
	if !found {
		store.logMiss(opGetBoxByNumber, zap.Int("box_number", boxNumber))
		return Box{}, fmt.Errorf("%w: box number %d", ErrNotFound, boxNumber)
	}
	return cloneBox(match), nil
}

// CreateBox persists a new box and logs a created activity.
func (store *MemoryStore) CreateBox(ctx context.Context, newBox NewBox) (Box, error) {
	store.mutex.Lock()
	now := store.clock().UTC()
	box := Box{
		ID:        store.nextBoxID,
		BoxNumber: newBox.BoxNumber,
		Owner:     newBox.Owner,
		Room:      newBox.Room,
		Contents:  newBox.Contents,
		Status:    CoerceStatus(newBox.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.nextBoxID++
	store.boxes[box.ID] = cloneBox(box)
	activity := store.appendActivity(box.ID, ActivityTypeCreated, createdDescription(box.BoxNumber), now)
	store.mutex.Unlock()

	store.emit(activity)
	return box, nil
}

// UpdateBox merges the patch into the box and logs an updated activity.
func (store *MemoryStore) UpdateBox(ctx context.Context, boxID int64, patch BoxPatch) (Box, error) {
	store.mutex.Lock()
	box, found := store.boxes[boxID]
	if !found {
		store.mutex.Unlock()
		store.logMiss(opUpdateBox, zap.Int64("box_id", boxID))
		return Box{}, fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}

	box = cloneBox(box)
	if patch.BoxNumber != nil {
		box.BoxNumber = *patch.BoxNumber
	}
	if patch.Owner != nil {
		box.Owner = *patch.Owner
	}
	if patch.Room != nil {
		box.Room = *patch.Room
	}
	if patch.Contents != nil {
		box.Contents = *patch.Contents
	}
	if patch.Status != nil {
		box.Status = CoerceStatus(*patch.Status)
	}
	now := store.clock().UTC()
	box.UpdatedAt = now
	store.boxes[boxID] = cloneBox(box)
	activity := store.appendActivity(boxID, ActivityTypeUpdated, updatedDescription(box.BoxNumber), now)
	store.mutex.Unlock()

	store.emit(activity)
	return box, nil
}

// UpdateBoxPosition places the box in a truck cell, optionally applying the
// supplied status verbatim, and logs a loaded or moved activity.
func (store *MemoryStore) UpdateBoxPosition(ctx context.Context, boxID int64, position Position, status *Status) (Box, error) {
	store.mutex.Lock()
	box, found := store.boxes[boxID]
	if !found {
		store.mutex.Unlock()
		store.logMiss(opUpdateBoxPosition, zap.Int64("box_id", boxID))
		return Box{}, fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}

	box = cloneBox(box)
	placed := position
	box.Position = &placed
	if status != nil {
		box.Status = *status
	}
	now := store.clock().UTC()
	box.UpdatedAt = now
	store.boxes[boxID] = cloneBox(box)

	activityType := ActivityTypeMoved
	description := movedDescription(box.BoxNumber, position)
	if status != nil && *status == StatusLoaded {
		activityType = ActivityTypeLoaded
		description = loadedDescription(box.BoxNumber, position)
	}
	activity := store.appendActivity(boxID, activityType, description, now)
	store.mutex.Unlock()

	store.emit(activity)
	return box, nil
}

// UpdateBoxStatus applies the status, clearing the position only on a loaded
// to non-loaded transition, and logs an activity typed by the status.
func (store *MemoryStore) UpdateBoxStatus(ctx context.Context, boxID int64, status Status) (Box, error) {
	store.mutex.Lock()
	box, found := store.boxes[boxID]
	if !found {
		store.mutex.Unlock()
		store.logMiss(opUpdateBoxStatus, zap.Int64("box_id", boxID))
		return Box{}, fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}

	box = cloneBox(box)
	if box.Status == StatusLoaded && status != StatusLoaded {
		box.Position = nil
	}
	box.Status = status
	now := store.clock().UTC()
	box.UpdatedAt = now
	store.boxes[boxID] = cloneBox(box)
	activity := store.appendActivity(boxID, string(status), statusDescription(box.BoxNumber, status), now)
	store.mutex.Unlock()

	store.emit(activity)
	return box, nil
}

// DeleteBox removes the box and its QR code and logs a deleted activity
// referencing the removed id. Existing activities stay.
func (store *MemoryStore) DeleteBox(ctx context.Context, boxID int64) error {
	store.mutex.Lock()
	box, found := store.boxes[boxID]
	if !found {
		store.mutex.Unlock()
		store.logMiss(opDeleteBox, zap.Int64("box_id", boxID))
		return fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}

	delete(store.boxes, boxID)
	for qrCodeID, qrCode := range store.qrCodes {
		if qrCode.BoxID == boxID {
			delete(store.qrCodes, qrCodeID)
		}
	}
	now := store.clock().UTC()
	activity := store.appendActivity(boxID, ActivityTypeDeleted, deletedDescription(box.BoxNumber), now)
	store.mutex.Unlock()

	store.emit(activity)
	return nil
}

// ListOwners returns every owner in creation order.
func (store *MemoryStore) ListOwners(ctx context.Context) ([]Owner, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	owners := make([]Owner, 0, len(store.owners))
	for _, owner := range store.owners {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].ID < owners[j].ID })
	return owners, nil
}

// GetOwner returns the owner with the given id.
func (store *MemoryStore) GetOwner(ctx context.Context, ownerID int64) (Owner, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	owner, found := store.owners[ownerID]
	if !found {
		store.logMiss(opGetOwner, zap.Int64("owner_id", ownerID))
		return Owner{}, fmt.Errorf("%w: owner %d", ErrNotFound, ownerID)
	}
	return owner, nil
}

// CreateOwner persists a new owner. No activity is logged.
func (store *MemoryStore) CreateOwner(ctx context.Context, newOwner NewOwner) (Owner, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	now := store.clock().UTC()
	owner := Owner{
		ID:        store.nextOwnerID,
		Name:      newOwner.Name,
		Color:     newOwner.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.nextOwnerID++
	store.owners[owner.ID] = owner
	return owner, nil
}

// UpdateOwner merges the patch into the owner. No activity is logged.
func (store *MemoryStore) UpdateOwner(ctx context.Context, ownerID int64, patch OwnerPatch) (Owner, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	owner, found := store.owners[ownerID]
	if !found {
		store.logMiss(opUpdateOwner, zap.Int64("owner_id", ownerID))
		return Owner{}, fmt.Errorf("%w: owner %d", ErrNotFound, ownerID)
	}
	if patch.Name != nil {
		owner.Name = *patch.Name
	}
	if patch.Color != nil {
		owner.Color = *patch.Color
	}
	owner.UpdatedAt = store.clock().UTC()
	store.owners[ownerID] = owner
	return owner, nil
}

// DeleteOwner removes the owner unless a box still carries the owner's name,
// compared case-insensitively.
func (store *MemoryStore) DeleteOwner(ctx context.Context, ownerID int64) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	owner, found := store.owners[ownerID]
	if !found {
		store.logMiss(opDeleteOwner, zap.Int64("owner_id", ownerID))
		return fmt.Errorf("%w: owner %d", ErrNotFound, ownerID)
	}
	for _, box := range store.boxes {
		if strings.EqualFold(box.Owner, owner.Name) {
			store.logger.Debug("owner deletion refused",
				zap.String("operation", opDeleteOwner),
				zap.Int64("owner_id", ownerID),
				zap.Int64("box_id", box.ID))
			return fmt.Errorf("%w: %s", ErrOwnerInUse, owner.Name)
		}
	}
	delete(store.owners, ownerID)
	return nil
}

// GetQRCode returns the QR code with the given id.
func (store *MemoryStore) GetQRCode(ctx context.Context, qrCodeID int64) (QRCode, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	qrCode, found := store.qrCodes[qrCodeID]
	if !found {
		store.logMiss(opGetQRCode, zap.Int64("qr_code_id", qrCodeID))
		return QRCode{}, fmt.Errorf("%w: qr code %d", ErrNotFound, qrCodeID)
	}
	return qrCode, nil
}

// GetQRCodeByBoxID returns the QR code attached to the box. When duplicates
// exist the earliest-created one wins.
func (store *MemoryStore) GetQRCodeByBoxID(ctx context.Context, boxID int64) (QRCode, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	found := false
	var match QRCode
	for _, qrCode := range store.qrCodes {
		if qrCode.BoxID != boxID {
			continue
		}
		if !found || qrCode.ID < match.ID {
			match = qrCode
			found = true
		}
	}
	if !found {
		return QRCode{}, fmt.Errorf("%w: qr code for box %d", ErrNotFound, boxID)
	}
	return match, nil
}

// CreateQRCode persists a QR code for the box. No activity is logged.
func (store *MemoryStore) CreateQRCode(ctx context.Context, boxID int64, data string) (QRCode, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	qrCode := QRCode{
		ID:        store.nextQRCodeID,
		BoxID:     boxID,
		Data:      data,
		CreatedAt: store.clock().UTC(),
	}
	store.nextQRCodeID++
	store.qrCodes[qrCode.ID] = qrCode
	return qrCode, nil
}

// ListActivities returns activities newest first; limit<=0 returns all.
func (store *MemoryStore) ListActivities(ctx context.Context, limit int) ([]Activity, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	activities := make([]Activity, 0, len(store.activities))
	for _, activity := range store.activities {
		activities = append(activities, cloneActivity(activity))
	}
	sortActivities(activities)
	if limit > 0 && limit < len(activities) {
		activities = activities[:limit]
	}
	return activities, nil
}

// ListBoxActivities returns the activities referencing one box, newest first.
func (store *MemoryStore) ListBoxActivities(ctx context.Context, boxID int64) ([]Activity, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	activities := make([]Activity, 0)
	for _, activity := range store.activities {
		if activity.BoxID != nil && *activity.BoxID == boxID {
			activities = append(activities, cloneActivity(activity))
		}
	}
	sortActivities(activities)
	return activities, nil
}

// appendActivity records one log entry. Callers hold the mutex.
func (store *MemoryStore) appendActivity(boxID int64, activityType, description string, timestamp time.Time) Activity {
	reference := boxID
	activity := Activity{
		ID:          store.nextActivityID,
		BoxID:       &reference,
		Type:        activityType,
		Description: description,
		Timestamp:   timestamp,
	}
	store.nextActivityID++
	store.activities = append(store.activities, cloneActivity(activity))
	return activity
}

func (store *MemoryStore) emit(activity Activity) {
	if store.publish == nil {
		return
	}
	store.publish(cloneActivity(activity))
}

func (store *MemoryStore) logMiss(operation string, fields ...zap.Field) {
	attrs := append([]zap.Field{zap.String("operation", operation)}, fields...)
	store.logger.Debug("inventory store miss", attrs...)
}

// sortBoxes orders most recently updated first, newest id first on ties.
func sortBoxes(boxes []Box) {
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].UpdatedAt.Equal(boxes[j].UpdatedAt) {
			return boxes[i].ID > boxes[j].ID
		}
		return boxes[i].UpdatedAt.After(boxes[j].UpdatedAt)
	})
}

// sortActivities orders newest first. Timestamps collide under rapid writes,
// so ties fall back to the insertion counter, newest first, keeping the most
// recently created entries at the head even at equal timestamps.
func sortActivities(activities []Activity) {
	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Timestamp.Equal(activities[j].Timestamp) {
			return activities[i].ID > activities[j].ID
		}
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
}

func cloneBox(box Box) Box {
	if box.Position != nil {
		position := *box.Position
		box.Position = &position
	}
	return box
}

func cloneActivity(activity Activity) Activity {
	if activity.BoxID != nil {
		boxID := *activity.BoxID
		activity.BoxID = &boxID
	}
	return activity
}
