package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// StoreError carries a stable operation code alongside the underlying cause.
type StoreError struct {
	code string
	err  error
}

func (e *StoreError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

func (e *StoreError) Code() string {
	return e.code
}

func newStoreError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &StoreError{code: code, err: cause}
}

const (
	opStoreNew          = "inventory.store.new"
	opListBoxes         = "inventory.list_boxes"
	opGetBox            = "inventory.get_box"
	opGetBoxByNumber    = "inventory.get_box_by_number"
	opCreateBox         = "inventory.create_box"
	opUpdateBox         = "inventory.update_box"
	opUpdateBoxPosition = "inventory.update_box_position"
	opUpdateBoxStatus   = "inventory.update_box_status"
	opDeleteBox         = "inventory.delete_box"
	opListOwners        = "inventory.list_owners"
	opGetOwner          = "inventory.get_owner"
	opCreateOwner       = "inventory.create_owner"
	opUpdateOwner       = "inventory.update_owner"
	opDeleteOwner       = "inventory.delete_owner"
	opGetQRCode         = "inventory.get_qr_code"
	opGetQRCodeByBox    = "inventory.get_qr_code_by_box"
	opCreateQRCode      = "inventory.create_qr_code"
	opListActivities    = "inventory.list_activities"
	opListBoxActivities = "inventory.list_box_activities"
)

// SQLStoreConfig describes the collaborators of the persistent backend.
// Database is required; the rest default.
type SQLStoreConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
	// ActivityPublisher receives each appended activity after the owning
	// transaction has committed.
	ActivityPublisher func(Activity)
}

// SQLStore persists the inventory through GORM. Row identifiers come from
// AUTOINCREMENT keys, so ids are monotonic and never reused even across
// deletions and restarts. Every mutating operation runs inside a transaction
// so the entity write and its activity entry land together or not at all.
type SQLStore struct {
	db      *gorm.DB
	clock   func() time.Time
	logger  *zap.Logger
	publish func(Activity)
}

// NewSQLStore validates the configuration and returns a persistent store.
func NewSQLStore(cfg SQLStoreConfig) (*SQLStore, error) {
	if cfg.Database == nil {
		return nil, newStoreError(opStoreNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &SQLStore{
		db:      cfg.Database,
		clock:   clock,
		logger:  logger,
		publish: cfg.ActivityPublisher,
	}, nil
}

// ListBoxes returns every box, most recently updated first.
func (store *SQLStore) ListBoxes(ctx context.Context) ([]Box, error) {
	var records []BoxRecord
	if err := store.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Find(&records).Error; err != nil {
		store.logError(opListBoxes, "query_failed", err)
		return nil, newStoreError(opListBoxes, "query_failed", err)
	}
	boxes := make([]Box, 0, len(records))
	for _, record := range records {
		boxes = append(boxes, record.toBox())
	}
	return boxes, nil
}

// GetBox returns the box with the given id.
func (store *SQLStore) GetBox(ctx context.Context, boxID int64) (Box, error) {
	var record BoxRecord
	err := store.db.WithContext(ctx).Where("id = ?", boxID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Box{}, fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}
	if err != nil {
		store.logError(opGetBox, "query_failed", err, zap.Int64("box_id", boxID))
		return Box{}, newStoreError(opGetBox, "query_failed", err)
	}
	return record.toBox(), nil
}

// GetBoxByNumber returns the earliest-created box with the given number.
func (store *SQLStore) GetBoxByNumber(ctx context.Context, boxNumber int) (Box, error) {
	var record BoxRecord
	err := store.db.WithContext(ctx).Where("box_number = ?", boxNumber).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Box{}, fmt.Errorf("%w: box number %d", ErrNotFound, boxNumber)
	}
	if err != nil {
		store.logError(opGetBoxByNumber, "query_failed", err, zap.Int("box_number", boxNumber))
		return Box{}, newStoreError(opGetBoxByNumber, "query_failed", err)
	}
	return record.toBox(), nil
}

// CreateBox persists a new box and logs a created activity in the same
// transaction.
func (store *SQLStore) CreateBox(ctx context.Context, newBox NewBox) (Box, error) {
	now := store.clock().UTC()
	record := BoxRecord{
		BoxNumber: newBox.BoxNumber,
		Owner:     newBox.Owner,
		Room:      newBox.Room,
		Contents:  newBox.Contents,
		Status:    string(CoerceStatus(newBox.Status)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	var logged ActivityRecord
	txErr := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			store.logError(opCreateBox, "insert_failed", err, zap.Int("box_number", newBox.BoxNumber))
			return newStoreError(opCreateBox, "insert_failed", err)
		}
		var err error
		logged, err = store.insertActivity(tx, opCreateBox, record.ID, ActivityTypeCreated, createdDescription(record.BoxNumber), now)
		return err
	})
	if txErr != nil {
		return Box{}, txErr
	}
	store.emit(logged)
	return record.toBox(), nil
}

// UpdateBox merges the patch into the box and logs an updated activity in the
// same transaction.
func (store *SQLStore) UpdateBox(ctx context.Context, boxID int64, patch BoxPatch) (Box, error) {
	now := store.clock().UTC()
	var updated BoxRecord
	var logged ActivityRecord
	txErr := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := store.lockBox(tx, opUpdateBox, boxID)
		if err != nil {
			return err
		}
		if patch.BoxNumber != nil {
			record.BoxNumber = *patch.BoxNumber
		}
		if patch.Owner != nil {
			record.Owner = *patch.Owner
		}
		if patch.Room != nil {
			record.Room = *patch.Room
		}
		if patch.Contents != nil {
			record.Contents = *patch.Contents
		}
		if patch.Status != nil {
			record.Status = string(CoerceStatus(*patch.Status))
		}
		record.UpdatedAt = now
		if err := tx.Save(&record).Error; err != nil {
			store.logError(opUpdateBox, "save_failed", err, zap.Int64("box_id", boxID))
			return newStoreError(opUpdateBox, "save_failed", err)
		}
		logged, err = store.insertActivity(tx, opUpdateBox, record.ID, ActivityTypeUpdated, updatedDescription(record.BoxNumber), now)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if txErr != nil {
		return Box{}, txErr
	}
	store.emit(logged)
	return updated.toBox(), nil
}

// UpdateBoxPosition places the box in a truck cell, optionally applying the
// supplied status verbatim, and logs a loaded or moved activity.
func (store *SQLStore) UpdateBoxPosition(ctx context.Context, boxID int64, position Position, status *Status) (Box, error) {
	now := store.clock().UTC()
	var updated BoxRecord
	var logged ActivityRecord
	txErr := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := store.lockBox(tx, opUpdateBoxPosition, boxID)
		if err != nil {
			return err
		}
		record.setPosition(&position)
		if status != nil {
			record.Status = string(*status)
		}
		record.UpdatedAt = now
		if err := tx.Save(&record).Error; err != nil {
			store.logError(opUpdateBoxPosition, "save_failed", err, zap.Int64("box_id", boxID))
			return newStoreError(opUpdateBoxPosition, "save_failed", err)
		}
		activityType := ActivityTypeMoved
		description := movedDescription(record.BoxNumber, position)
		if status != nil && *status == StatusLoaded {
			activityType = ActivityTypeLoaded
			description = loadedDescription(record.BoxNumber, position)
		}
		logged, err = store.insertActivity(tx, opUpdateBoxPosition, record.ID, activityType, description, now)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if txErr != nil {
		return Box{}, txErr
	}
	store.emit(logged)
	return updated.toBox(), nil
}

// UpdateBoxStatus applies the status, clearing the position only on a loaded
// to non-loaded transition, and logs an activity typed by the status.
func (store *SQLStore) UpdateBoxStatus(ctx context.Context, boxID int64, status Status) (Box, error) {
	now := store.clock().UTC()
	var updated BoxRecord
	var logged ActivityRecord
	txErr := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := store.lockBox(tx, opUpdateBoxStatus, boxID)
		if err != nil {
			return err
		}
		if Status(record.Status) == StatusLoaded && status != StatusLoaded {
			record.setPosition(nil)
		}
		record.Status = string(status)
		record.UpdatedAt = now
		if err := tx.Save(&record).Error; err != nil {
			store.logError(opUpdateBoxStatus, "save_failed", err, zap.Int64("box_id", boxID))
			return newStoreError(opUpdateBoxStatus, "save_failed", err)
		}
		logged, err = store.insertActivity(tx, opUpdateBoxStatus, record.ID, string(status), statusDescription(record.BoxNumber, status), now)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if txErr != nil {
		return Box{}, txErr
	}
	store.emit(logged)
	return updated.toBox(), nil
}

// DeleteBox removes the box and its QR code and logs a deleted activity
// referencing the removed id. Activity rows are left in place.
func (store *SQLStore) DeleteBox(ctx context.Context, boxID int64) error {
	now := store.clock().UTC()
	var logged ActivityRecord
	txErr := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := store.lockBox(tx, opDeleteBox, boxID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&BoxRecord{}, record.ID).Error; err != nil {
			store.logError(opDeleteBox, "delete_failed", err, zap.Int64("box_id", boxID))
			return newStoreError(opDeleteBox, "delete_failed", err)
		}
		if err := tx.Where("box_id = ?", record.ID).Delete(&QRCodeRecord{}).Error; err != nil {
			store.logError(opDeleteBox, "qr_code_delete_failed", err, zap.Int64("box_id", boxID))
			return newStoreError(opDeleteBox, "qr_code_delete_failed", err)
		}
		logged, err = store.insertActivity(tx, opDeleteBox, record.ID, ActivityTypeDeleted, deletedDescription(record.BoxNumber), now)
		return err
	})
	if txErr != nil {
		return txErr
	}
	store.emit(logged)
	return nil
}

// ListOwners returns every owner in creation order.
func (store *SQLStore) ListOwners(ctx context.Context) ([]Owner, error) {
	var records []OwnerRecord
	if err := store.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		store.logError(opListOwners, "query_failed", err)
		return nil, newStoreError(opListOwners, "query_failed", err)
	}
	owners := make([]Owner, 0, len(records))
	for _, record := range records {
		owners = append(owners, record.toOwner())
	}
	return owners, nil
}

// GetOwner returns the owner with the given id.
func (store *SQLStore) GetOwner(ctx context.Context, ownerID int64) (Owner, error) {
	var record OwnerRecord
	err := store.db.WithContext(ctx).Where("id = ?", ownerID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Owner{}, fmt.Errorf("%w: owner %d", ErrNotFound, ownerID)
	}
	if err != nil {
		store.logError(opGetOwner, "query_failed", err, zap.Int64("owner_id", ownerID))
		return Owner{}, newStoreError(opGetOwner, "query_failed", err)
	}
	return record.toOwner(), nil
}

// CreateOwner persists a new owner. No activity is logged.
func (store *SQLStore) CreateOwner(ctx context.Context, newOwner NewOwner) (Owner, error) {
	now := store.clock().UTC()
	record := OwnerRecord{
		Name:      newOwner.Name,
		Color:     newOwner.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.db.WithContext(ctx).Create(&record).Error; err != nil {
		store.logError(opCreateOwner, "insert_failed", err, zap.String("owner_name", newOwner.Name))
		return Owner{}, newStoreError(opCreateOwner, "insert_failed", err)
	}
	return record.toOwner(), nil
}

// UpdateOwner merges the patch into the owner. No activity is logged.
func (store *SQLStore) UpdateOwner(ctx context.Context, ownerID int64, patch OwnerPatch) (Owner, error) {
	now := store.clock().UTC()
	var updated OwnerRecord
	txErr := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record OwnerRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ownerID).
			Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: owner %d", ErrNotFound, ownerID)
		}
		if err != nil {
			store.logError(opUpdateOwner, "select_failed", err, zap.Int64("owner_id", ownerID))
			return newStoreError(opUpdateOwner, "select_failed", err)
		}
		if patch.Name != nil {
			record.Name = *patch.Name
		}
		if patch.Color != nil {
			record.Color = *patch.Color
		}
		record.UpdatedAt = now
		if err := tx.Save(&record).Error; err != nil {
			store.logError(opUpdateOwner, "save_failed", err, zap.Int64("owner_id", ownerID))
			return newStoreError(opUpdateOwner, "save_failed", err)
		}
		updated = record
		return nil
	})
	if txErr != nil {
		return Owner{}, txErr
	}
	return updated.toOwner(), nil
}

// DeleteOwner removes the owner unless a box still carries the owner's name.
// The match is case-insensitive and checked inside the deleting transaction.
func (store *SQLStore) DeleteOwner(ctx context.Context, ownerID int64) error {
	return store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record OwnerRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ownerID).
			Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: owner %d", ErrNotFound, ownerID)
		}
		if err != nil {
			store.logError(opDeleteOwner, "select_failed", err, zap.Int64("owner_id", ownerID))
			return newStoreError(opDeleteOwner, "select_failed", err)
		}
		var matches int64
		if err := tx.Model(&BoxRecord{}).
			Where("LOWER(owner) = LOWER(?)", record.Name).
			Count(&matches).Error; err != nil {
			store.logError(opDeleteOwner, "box_scan_failed", err, zap.Int64("owner_id", ownerID))
			return newStoreError(opDeleteOwner, "box_scan_failed", err)
		}
		if matches > 0 {
			return fmt.Errorf("%w: %s", ErrOwnerInUse, record.Name)
		}
		if err := tx.Delete(&OwnerRecord{}, ownerID).Error; err != nil {
			store.logError(opDeleteOwner, "delete_failed", err, zap.Int64("owner_id", ownerID))
			return newStoreError(opDeleteOwner, "delete_failed", err)
		}
		return nil
	})
}

// GetQRCode returns the QR code with the given id.
func (store *SQLStore) GetQRCode(ctx context.Context, qrCodeID int64) (QRCode, error) {
	var record QRCodeRecord
	err := store.db.WithContext(ctx).Where("id = ?", qrCodeID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return QRCode{}, fmt.Errorf("%w: qr code %d", ErrNotFound, qrCodeID)
	}
	if err != nil {
		store.logError(opGetQRCode, "query_failed", err, zap.Int64("qr_code_id", qrCodeID))
		return QRCode{}, newStoreError(opGetQRCode, "query_failed", err)
	}
	return record.toQRCode(), nil
}

// GetQRCodeByBoxID returns the QR code attached to the box. When duplicates
// exist the earliest-created one wins.
func (store *SQLStore) GetQRCodeByBoxID(ctx context.Context, boxID int64) (QRCode, error) {
	var record QRCodeRecord
	err := store.db.WithContext(ctx).Where("box_id = ?", boxID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return QRCode{}, fmt.Errorf("%w: qr code for box %d", ErrNotFound, boxID)
	}
	if err != nil {
		store.logError(opGetQRCodeByBox, "query_failed", err, zap.Int64("box_id", boxID))
		return QRCode{}, newStoreError(opGetQRCodeByBox, "query_failed", err)
	}
	return record.toQRCode(), nil
}

// CreateQRCode persists a QR code for the box. No activity is logged and no
// per-box uniqueness is enforced here.
func (store *SQLStore) CreateQRCode(ctx context.Context, boxID int64, data string) (QRCode, error) {
	record := QRCodeRecord{
		BoxID:     boxID,
		Data:      data,
		CreatedAt: store.clock().UTC(),
	}
	if err := store.db.WithContext(ctx).Create(&record).Error; err != nil {
		store.logError(opCreateQRCode, "insert_failed", err, zap.Int64("box_id", boxID))
		return QRCode{}, newStoreError(opCreateQRCode, "insert_failed", err)
	}
	return record.toQRCode(), nil
}

// ListActivities returns activities newest first; limit<=0 returns all.
func (store *SQLStore) ListActivities(ctx context.Context, limit int) ([]Activity, error) {
	query := store.db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []ActivityRecord
	if err := query.Find(&records).Error; err != nil {
		store.logError(opListActivities, "query_failed", err, zap.Int("limit", limit))
		return nil, newStoreError(opListActivities, "query_failed", err)
	}
	activities := make([]Activity, 0, len(records))
	for _, record := range records {
		activities = append(activities, record.toActivity())
	}
	return activities, nil
}

// ListBoxActivities returns the activities referencing one box, newest first,
// including entries for a box that was since deleted.
func (store *SQLStore) ListBoxActivities(ctx context.Context, boxID int64) ([]Activity, error) {
	var records []ActivityRecord
	if err := store.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Order("timestamp DESC, id DESC").
		Find(&records).Error; err != nil {
		store.logError(opListBoxActivities, "query_failed", err, zap.Int64("box_id", boxID))
		return nil, newStoreError(opListBoxActivities, "query_failed", err)
	}
	activities := make([]Activity, 0, len(records))
	for _, record := range records {
		activities = append(activities, record.toActivity())
	}
	return activities, nil
}

// lockBox selects a box row for update inside a transaction.
func (store *SQLStore) lockBox(tx *gorm.DB, operation string, boxID int64) (BoxRecord, error) {
	var record BoxRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", boxID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return BoxRecord{}, fmt.Errorf("%w: box %d", ErrNotFound, boxID)
	}
	if err != nil {
		store.logError(operation, "select_failed", err, zap.Int64("box_id", boxID))
		return BoxRecord{}, newStoreError(operation, "select_failed", err)
	}
	return record, nil
}

// insertActivity appends one activity row inside the caller's transaction.
func (store *SQLStore) insertActivity(tx *gorm.DB, operation string, boxID int64, activityType, description string, timestamp time.Time) (ActivityRecord, error) {
	reference := boxID
	record := ActivityRecord{
		BoxID:       &reference,
		Type:        activityType,
		Description: description,
		Timestamp:   timestamp,
	}
	if err := tx.Create(&record).Error; err != nil {
		store.logError(operation, "activity_insert_failed", err, zap.Int64("box_id", boxID))
		return ActivityRecord{}, newStoreError(operation, "activity_insert_failed", err)
	}
	return record, nil
}

func (store *SQLStore) emit(record ActivityRecord) {
	if store.publish == nil {
		return
	}
	store.publish(record.toActivity())
}

func (store *SQLStore) loggerOrDefault() *zap.Logger {
	if store == nil {
		return noOpLogger
	}
	if store.logger == nil {
		return noOpLogger
	}
	return store.logger
}

func (store *SQLStore) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	store.loggerOrDefault().Error("inventory store error", attrs...)
}
