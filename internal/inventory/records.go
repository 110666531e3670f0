package inventory

import "time"

// BoxRecord is the relational row behind a Box. The truck position is
// flattened into three nullable axis columns that are always set and cleared
// together.
type BoxRecord struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BoxNumber          int       `gorm:"column:box_number;not null;index:idx_boxes_number"`
	Owner              string    `gorm:"column:owner;size:190;not null;default:''"`
	Room               string    `gorm:"column:room;size:190;not null;default:''"`
	Contents           string    `gorm:"column:contents;type:text;not null;default:''"`
	Status             string    `gorm:"column:status;size:32;not null"`
	PositionDepth      *string   `gorm:"column:position_depth;size:16"`
	PositionHorizontal *string   `gorm:"column:position_horizontal;size:16"`
	PositionVertical   *string   `gorm:"column:position_vertical;size:16"`
	CreatedAt          time.Time `gorm:"column:created_at;not null"`
	UpdatedAt          time.Time `gorm:"column:updated_at;not null;index:idx_boxes_updated"`
}

// TableName provides the explicit table binding for GORM.
func (BoxRecord) TableName() string {
	return "boxes"
}

func (record BoxRecord) toBox() Box {
	box := Box{
		ID:        record.ID,
		BoxNumber: record.BoxNumber,
		Owner:     record.Owner,
		Room:      record.Room,
		Contents:  record.Contents,
		Status:    Status(record.Status),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if record.PositionDepth != nil && record.PositionHorizontal != nil && record.PositionVertical != nil {
		box.Position = &Position{
			Depth:      Depth(*record.PositionDepth),
			Horizontal: Horizontal(*record.PositionHorizontal),
			Vertical:   Vertical(*record.PositionVertical),
		}
	}
	return box
}

func (record *BoxRecord) setPosition(position *Position) {
	if position == nil {
		record.PositionDepth = nil
		record.PositionHorizontal = nil
		record.PositionVertical = nil
		return
	}
	depth := string(position.Depth)
	horizontal := string(position.Horizontal)
	vertical := string(position.Vertical)
	record.PositionDepth = &depth
	record.PositionHorizontal = &horizontal
	record.PositionVertical = &vertical
}

// OwnerRecord is the relational row behind an Owner.
type OwnerRecord struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:190;not null"`
	Color     string    `gorm:"column:color;size:32;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (OwnerRecord) TableName() string {
	return "owners"
}

func (record OwnerRecord) toOwner() Owner {
	return Owner{
		ID:        record.ID,
		Name:      record.Name,
		Color:     record.Color,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// ActivityRecord is the relational row behind an Activity. The box reference
// is a plain nullable column on purpose: no foreign key, no cascade, so
// entries outlive the box they describe.
type ActivityRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BoxID       *int64    `gorm:"column:box_id;index:idx_activities_box"`
	Type        string    `gorm:"column:type;size:64;not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;index:idx_activities_time"`
}

// TableName provides the explicit table binding for GORM.
func (ActivityRecord) TableName() string {
	return "activities"
}

func (record ActivityRecord) toActivity() Activity {
	activity := Activity{
		ID:          record.ID,
		Type:        record.Type,
		Description: record.Description,
		Timestamp:   record.Timestamp,
	}
	if record.BoxID != nil {
		boxID := *record.BoxID
		activity.BoxID = &boxID
	}
	return activity
}

// QRCodeRecord is the relational row behind a QRCode. The box reference is
// indexed but deliberately not unique; the lazy get-or-create pattern at the
// boundary keeps it one-to-one in practice.
type QRCodeRecord struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BoxID     int64     `gorm:"column:box_id;not null;index:idx_qr_codes_box"`
	Data      string    `gorm:"column:data;size:190;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (QRCodeRecord) TableName() string {
	return "qr_codes"
}

func (record QRCodeRecord) toQRCode() QRCode {
	return QRCode{
		ID:        record.ID,
		BoxID:     record.BoxID,
		Data:      record.Data,
		CreatedAt: record.CreatedAt,
	}
}
