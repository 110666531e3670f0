package server

import (
	"time"

	"github.com/WreckedIT/MoveMate/internal/inventory"
)

type boxPayload struct {
	ID        int64            `json:"id"`
	BoxNumber int              `json:"box_number"`
	Owner     string           `json:"owner"`
	Room      string           `json:"room"`
	Contents  string           `json:"contents"`
	Status    string           `json:"status"`
	Position  *positionPayload `json:"position"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type positionPayload struct {
	Depth      string `json:"depth"`
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

type ownerPayload struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type activityPayload struct {
	ID          int64     `json:"id"`
	BoxID       *int64    `json:"box_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type qrCodePayload struct {
	ID        int64     `json:"id"`
	BoxID     int64     `json:"box_id"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

func toBoxPayload(box inventory.Box) boxPayload {
	payload := boxPayload{
		ID:        box.ID,
		BoxNumber: box.BoxNumber,
		Owner:     box.Owner,
		Room:      box.Room,
		Contents:  box.Contents,
		Status:    string(box.Status),
		CreatedAt: box.CreatedAt,
		UpdatedAt: box.UpdatedAt,
	}
	if box.Position != nil {
		payload.Position = &positionPayload{
			Depth:      string(box.Position.Depth),
			Horizontal: string(box.Position.Horizontal),
			Vertical:   string(box.Position.Vertical),
		}
	}
	return payload
}

func toBoxPayloads(boxes []inventory.Box) []boxPayload {
	payloads := make([]boxPayload, 0, len(boxes))
	for _, box := range boxes {
		payloads = append(payloads, toBoxPayload(box))
	}
	return payloads
}

func toOwnerPayload(owner inventory.Owner) ownerPayload {
	return ownerPayload{
		ID:        owner.ID,
		Name:      owner.Name,
		Color:     owner.Color,
		CreatedAt: owner.CreatedAt,
		UpdatedAt: owner.UpdatedAt,
	}
}

func toActivityPayload(activity inventory.Activity) activityPayload {
	return activityPayload{
		ID:          activity.ID,
		BoxID:       activity.BoxID,
		Type:        activity.Type,
		Description: activity.Description,
		Timestamp:   activity.Timestamp,
	}
}

func toActivityPayloads(activities []inventory.Activity) []activityPayload {
	payloads := make([]activityPayload, 0, len(activities))
	for _, activity := range activities {
		payloads = append(payloads, toActivityPayload(activity))
	}
	return payloads
}

func toQRCodePayload(code inventory.QRCode) qrCodePayload {
	return qrCodePayload{
		ID:        code.ID,
		BoxID:     code.BoxID,
		Data:      code.Data,
		CreatedAt: code.CreatedAt,
	}
}
