package server

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/WreckedIT/MoveMate/internal/labels"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var exportCSVHeader = []string{"id", "box_number", "owner", "room", "contents", "status", "position", "created_at", "updated_at"}

func (h *httpHandler) handleExportBoxesCSV(c *gin.Context) {
	boxes, err := h.store.ListBoxes(c.Request.Context())
	if err != nil {
		h.renderStoreError(c, "export_boxes_csv", err)
		return
	}

	records := make([][]string, 0, len(boxes)+1)
	records = append(records, exportCSVHeader)
	for _, box := range boxes {
		position := ""
		if box.Position != nil {
			position = box.Position.String()
		}
		records = append(records, []string{
			strconv.FormatInt(box.ID, 10),
			strconv.Itoa(box.BoxNumber),
			box.Owner,
			box.Room,
			box.Contents,
			string(box.Status),
			position,
			box.CreatedAt.UTC().Format(time.RFC3339),
			box.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	if err := writer.WriteAll(records); err != nil {
		h.logger.Error("csv export failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="boxes.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buffer.Bytes())
}

func (h *httpHandler) handleBoxLabelsPDF(c *gin.Context) {
	boxes, err := h.store.ListBoxes(c.Request.Context())
	if err != nil {
		h.renderStoreError(c, "box_labels_pdf", err)
		return
	}

	sheet := make([]labels.Label, 0, len(boxes))
	for _, box := range boxes {
		code, err := h.lookupOrCreateQRCode(c.Request.Context(), box.ID)
		if errors.Is(err, inventory.ErrNotFound) {
			// Boxes removed mid-export drop off the sheet instead of
			// failing it.
			continue
		}
		if err != nil {
			h.renderStoreError(c, "box_labels_pdf", err)
			return
		}
		sheet = append(sheet, labels.Label{
			Data:     code.Data,
			Title:    fmt.Sprintf("Box #%d", box.BoxNumber),
			Subtitle: labelSubtitle(box),
		})
	}

	document, err := labels.Generate(labels.DefaultSheetConfig(), sheet)
	if err != nil {
		h.logger.Error("label sheet generation failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="box-labels.pdf"`)
	c.Data(http.StatusOK, "application/pdf", document)
}

func labelSubtitle(box inventory.Box) string {
	parts := make([]string, 0, 2)
	if box.Owner != "" {
		parts = append(parts, box.Owner)
	}
	if box.Room != "" {
		parts = append(parts, box.Room)
	}
	return strings.Join(parts, " - ")
}
