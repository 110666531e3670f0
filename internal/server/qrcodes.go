package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	defaultQRImageSize = 256
	minQRImageSize     = 128
	maxQRImageSize     = 1024
)

func (h *httpHandler) handleGetBoxQRCode(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	code, err := h.lookupOrCreateQRCode(c.Request.Context(), boxID)
	if err != nil {
		h.renderStoreError(c, "get_box_qrcode", err)
		return
	}
	c.JSON(http.StatusOK, toQRCodePayload(code))
}

func (h *httpHandler) handleBoxQRCodePNG(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	code, err := h.lookupOrCreateQRCode(c.Request.Context(), boxID)
	if err != nil {
		h.renderStoreError(c, "get_box_qrcode_png", err)
		return
	}

	image, err := qrcode.Encode(code.Data, qrcode.Medium, qrImageSize(c.Query("size")))
	if err != nil {
		h.logger.Error("qr image encoding failed",
			zap.Int64("box_id", boxID),
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}

// handleScan resolves a scanned QR payload back to its box. Malformed
// payloads and retired boxes are indistinguishable to the caller.
func (h *httpHandler) handleScan(c *gin.Context) {
	boxID, err := inventory.ParseQRData(c.Param("data"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	box, err := h.store.GetBox(c.Request.Context(), boxID)
	if err != nil {
		h.renderStoreError(c, "scan", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayload(box))
}

// lookupOrCreateQRCode materializes the QR record on first demand. The data
// string is derived from the box id alone, so concurrent creation at worst
// duplicates rows with identical payloads.
func (h *httpHandler) lookupOrCreateQRCode(ctx context.Context, boxID int64) (inventory.QRCode, error) {
	code, err := h.store.GetQRCodeByBoxID(ctx, boxID)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, inventory.ErrNotFound) {
		return inventory.QRCode{}, err
	}
	box, err := h.store.GetBox(ctx, boxID)
	if err != nil {
		return inventory.QRCode{}, err
	}
	return h.store.CreateQRCode(ctx, box.ID, inventory.FormatQRData(box.ID))
}

func qrImageSize(raw string) int {
	if raw == "" {
		return defaultQRImageSize
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return defaultQRImageSize
	}
	if size < minQRImageSize {
		return minQRImageSize
	}
	if size > maxQRImageSize {
		return maxQRImageSize
	}
	return size
}
