package labels

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Label is one printable sticker: a QR payload plus two caption lines.
type Label struct {
	Data     string
	Title    string
	Subtitle string
}

// SheetConfig describes the grid an A4 page is divided into. Dimensions are
// millimeters.
type SheetConfig struct {
	Columns    int
	Rows       int
	MarginTop  float64
	MarginLeft float64
	GapX       float64
	GapY       float64
}

// DefaultSheetConfig matches common 3x8 adhesive label paper.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Columns:    3,
		Rows:       8,
		MarginTop:  10,
		MarginLeft: 7,
		GapX:       2.5,
		GapY:       0,
	}
}

var errInvalidSheetGrid = errors.New("labels: sheet grid needs at least one column and one row")

const (
	pageWidth  = 210.0
	pageHeight = 297.0
)

// Generate renders the labels onto A4 pages and returns the PDF bytes. An
// empty label list yields a single blank page.
func Generate(config SheetConfig, sheet []Label) ([]byte, error) {
	if config.Columns < 1 || config.Rows < 1 {
		return nil, errInvalidSheetGrid
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)
	pdf.AddPage()

	availableWidth := pageWidth - config.MarginLeft*2
	availableHeight := pageHeight - config.MarginTop*2
	labelWidth := (availableWidth - float64(config.Columns-1)*config.GapX) / float64(config.Columns)
	labelHeight := (availableHeight - float64(config.Rows-1)*config.GapY) / float64(config.Rows)

	perPage := config.Columns * config.Rows
	for i, label := range sheet {
		if i > 0 && i%perPage == 0 {
			pdf.AddPage()
		}
		indexOnPage := i % perPage
		column := indexOnPage % config.Columns
		row := indexOnPage / config.Columns
		x := config.MarginLeft + float64(column)*(labelWidth+config.GapX)
		y := config.MarginTop + float64(row)*(labelHeight+config.GapY)

		image, err := qrcode.Encode(label.Data, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("labels: encode %q: %w", label.Data, err)
		}

		imageName := fmt.Sprintf("label_qr_%d", i)
		options := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imageName, options, bytes.NewReader(image))

		qrSize := labelHeight * 0.6
		if qrSize > labelWidth {
			qrSize = labelWidth * 0.9
		}
		qrX := x + (labelWidth-qrSize)/2
		pdf.ImageOptions(imageName, qrX, y+1, qrSize, qrSize, false, options, 0, "")

		pdf.SetXY(x, y+qrSize+2)
		pdf.SetFontSize(9)
		pdf.CellFormat(labelWidth, 4, label.Title, "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+qrSize+6)
		pdf.SetFontSize(7)
		pdf.CellFormat(labelWidth, 3, label.Subtitle, "", 0, "C", false, 0, "")
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("labels: render pdf: %w", err)
	}
	return buffer.Bytes(), nil
}
