package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestExportBoxesCSV(t *testing.T) {
	fixture := newRouterFixture(t)
	first := objectID(t, fixture.mustCreateBox(t, `{"box_number":1,"owner":"Alex","room":"Kitchen","contents":"Mugs"}`))
	fixture.mustCreateBox(t, `{"box_number":2,"owner":"Bea"}`)

	recorder := fixture.do(t, http.MethodPut, fmt.Sprintf("/api/boxes/%d/position", first),
		`{"depth":"front","horizontal":"left","vertical":"high","status":"loaded"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	recorder = fixture.do(t, http.MethodGet, "/api/boxes/export.csv", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if contentType := recorder.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/csv") {
		t.Fatalf("expected a csv response, got %q", contentType)
	}
	if disposition := recorder.Header().Get("Content-Disposition"); !strings.Contains(disposition, "boxes.csv") {
		t.Fatalf("expected an attachment disposition, got %q", disposition)
	}

	records, err := csv.NewReader(strings.NewReader(recorder.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected a header and two rows, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][6] != "position" {
		t.Fatalf("unexpected header row: %v", records[0])
	}
	// The freshly positioned box sorts first.
	if records[1][1] != "1" || records[1][5] != "loaded" || records[1][6] != "front-left-high" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	if records[2][1] != "2" || records[2][6] != "" {
		t.Fatalf("unexpected second row: %v", records[2])
	}
}

func TestBoxLabelsPDF(t *testing.T) {
	fixture := newRouterFixture(t)
	fixture.mustCreateBox(t, `{"box_number":1,"owner":"Alex","room":"Kitchen"}`)
	fixture.mustCreateBox(t, `{"box_number":2}`)

	recorder := fixture.do(t, http.MethodGet, "/api/boxes/labels.pdf", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/pdf" {
		t.Fatalf("expected an application/pdf response, got %q", contentType)
	}
	if !bytes.HasPrefix(recorder.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a pdf document")
	}

	// Rendering the sheet materializes the QR records.
	code := decodeObject(t, fixture.do(t, http.MethodGet, "/api/boxes/1/qrcode", ""))
	if code["data"] != "boxtracker-1" {
		t.Fatalf("expected the label run to persist qr codes, got %v", code)
	}
}

func TestTruckGridReportsOccupancy(t *testing.T) {
	fixture := newRouterFixture(t)
	first := objectID(t, fixture.mustCreateBox(t, `{"box_number":1}`))
	second := objectID(t, fixture.mustCreateBox(t, `{"box_number":2}`))
	fixture.mustCreateBox(t, `{"box_number":3}`)

	for _, boxID := range []int64{first, second} {
		recorder := fixture.do(t, http.MethodPut, fmt.Sprintf("/api/boxes/%d/position", boxID),
			`{"depth":"front","horizontal":"left","vertical":"high","status":"loaded"}`)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
		}
	}

	recorder := fixture.do(t, http.MethodGet, "/api/truck", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	grid := decodeObject(t, recorder)
	if grid["loaded_boxes"].(float64) != 2 || grid["occupied_cells"].(float64) != 1 {
		t.Fatalf("unexpected grid summary: %v", grid)
	}

	cells, ok := grid["cells"].([]any)
	if !ok || len(cells) != 27 {
		t.Fatalf("expected 27 grid cells, got %v", grid["cells"])
	}
	var shared map[string]any
	for _, raw := range cells {
		cell := raw.(map[string]any)
		if cell["boxes"] == nil {
			t.Fatalf("expected every cell to carry a box list, cell %v", cell)
		}
		if cell["position"] == "front-left-high" {
			shared = cell
		}
	}
	if shared == nil {
		t.Fatalf("expected the front-left-high cell in the grid")
	}
	occupants := shared["boxes"].([]any)
	if len(occupants) != 2 {
		t.Fatalf("expected both boxes in the shared cell, got %v", occupants)
	}
}
