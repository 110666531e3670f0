package server

import (
	"fmt"
	"net/http"
	"testing"
)

func TestOwnerLifecycleOverHTTP(t *testing.T) {
	fixture := newRouterFixture(t)

	created := fixture.mustCreateOwner(t, `{"name":"Alex","color":"#ff0000"}`)
	ownerID := objectID(t, created)
	if created["name"] != "Alex" || created["color"] != "#ff0000" {
		t.Fatalf("unexpected owner payload: %v", created)
	}

	owners := decodeList(t, fixture.do(t, http.MethodGet, "/api/owners", ""))
	if len(owners) != 1 || objectID(t, owners[0]) != ownerID {
		t.Fatalf("expected the created owner in the listing, got %v", owners)
	}

	recorder := fixture.do(t, http.MethodPut, fmt.Sprintf("/api/owners/%d", ownerID), `{"color":"#00ff00"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body %s)", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	updated := decodeObject(t, recorder)
	if updated["color"] != "#00ff00" || updated["name"] != "Alex" {
		t.Fatalf("expected a partial update, got %v", updated)
	}

	recorder = fixture.do(t, http.MethodDelete, fmt.Sprintf("/api/owners/%d", ownerID), "")
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, recorder.Code)
	}
	expectError(t, fixture.do(t, http.MethodGet, fmt.Sprintf("/api/owners/%d", ownerID), ""), http.StatusNotFound, "not_found")
}

func TestCreateOwnerRequiresName(t *testing.T) {
	fixture := newRouterFixture(t)

	expectError(t, fixture.do(t, http.MethodPost, "/api/owners", `{"color":"#ff0000"}`), http.StatusBadRequest, "invalid_request")
	expectError(t, fixture.do(t, http.MethodPost, "/api/owners", `{"name":"   "}`), http.StatusBadRequest, "invalid_request")
}

func TestUpdateOwnerRejectsBlankName(t *testing.T) {
	fixture := newRouterFixture(t)
	ownerID := objectID(t, fixture.mustCreateOwner(t, `{"name":"Alex"}`))

	expectError(t, fixture.do(t, http.MethodPut, fmt.Sprintf("/api/owners/%d", ownerID), `{"name":"  "}`), http.StatusBadRequest, "invalid_request")
	expectError(t, fixture.do(t, http.MethodPut, "/api/owners/999", `{"name":"Bea"}`), http.StatusNotFound, "not_found")
}

func TestDeleteOwnerRefusedWhileBoxesReferenceName(t *testing.T) {
	fixture := newRouterFixture(t)
	ownerID := objectID(t, fixture.mustCreateOwner(t, `{"name":"Alex"}`))
	boxID := objectID(t, fixture.mustCreateBox(t, `{"box_number":1,"owner":"aLeX"}`))

	recorder := fixture.do(t, http.MethodDelete, fmt.Sprintf("/api/owners/%d", ownerID), "")
	expectError(t, recorder, http.StatusBadRequest, "owner is still assigned to one or more boxes")

	recorder = fixture.do(t, http.MethodPut, fmt.Sprintf("/api/boxes/%d", boxID), `{"owner":"Bea"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	recorder = fixture.do(t, http.MethodDelete, fmt.Sprintf("/api/owners/%d", ownerID), "")
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected the delete to pass after reassignment, got %d (body %s)", recorder.Code, recorder.Body.String())
	}

	expectError(t, fixture.do(t, http.MethodDelete, "/api/owners/999", ""), http.StatusNotFound, "not_found")
}
