package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/friendsincode/bragi_cms/internal/models"
)

func TestStationsCreate_PrivateFlagPersisted(t *testing.T) {
	a := newTestAPI(t)

	body := `{"name":"Internal FM","timezone":"UTC","public":false}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/stations", strings.NewReader(body))
	a.handleStationsCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var created models.Station
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var stored models.Station
	if err := a.db.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reload station: %v", err)
	}
	if stored.Public {
		t.Error("expected explicit public=false to survive the insert")
	}

	// The listener-facing listing must not leak it either.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/public/stations", nil)
	a.handlePublicStations(rr, req)

	var listed []models.Station
	if err := json.NewDecoder(rr.Body).Decode(&listed); err != nil {
		t.Fatalf("decode public listing: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("private station leaked into public listing: %v", listed)
	}
}

func TestStationsCreate_DuplicateName(t *testing.T) {
	a := newTestAPI(t)

	body := `{"name":"North FM","timezone":"UTC"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/stations", strings.NewReader(body))
	a.handleStationsCreate(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/v1/stations", strings.NewReader(body))
	a.handleStationsCreate(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "name_taken" {
		t.Errorf("error code = %q, want name_taken", resp["error"])
	}
}
