package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notafiscal-server/internal/domain"
)

func TestProfileHandler_GetProfile(t *testing.T) {
	service := &mockProfileService{profile: &domain.UserProfile{ID: "user-1", FullName: "Ana", Phone: "+5511987654321", CountryCode: "+55", LocalPhone: "11987654321"}}
	h := NewProfileHandler(service, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.GetProfile(rr, authenticated(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if profile.FullName != "Ana" || profile.CountryCode != "+55" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestProfileHandler_GetProfileNotFound(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{err: domain.ErrUserNotFound}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.GetProfile(rr, authenticated(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	service := &mockProfileService{profile: &domain.UserProfile{ID: "user-1", FullName: "Ana"}}
	h := NewProfileHandler(service, NewMockHandlerLogger())

	body := strings.NewReader(`{"full_name":"Ana","country_code":"+55","phone":"11 98765-4321","notifications_enabled":true}`)
	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, authenticated(httptest.NewRequest(http.MethodPut, "/api/v1/profile", body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if service.lastUpdate.Phone != "11 98765-4321" || !service.lastUpdate.NotificationsEnabled {
		t.Fatalf("unexpected update %+v", service.lastUpdate)
	}
}

func TestProfileHandler_UpdateProfileInvalidPhone(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{err: domain.ErrInvalidPhone}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, authenticated(httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"phone":"1"}`))))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"field":"phone"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestProfileHandler_UpdateProfileInvalidBody(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, authenticated(httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader("not json"))))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
