package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imani/internal/auth"
	"imani/internal/domain"
	"imani/internal/middleware"

	"github.com/gin-gonic/gin"
)

func settingsRouter(f *fixture) *gin.Engine {
	h := NewSettingsHandler(f.settingRepo, f.settingsSvc)
	r := gin.New()
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthRequired(&f.cfg.JWT), middleware.AdminRequired())
	admin.GET("/settings/:type", h.Get)
	admin.PUT("/settings/:type", h.Update)
	admin.POST("/settings/:type/reset", h.Reset)
	return r
}

func adminToken(t *testing.T, f *fixture) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(&f.cfg.JWT, 1, "admin@imani.local", domain.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func settingsRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func TestSettingsGetMasksSecrets(t *testing.T) {
	f := newFixture(t)
	r := settingsRouter(f)

	w := settingsRequest(r, http.MethodGet, "/api/v1/admin/settings/mpesa", adminToken(t, f), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out struct {
		Settings map[string]string `json:"settings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Settings["consumerSecret"] != "********" {
		t.Errorf("consumerSecret = %q, not masked", out.Settings["consumerSecret"])
	}
	if out.Settings["shortcode"] != "174379" {
		t.Errorf("shortcode = %q", out.Settings["shortcode"])
	}
}

func TestSettingsUpdateAndReset(t *testing.T) {
	f := newFixture(t)
	r := settingsRouter(f)
	token := adminToken(t, f)

	w := settingsRequest(r, http.MethodPut, "/api/v1/admin/settings/mpesa", token, `{"shortcode":"600999"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	m, err := f.settingsSvc.Resolve(domain.SettingTypeMpesa)
	if err != nil {
		t.Fatal(err)
	}
	if m["shortcode"] != "600999" {
		t.Errorf("shortcode = %q after update", m["shortcode"])
	}

	w = settingsRequest(r, http.MethodPut, "/api/v1/admin/settings/mpesa", token, `{"bogusKey":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown key status = %d, want 400", w.Code)
	}

	w = settingsRequest(r, http.MethodPost, "/api/v1/admin/settings/mpesa/reset", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	m, _ = f.settingsSvc.Resolve(domain.SettingTypeMpesa)
	if m["shortcode"] != "174379" {
		t.Errorf("shortcode = %q after reset", m["shortcode"])
	}
}

func TestSettingsUpdateIgnoresMaskSentinel(t *testing.T) {
	f := newFixture(t)
	r := settingsRouter(f)
	token := adminToken(t, f)

	// A read-modify-write client echoes the mask back for secrets it did not
	// touch; the stored secret must survive.
	if err := f.settingRepo.Set(domain.SettingTypeMpesa, "consumerSecret", "real-secret", "test"); err != nil {
		t.Fatal(err)
	}
	w := settingsRequest(r, http.MethodPut, "/api/v1/admin/settings/mpesa", token,
		`{"consumerSecret":"********","shortcode":"600999"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	m, err := f.settingsSvc.Resolve(domain.SettingTypeMpesa)
	if err != nil {
		t.Fatal(err)
	}
	if m["consumerSecret"] != "real-secret" {
		t.Errorf("consumerSecret = %q, mask sentinel was stored", m["consumerSecret"])
	}
	if m["shortcode"] != "600999" {
		t.Errorf("shortcode = %q, non-secret key not updated", m["shortcode"])
	}

	// A genuine new secret still goes through.
	w = settingsRequest(r, http.MethodPut, "/api/v1/admin/settings/mpesa", token,
		`{"consumerSecret":"rotated-secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	m, _ = f.settingsSvc.Resolve(domain.SettingTypeMpesa)
	if m["consumerSecret"] != "rotated-secret" {
		t.Errorf("consumerSecret = %q after rotation", m["consumerSecret"])
	}
}

func TestSettingsUnknownType(t *testing.T) {
	f := newFixture(t)
	r := settingsRouter(f)

	w := settingsRequest(r, http.MethodGet, "/api/v1/admin/settings/bogus", adminToken(t, f), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSettingsRequireAdminRole(t *testing.T) {
	f := newFixture(t)
	r := settingsRouter(f)

	w := settingsRequest(r, http.MethodGet, "/api/v1/admin/settings/mpesa", bearerToken(t, f), "")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
