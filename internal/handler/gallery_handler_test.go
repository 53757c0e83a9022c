package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imani/internal/middleware"
	"imani/internal/repository"

	"github.com/gin-gonic/gin"
)

// stubImages satisfies cloudinary.Client without network access.
type stubImages struct {
	uploads []string
	deletes []string
	fail    bool
}

func (s *stubImages) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if s.fail {
		return "", errors.New("upstream unavailable")
	}
	io.Copy(io.Discard, file)
	s.uploads = append(s.uploads, folder+"/"+publicID)
	return "https://res.cloudinary.test/" + folder + "/" + publicID + ".jpg", nil
}

func (s *stubImages) DeleteImage(_ context.Context, publicID string) error {
	if s.fail {
		return errors.New("upstream unavailable")
	}
	s.deletes = append(s.deletes, publicID)
	return nil
}

func galleryRouter(f *fixture, images *stubImages) (*gin.Engine, *repository.GalleryRepository) {
	repo := repository.NewGalleryRepository(f.db)
	h := NewGalleryHandler(repo, images, "demo-cloud")
	r := gin.New()
	r.GET("/api/v1/gallery", h.List)
	authed := r.Group("/api/v1")
	authed.Use(middleware.AuthRequired(&f.cfg.JWT))
	authed.POST("/gallery", h.Upload)
	authed.DELETE("/gallery/:id", h.Delete)
	return r, repo
}

func multipartUpload(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range filenames {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte("fake image bytes"))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestGalleryUpload(t *testing.T) {
	f := newFixture(t)
	images := &stubImages{}
	r, repo := galleryRouter(f, images)

	body, contentType := multipartUpload(t, "a.jpg", "b.jpg")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, f))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(images.uploads) != 2 {
		t.Errorf("uploads = %d", len(images.uploads))
	}
	list, err := repo.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("stored rows = %d", len(list))
	}
	for _, img := range list {
		if !strings.HasPrefix(img.PublicID, "imani/gallery/img_") {
			t.Errorf("public id = %q", img.PublicID)
		}
		if img.URL == "" {
			t.Error("empty url stored")
		}
		if img.UploadedBy != 1 {
			t.Errorf("uploaded_by = %d", img.UploadedBy)
		}
	}

	// The public listing carries a width-capped delivery URL per image.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/gallery", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var out struct {
		Images []struct {
			PublicID  string `json:"public_id"`
			Thumbnail string `json:"thumbnail"`
		} `json:"images"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Images) != 2 {
		t.Fatalf("listed images = %d", len(out.Images))
	}
	for _, img := range out.Images {
		want := "https://res.cloudinary.com/demo-cloud/image/upload/q_auto,f_auto,w_400,c_limit/" + img.PublicID
		if img.Thumbnail != want {
			t.Errorf("thumbnail = %q, want %q", img.Thumbnail, want)
		}
	}
}

func TestGalleryUploadFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	r, repo := galleryRouter(f, &stubImages{fail: true})

	body, contentType := multipartUpload(t, "a.jpg")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, f))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	list, _ := repo.List(0)
	if len(list) != 0 {
		t.Errorf("rows stored after failed upload: %d", len(list))
	}
}

func TestGalleryDeleteRemovesAssetAndRow(t *testing.T) {
	f := newFixture(t)
	images := &stubImages{}
	r, repo := galleryRouter(f, images)

	body, contentType := multipartUpload(t, "a.jpg")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, f))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", w.Code)
	}
	list, _ := repo.List(0)
	if len(list) != 1 {
		t.Fatalf("rows = %d", len(list))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/gallery/1", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, f))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(images.deletes) != 1 || images.deletes[0] != list[0].PublicID {
		t.Errorf("deletes = %v", images.deletes)
	}
	list, _ = repo.List(0)
	if len(list) != 0 {
		t.Errorf("row survived delete")
	}
}
