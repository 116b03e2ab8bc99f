package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chiikawashop/internal/repos"
)

func TestAdminGuardRequiresAdmin(t *testing.T) {
	s := newShopApp(t)

	// Anonymous -> login
	resp := s.get(t, "/admin", "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}

	// Logged-in non-admin -> 403
	s.login(t, "sid-user", "u-user")
	if resp := s.get(t, "/admin", "sid-user"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden for non-admin, got %d", resp.StatusCode)
	}
	if resp := s.post(t, "/admin/users/u-hachi/delete", "sid-user", nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden for non-admin delete, got %d", resp.StatusCode)
	}

	// Admin -> 200
	s.login(t, "sid-admin", "u-admin")
	for _, path := range []string{"/admin", "/admin/products", "/admin/products/new", "/admin/products/1/edit", "/admin/users", "/admin/users/u-user"} {
		if resp := s.get(t, path, "sid-admin"); resp.StatusCode != http.StatusOK {
			t.Fatalf("admin GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func postMultipart(t *testing.T, s *testShop, path, sid string, fields map[string]string, fileName string, file []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields["csrf"] = s.csrf
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("image", fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: s.csrf})
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestAdminCreatesProductWithImage(t *testing.T) {
	s := newShopApp(t)
	s.login(t, "sid-admin", "u-admin")
	fields := func() map[string]string {
		return map[string]string{"name": "Kurimanju Plush", "description": "Sleepy", "price": "21.50", "stock": "9"}
	}

	resp := postMultipart(t, s, "/admin/products", "sid-admin", fields(), "evil.exe", []byte("MZ"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad extension: expected 422, got %d", resp.StatusCode)
	}
	bad := fields()
	bad["price"] = "-3"
	if resp := postMultipart(t, s, "/admin/products", "sid-admin", bad, "", nil); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad price: expected 422, got %d", resp.StatusCode)
	}

	resp = postMultipart(t, s, "/admin/products", "sid-admin", fields(), "kuri.PNG", []byte("\x89PNG fake"))
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/admin/products" {
		t.Fatalf("expected redirect to /admin/products, got %d", resp.StatusCode)
	}

	products, err := repos.NewProductRepo(s.db).Latest(context.Background(), 1)
	if err != nil || len(products) != 1 {
		t.Fatalf("latest product: %v", err)
	}
	p := products[0]
	if p.Name != "Kurimanju Plush" || p.Stock != 9 || p.Price.StringFixed(2) != "21.50" {
		t.Fatalf("unexpected product %+v", p)
	}
	if !strings.HasPrefix(p.Image, "products/") || !strings.HasSuffix(p.Image, ".png") {
		t.Fatalf("unexpected image path %q", p.Image)
	}
	if _, err := os.Stat(filepath.Join(s.mediaDir, p.Image)); err != nil {
		t.Fatalf("uploaded image not stored: %v", err)
	}
}

func TestAdminResetsPasswordAndDeletesUser(t *testing.T) {
	s := newShopApp(t)
	s.login(t, "sid-admin", "u-admin")
	s.login(t, "sid-hachi", "u-hachi")

	resp := s.post(t, "/admin/users/u-hachi/password", "sid-admin", map[string][]string{
		"password": {"abc"}, "password_confirmation": {"abc"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("short password: expected 422, got %d", resp.StatusCode)
	}
	long := strings.Repeat("a", 80)
	resp = s.post(t, "/admin/users/u-hachi/password", "sid-admin", map[string][]string{
		"password": {long}, "password_confirmation": {long},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("over-long password: expected 422, got %d", resp.StatusCode)
	}
	resp = s.post(t, "/admin/users/u-hachi/password", "sid-admin", map[string][]string{
		"password": {"yaha-yaha"}, "password_confirmation": {"yaha-yaha"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("reset: expected redirect, got %d", resp.StatusCode)
	}

	if resp := s.post(t, "/admin/users/u-admin/delete", "sid-admin", nil); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("deleting an admin: expected 422, got %d", resp.StatusCode)
	}
	if resp := s.post(t, "/admin/users/u-hachi/delete", "sid-admin", nil); resp.StatusCode != http.StatusFound {
		t.Fatalf("delete: expected redirect, got %d", resp.StatusCode)
	}
	if resp := s.get(t, "/cart", "sid-hachi"); resp.StatusCode != http.StatusFound {
		t.Fatalf("deleted user's session should be gone, got %d", resp.StatusCode)
	}
	if resp := s.get(t, "/admin/users/u-hachi", "sid-admin"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted user page: expected 404, got %d", resp.StatusCode)
	}
}
