package router

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/autohouse-service/internal/cache"
	"github.com/princekumarofficial/autohouse-service/internal/events"
	"github.com/princekumarofficial/autohouse-service/internal/services/admin"
	"github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/services/offers"
	"github.com/princekumarofficial/autohouse-service/internal/services/users"
	"github.com/princekumarofficial/autohouse-service/internal/storage/memory"
	catalogTypes "github.com/princekumarofficial/autohouse-service/internal/types/catalog"
	userTypes "github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/jwt"
	"github.com/princekumarofficial/autohouse-service/internal/websocket"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := memory.New()
	catalogCache := cache.NewCatalogCache(store, client)
	mediaSvc := media.NewService(store, media.NewRegistry(media.NewFolderBackend(t.TempDir())), nil)

	return New(Deps{
		JWTSecret:   testSecret,
		MaxFileSize: 1 << 20,
		Redis:       client,
		Hub:         websocket.NewHub(),
		Publisher:   events.Nop{},
		Users:       users.NewService(store, testSecret, time.Hour),
		Catalog:     catalog.NewService(catalogCache, catalog.NewImporter(store, 50, slog.Default()), catalogCache),
		Admin:       admin.NewService(store, store, 50, slog.Default()),
		Offers:      offers.NewService(store, store, catalogCache, mediaSvc, nil),
		Media:       mediaSvc,
	})
}

func token(t *testing.T, role userTypes.Role) string {
	t.Helper()
	tok, err := jwt.CreateToken("user-1", userTypes.InheritedRoles(role), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	return tok
}

func do(h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(newTestRouter(t), http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}

func TestSignUpLoginMe(t *testing.T) {
	h := newTestRouter(t)
	creds := map[string]string{"email": "driver@example.com", "password": "secret123"}

	if rr := do(h, http.MethodPost, "/signup", "", creds); rr.Code != http.StatusCreated {
		t.Fatalf("Expected signup status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr := do(h, http.MethodPost, "/signup", "", creds); rr.Code != http.StatusConflict {
		t.Errorf("Expected duplicate signup status 409, got %d", rr.Code)
	}

	rr := do(h, http.MethodPost, "/login", "", creds)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected login status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var login map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&login); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}

	rr = do(h, http.MethodGet, "/me", login["token"], nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected me status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var me userTypes.User
	if err := json.NewDecoder(rr.Body).Decode(&me); err != nil {
		t.Fatalf("Failed to decode me response: %v", err)
	}
	if me.Username != "driver@example.com" || me.ID != login["user_id"] {
		t.Errorf("Unexpected user %+v", me)
	}

	wrong := map[string]string{"email": "driver@example.com", "password": "wrongpass"}
	if rr := do(h, http.MethodPost, "/login", "", wrong); rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for a wrong password, got %d", rr.Code)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newTestRouter(t)
	body := map[string]string{"name": "Skoda"}

	tests := []struct {
		name   string
		bearer string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"user", token(t, userTypes.RoleUser), http.StatusForbidden},
		{"moderator", token(t, userTypes.RoleModerator), http.StatusForbidden},
		{"admin", token(t, userTypes.RoleAdmin), http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, http.MethodPost, "/makers", tt.bearer, body)
			if rr.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCatalogImportThenList(t *testing.T) {
	h := newTestRouter(t)
	admin := token(t, userTypes.RoleAdmin)

	// prime the cache so the import has to invalidate it
	if rr := do(h, http.MethodGet, "/makers", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	payload := []catalogTypes.MakerImportRequest{{
		Name: "Toyota",
		Models: []catalogTypes.ModelImportRequest{{
			Name:  "Corolla",
			Trims: []catalogTypes.TrimImportRequest{{Name: "GR", Year: 2023}},
		}},
	}}
	if rr := do(h, http.MethodPost, "/admin/catalog/import", admin, payload); rr.Code != http.StatusOK {
		t.Fatalf("Expected import status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr := do(h, http.MethodGet, "/makers", "", nil)
	var makers []catalogTypes.Maker
	if err := json.NewDecoder(rr.Body).Decode(&makers); err != nil {
		t.Fatalf("Failed to decode makers: %v", err)
	}
	if len(makers) != 1 || makers[0].Name != "Toyota" {
		t.Fatalf("Expected Toyota after import, got %+v", makers)
	}

	rr = do(h, http.MethodGet, "/models/Toyota/Corolla", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected model lookup status 200, got %d", rr.Code)
	}
}

func TestModelNamedModelsIsReachable(t *testing.T) {
	h := newTestRouter(t)
	admin := token(t, userTypes.RoleAdmin)

	payload := []catalogTypes.MakerImportRequest{{
		Name:   "Acme",
		Models: []catalogTypes.ModelImportRequest{{Name: "models"}},
	}}
	if rr := do(h, http.MethodPost, "/admin/catalog/import", admin, payload); rr.Code != http.StatusOK {
		t.Fatalf("Expected import status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr := do(h, http.MethodGet, "/models/Acme/models", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var model catalogTypes.Model
	if err := json.NewDecoder(rr.Body).Decode(&model); err != nil {
		t.Fatalf("Failed to decode model: %v", err)
	}
	if model.Name != "models" {
		t.Errorf("Expected model named models, got %q", model.Name)
	}
}

func TestSearchRejectsInvalidCoordinates(t *testing.T) {
	rr := do(newTestRouter(t), http.MethodGet, "/offers/search?lat=123&lng=10&radius=1000", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestUnknownMediaIsNotFound(t *testing.T) {
	rr := do(newTestRouter(t), http.MethodGet, "/media/8d2a4a2e-6a5e-4a59-9a1e-0d3f7f0c1a11", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSwaggerDocument(t *testing.T) {
	rr := do(newTestRouter(t), http.MethodGet, "/swagger/doc.json", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var doc map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("Swagger document is not JSON: %v", err)
	}
	if _, ok := doc["paths"]; !ok {
		t.Error("Expected paths in swagger document")
	}
}
