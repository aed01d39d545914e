package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/handlers"
	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/middleware"
	"github.com/yungbote/herbolario-backend/internal/repos"
	"github.com/yungbote/herbolario-backend/internal/server"
	"github.com/yungbote/herbolario-backend/internal/services"
	"github.com/yungbote/herbolario-backend/internal/types"
)

const testAdminPassword = "hierbas123"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&types.Plant{},
		&types.Benefit{},
		&types.UsageMethod{},
		&types.ScientificBacking{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	plantService := services.NewPlantService(
		gdb,
		log,
		repos.NewPlantRepo(gdb, log),
		repos.NewBenefitRepo(gdb, log),
		repos.NewUsageMethodRepo(gdb, log),
		repos.NewScientificBackingRepo(gdb, log),
	)
	authService := services.NewAuthService(log, testAdminPassword, "testsecret", time.Hour)

	return server.NewRouter(server.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(log, authService),
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
		PlantHandler:   handlers.NewPlantHandler(log, plantService, nil),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{"password": testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func plantBody() map[string]interface{} {
	return map[string]interface{}{
		"slug":            "una-de-gato",
		"common_name":     "Uña de Gato",
		"scientific_name": "Uncaria tomentosa",
		"description":     "Planta trepadora inmunomoduladora",
		"evidence_level":  "alta",
		"benefits": []map[string]string{
			{"description": "Inmunidad", "category": "Inmunológico"},
			{"description": "Artritis", "category": "Musculoesquelético"},
		},
		"usage_methods": []map[string]string{
			{"description": "Decocción de corteza", "category": "Corteza"},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthcheck", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/admin/plants", "", plantBody())
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/admin/plants", "garbage-token", plantBody())
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d with bad token, want 401", w.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{"password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestPlantCRUDOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := adminToken(t, router)

	// Create
	w := doJSON(t, router, http.MethodPost, "/api/admin/plants", token, plantBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	// Duplicate slug
	w = doJSON(t, router, http.MethodPost, "/api/admin/plants", token, plantBody())
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate create status=%d, want 409", w.Code)
	}

	// Public read
	w = doJSON(t, router, http.MethodGet, "/api/plants/una-de-gato", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get by slug status=%d", w.Code)
	}
	var got struct {
		Plant types.Plant `json:"plant"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode plant: %v", err)
	}
	if got.Plant.CommonName != "Uña de Gato" || len(got.Plant.Benefits) != 2 {
		t.Fatalf("unexpected plant payload: %+v", got.Plant)
	}

	w = doJSON(t, router, http.MethodGet, "/api/plants/no-existe", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing slug status=%d, want 404", w.Code)
	}

	// Update with replaced benefits
	body := plantBody()
	body["benefits"] = []map[string]string{{"description": "Digestivo", "category": "Digestivo"}}
	w = doJSON(t, router, http.MethodPut, "/api/admin/plants/"+created.ID.String(), token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode updated plant: %v", err)
	}
	if len(got.Plant.Benefits) != 1 || got.Plant.Benefits[0].Description != "Digestivo" {
		t.Fatalf("benefits not replaced: %+v", got.Plant.Benefits)
	}

	// Validation failure
	bad := plantBody()
	bad["common_name"] = " "
	bad["slug"] = "otra"
	w = doJSON(t, router, http.MethodPost, "/api/admin/plants", token, bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create status=%d, want 400", w.Code)
	}

	// Delete, then delete again
	w = doJSON(t, router, http.MethodDelete, "/api/admin/plants/"+created.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status=%d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/api/admin/plants/"+created.ID.String(), token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := adminToken(t, router)

	plants := []map[string]interface{}{
		plantBody(),
		{
			"common_name": "Boldo",
			"benefits":    []map[string]string{{"description": "Apoya la digestión", "category": "Digestivo"}},
			"usage_methods": []map[string]string{
				{"description": "Infusión de hojas", "category": "Hojas"},
			},
		},
		{
			"common_name": "Copaiba",
			"benefits":    []map[string]string{{"description": "Antiinflamatorio", "category": "Musculoesquelético"}},
		},
	}
	for _, p := range plants {
		w := doJSON(t, router, http.MethodPost, "/api/admin/plants", token, p)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed create status=%d body=%s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/search?ailment=digestivo", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search status=%d", w.Code)
	}
	var resp struct {
		Plants     []types.Plant `json:"plants"`
		Total      int           `json:"total"`
		Page       int           `json:"page"`
		TotalPages int           `json:"total_pages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if resp.Total != 1 || len(resp.Plants) != 1 || resp.Plants[0].CommonName != "Boldo" {
		t.Fatalf("ailment search returned %+v", resp)
	}

	// Pagination over the unfiltered set.
	w = doJSON(t, router, http.MethodGet, "/api/search?page=2&page_size=2", "", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode paged response: %v", err)
	}
	if resp.Total != 3 || resp.TotalPages != 2 || len(resp.Plants) != 1 {
		t.Fatalf("page 2: total=%d pages=%d items=%d", resp.Total, resp.TotalPages, len(resp.Plants))
	}

	// Categories aggregate over the whole catalog.
	w = doJSON(t, router, http.MethodGet, "/api/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("categories status=%d", w.Code)
	}
	var cats struct {
		Ailments []string `json:"ailments"`
		Parts    []string `json:"parts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats.Ailments) != 3 {
		t.Fatalf("ailments=%v, want 3 distinct", cats.Ailments)
	}
	if len(cats.Parts) != 2 {
		t.Fatalf("parts=%v, want 2 distinct", cats.Parts)
	}
}
