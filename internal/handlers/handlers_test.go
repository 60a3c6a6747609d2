package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/consultapp/internal/config"
	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	"github.com/BruksfildServices01/consultapp/internal/infra/repository"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/testutil"
	"github.com/BruksfildServices01/consultapp/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/consultapp/internal/usecase/appointment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asOwner stands in for AuthMiddleware.
func asOwner(f *testutil.Fixture) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, f.User.ID)
		c.Set(middleware.ContextBusinessID, f.Business.ID)
		c.Set(middleware.ContextUserRole, "owner")
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Code
}

// ======================================================
// AUTH
// ======================================================

// anyDomain resolves every domain to one MX record.
type anyDomain struct{}

func (anyDomain) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	return []*net.MX{{Host: "mx." + name}}, nil
}

func (anyDomain) LookupHost(context.Context, string) ([]string, error) {
	return nil, nil
}

func newAuthRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *AuthHandler, *cache.MemoryStore) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", DefaultTimezone: "America/Sao_Paulo"}
	store := cache.NewMemoryStore()

	h := NewAuthHandler(db, cfg, store, anyDomain{})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg, store))
	secured.POST("/auth/logout", h.Logout)
	secured.GET("/me", NewMeHandler(db).GetMe)

	return r, h, store
}

func TestRegisterCreatesBusinessAndLookups(t *testing.T) {
	db := testutil.NewDB(t)
	r, _, _ := newAuthRouter(t, db)

	body := gin.H{
		"business_name": "Clínica Aurora",
		"business_slug": " Aurora ",
		"name":          "Marina",
		"email":         "Marina@Aurora.com.br",
		"password":      "segredo123",
	}

	w := doJSON(t, r, http.MethodPost, "/auth/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		Token    string `json:"token"`
		Business struct {
			ID       uint   `json:"id"`
			Slug     string `json:"slug"`
			Timezone string `json:"timezone"`
		} `json:"business"`
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Token == "" {
		t.Error("expected a token")
	}
	if out.Business.Slug != "aurora" || out.Business.Timezone != "America/Sao_Paulo" {
		t.Errorf("unexpected business %+v", out.Business)
	}
	if out.User.Email != "marina@aurora.com.br" {
		t.Errorf("email should be normalised, got %s", out.User.Email)
	}

	var methods, categories, origins int64
	db.Model(&models.PaymentMethod{}).Where("business_id = ?", out.Business.ID).Count(&methods)
	db.Model(&models.Category{}).Where("business_id = ?", out.Business.ID).Count(&categories)
	db.Model(&models.Origin{}).Where("business_id = ?", out.Business.ID).Count(&origins)
	if methods != 4 || categories != 2 || origins != 3 {
		t.Errorf("lookups not seeded: %d methods, %d categories, %d origins", methods, categories, origins)
	}

	t.Run("slug taken", func(t *testing.T) {
		body["email"] = "outra@aurora.com.br"
		w := doJSON(t, r, http.MethodPost, "/auth/register", body)
		if w.Code != http.StatusConflict || errorCode(t, w) != "slug_already_exists" {
			t.Fatalf("expected slug conflict, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("email taken rolls back the business", func(t *testing.T) {
		body["business_slug"] = "aurora-2"
		body["email"] = "marina@aurora.com.br"
		w := doJSON(t, r, http.MethodPost, "/auth/register", body)
		if w.Code != http.StatusConflict || errorCode(t, w) != "email_already_exists" {
			t.Fatalf("expected email conflict, got %d: %s", w.Code, w.Body.String())
		}

		var count int64
		db.Model(&models.Business{}).Where("slug = ?", "aurora-2").Count(&count)
		if count != 0 {
			t.Error("business should not survive a failed registration")
		}
	})
}

type noDomain struct{}

func (noDomain) LookupMX(context.Context, string) ([]*net.MX, error) {
	return nil, &net.DNSError{Err: "no such host", IsNotFound: true}
}

func (noDomain) LookupHost(context.Context, string) ([]string, error) {
	return nil, &net.DNSError{Err: "no such host", IsNotFound: true}
}

func TestRegisterRejectsUnresolvableDomain(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", DefaultTimezone: "America/Sao_Paulo"}
	h := NewAuthHandler(db, cfg, cache.NewMemoryStore(), noDomain{})

	r := gin.New()
	r.POST("/auth/register", h.Register)

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"business_name": "Clínica Boreal",
		"business_slug": "boreal",
		"name":          "Rui",
		"email":         "rui@boreal-inexistente.com",
		"password":      "segredo123",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_email_domain" {
		t.Fatalf("expected invalid_email_domain, got %d: %s", w.Code, w.Body.String())
	}

	var businesses int64
	db.Model(&models.Business{}).Count(&businesses)
	if businesses != 0 {
		t.Errorf("no business should be created, found %d", businesses)
	}
}

func TestLoginLogoutRevokesToken(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	r, _, _ := newAuthRouter(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	db.Model(&models.User{}).Where("id = ?", f.User.ID).Update("password_hash", string(hash))

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": f.User.Email, "password": "errada"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": f.User.Email, "password": "segredo123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	bearer := "Bearer " + out.Token

	if w := doJSON(t, r, http.MethodGet, "/me", nil, "Authorization", bearer); w.Code != http.StatusOK {
		t.Fatalf("expected /me to work with a fresh token, got %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPost, "/auth/logout", nil, "Authorization", bearer); w.Code != http.StatusNoContent {
		t.Fatalf("logout failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/me", nil, "Authorization", bearer)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: %d", w.Code)
	}
	var rejected map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &rejected)
	if rejected["error"] != "token_revoked" {
		t.Errorf("expected token_revoked, got %v", rejected)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	db := testutil.NewDB(t)
	r, _, _ := newAuthRouter(t, db)

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + s
	}
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "missing_authorization_header"},
		{"not bearer", "Basic abc", "invalid_authorization_header"},
		{"wrong secret", sign("other", jwt.MapClaims{"sub": 1, "businessId": 1, "jti": "a", "exp": exp}), "invalid_token"},
		{"expired", sign("test-secret", jwt.MapClaims{"sub": 1, "businessId": 1, "jti": "a", "exp": time.Now().Add(-time.Hour).Unix()}), "invalid_token"},
		{"no jti", sign("test-secret", jwt.MapClaims{"sub": 1, "businessId": 1, "exp": exp}), "invalid_token_payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tc.header == "" {
				w = doJSON(t, r, http.MethodGet, "/me", nil)
			} else {
				w = doJSON(t, r, http.MethodGet, "/me", nil, "Authorization", tc.header)
			}
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["error"] != tc.code {
				t.Errorf("expected %s, got %v", tc.code, body)
			}
		})
	}
}

// ======================================================
// CLIENTS
// ======================================================

func TestClientCRUDSoftDelete(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	h := NewClientHandler(db, nil, nil)
	r := gin.New()
	r.Use(asOwner(f))
	r.GET("/clients", h.List)
	r.POST("/clients", h.Create)
	r.GET("/clients/:id", h.Get)
	r.PATCH("/clients/:id", h.Update)
	r.DELETE("/clients/:id", h.Delete)

	w := doJSON(t, r, http.MethodPost, "/clients", gin.H{"nome": "Bruno Alves", "telefone": "11988887777", "estado": "sp"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created models.Client
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if !created.Active || created.State != "SP" || created.BusinessID != f.Business.ID {
		t.Errorf("unexpected client %+v", created)
	}

	if w := doJSON(t, r, http.MethodPost, "/clients", gin.H{"telefone": "1"}); w.Code != http.StatusBadRequest {
		t.Errorf("client without name should be rejected, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/clients", gin.H{"nome": "X", "categoria_id": 9999}); w.Code != http.StatusBadRequest || errorCode(t, w) != "category_not_found" {
		t.Errorf("unknown category should be rejected, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/clients?query=bruno", nil)
	var found []models.Client
	_ = json.Unmarshal(w.Body.Bytes(), &found)
	if len(found) != 1 || found[0].ID != created.ID {
		t.Fatalf("search should find the new client, got %+v", found)
	}

	path := "/clients/" + itoa(created.ID)
	if w := doJSON(t, r, http.MethodPatch, path, gin.H{"email": "BRUNO@exemplo.com"}); w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodDelete, path, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}

	// row survives, hidden from the default listing
	var stored models.Client
	if err := db.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("soft delete removed the row: %v", err)
	}
	if stored.Active || stored.Email != "bruno@exemplo.com" {
		t.Errorf("unexpected stored client %+v", stored)
	}

	w = doJSON(t, r, http.MethodGet, "/clients", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &found)
	for _, c := range found {
		if c.ID == created.ID {
			t.Error("inactive client listed by default")
		}
	}

	w = doJSON(t, r, http.MethodGet, "/clients?active=false", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &found)
	if len(found) != 1 || found[0].ID != created.ID {
		t.Errorf("active=false should list the deactivated client, got %+v", found)
	}

	t.Run("other business", func(t *testing.T) {
		other := testutil.Seed(t, db)
		w := doJSON(t, r, http.MethodGet, "/clients/"+itoa(other.Client.ID), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 across businesses, got %d", w.Code)
		}
	})
}

// ======================================================
// APPOINTMENTS
// ======================================================

func TestAppointmentHandlerMapsBusinessErrors(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	repo := repository.NewAppointmentGormRepository(db)
	h := NewAppointmentHandler(db, AppointmentUseCases{
		Create:  ucAppointment.NewCreateAppointment(repo, nil),
		Confirm: ucAppointment.NewConfirmAppointment(repo, nil),
		ByDate:  ucAppointment.NewListAppointmentsByDate(repo),
	})

	r := gin.New()
	r.Use(asOwner(f))
	r.POST("/appointments", h.Create)
	r.GET("/appointments", h.ListByDate)
	r.PATCH("/appointments/:id/confirm", h.Confirm)

	day := timezone.NowIn(f.Business.Timezone).AddDate(0, 0, 3).Format("2006-01-02")
	req := gin.H{
		"cliente_id":   f.Client.ID,
		"consultor_id": f.Consultant.ID,
		"servico_id":   f.Service.ID,
		"date":         day,
		"time":         "10:00",
	}

	w := doJSON(t, r, http.MethodPost, "/appointments", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var ap models.Appointment
	_ = json.Unmarshal(w.Body.Bytes(), &ap)
	if ap.Status != "scheduled" || !ap.CommissionAmount.Equal(decimal.RequireFromString("22.50")) {
		t.Errorf("unexpected appointment %+v", ap)
	}

	req["time"] = "10:30"
	w = doJSON(t, r, http.MethodPost, "/appointments", req)
	if w.Code != http.StatusConflict || errorCode(t, w) != "time_conflict" {
		t.Fatalf("expected time_conflict 409, got %d %s", w.Code, w.Body.String())
	}

	req["time"] = "25:00"
	w = doJSON(t, r, http.MethodPost, "/appointments", req)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_input" {
		t.Fatalf("expected invalid_input 400, got %d %s", w.Code, w.Body.String())
	}

	path := "/appointments/" + itoa(ap.ID) + "/confirm"
	if w := doJSON(t, r, http.MethodPatch, path, nil); w.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPatch, path, nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "invalid_transition" {
		t.Fatalf("second confirm should be invalid_transition, got %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPatch, "/appointments/abc/confirm", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non numeric id should be 400, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/appointments?date="+day, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var items []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Errorf("expected one appointment on %s, got %d", day, len(items))
	}
}

// ======================================================
// WORKING HOURS
// ======================================================

func TestWorkingHoursReplaceWeek(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	h := NewWorkingHoursHandler(db)
	r := gin.New()
	r.Use(asOwner(f))
	r.GET("/consultants/:id/working-hours", h.Get)
	r.PUT("/consultants/:id/working-hours", h.Update)

	path := "/consultants/" + itoa(f.Consultant.ID) + "/working-hours"

	bad := gin.H{"days": []gin.H{{"weekday": 1, "active": true, "start_time": "18:00", "end_time": "08:00"}}}
	if w := doJSON(t, r, http.MethodPut, path, bad); w.Code != http.StatusBadRequest {
		t.Fatalf("inverted window should be rejected, got %d", w.Code)
	}

	week := gin.H{"days": []gin.H{
		{"weekday": 1, "active": true, "start_time": "08:00", "end_time": "18:00", "lunch_start": "12:00", "lunch_end": "13:00"},
		{"weekday": 2, "active": false},
	}}
	if w := doJSON(t, r, http.MethodPut, path, week); w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	// second PUT replaces instead of appending
	if w := doJSON(t, r, http.MethodPut, path, week); w.Code != http.StatusOK {
		t.Fatalf("update again: %d", w.Code)
	}

	var count int64
	db.Model(&models.WorkingHours{}).Where("consultant_id = ?", f.Consultant.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 rows after replace, got %d", count)
	}

	other := testutil.Seed(t, db)
	if w := doJSON(t, r, http.MethodGet, "/consultants/"+itoa(other.Consultant.ID)+"/working-hours", nil); w.Code != http.StatusNotFound {
		t.Errorf("foreign consultant should be 404, got %d", w.Code)
	}
}

// ======================================================
// AUDIT LOGS
// ======================================================

func TestAuditLogsArePagedPerBusiness(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	other := testutil.Seed(t, db)

	for i := 0; i < 3; i++ {
		db.Create(&models.AuditLog{BusinessID: f.Business.ID, Action: "appointment_created", Entity: "appointment"})
	}
	db.Create(&models.AuditLog{BusinessID: other.Business.ID, Action: "appointment_created", Entity: "appointment"})

	r := gin.New()
	r.Use(asOwner(f))
	r.GET("/audit-logs", NewAuditLogsHandler(db).List)

	w := doJSON(t, r, http.MethodGet, "/audit-logs?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	var page struct {
		Data  []models.AuditLog `json:"data"`
		Total int64             `json:"total"`
		Limit int               `json:"limit"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 3 || len(page.Data) != 2 || page.Limit != 2 {
		t.Errorf("unexpected page total=%d len=%d limit=%d", page.Total, len(page.Data), page.Limit)
	}
}

// ------------------------------------------------------

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
