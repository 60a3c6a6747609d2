package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/consultapp/internal/config"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	"github.com/BruksfildServices01/consultapp/internal/models"
	"github.com/BruksfildServices01/consultapp/internal/testutil"
)

func TestRoutesEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	db.Model(&models.User{}).Where("id = ?", f.User.ID).Update("password_hash", string(hash))

	cfg := &config.Config{
		JWTSecret:         "routes-secret",
		DefaultTimezone:   "America/Sao_Paulo",
		DashboardCacheTTL: time.Minute,
	}

	r := gin.New()
	RegisterRoutes(r, Deps{DB: db, Config: cfg, Cache: cache.NewMemoryStore()})

	call := func(method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		if body == nil {
			body = &bytes.Buffer{}
		}
		req := httptest.NewRequest(method, path, body)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := call(http.MethodGet, "/api/me", "", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("secured route without token: %d", w.Code)
	}

	login, _ := json.Marshal(map[string]string{"email": f.User.Email, "password": "segredo123"})
	w := call(http.MethodPost, "/api/auth/login", "", bytes.NewBuffer(login), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var session struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &session)

	t.Run("lookups are business scoped", func(t *testing.T) {
		w := call(http.MethodGet, "/api/me/payment-methods", session.Token, nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("payment methods: %d %s", w.Code, w.Body.String())
		}
		var methods []models.PaymentMethod
		_ = json.Unmarshal(w.Body.Bytes(), &methods)
		if len(methods) != 1 || methods[0].ID != f.Method.ID {
			t.Errorf("unexpected methods %+v", methods)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		w := call(http.MethodGet, "/api/me/dashboard", session.Token, nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("payment refreshes cached dashboard", func(t *testing.T) {
		revenue := func() decimal.Decimal {
			w := call(http.MethodGet, "/api/me/dashboard", session.Token, nil, "")
			if w.Code != http.StatusOK {
				t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
			}
			var out struct {
				Revenue decimal.Decimal `json:"faturamento_mes"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			return out.Revenue
		}

		before := revenue()

		enc := f.Encounter(t, db, time.Now().Add(-2*time.Hour))
		body, _ := json.Marshal(map[string]any{
			"atendimento_id":     enc.ID,
			"forma_pagamento_id": f.Method.ID,
			"valor":              "40.00",
		})
		w := call(http.MethodPost, "/api/me/payments", session.Token, bytes.NewBuffer(body), "application/json")
		if w.Code != http.StatusCreated {
			t.Fatalf("payment: %d %s", w.Code, w.Body.String())
		}

		if after := revenue(); !after.Equal(before.Add(decimal.NewFromInt(40))) {
			t.Errorf("expected revenue %s after payment, got %s", before.Add(decimal.NewFromInt(40)), after)
		}
	})

	t.Run("photo upload without storage", func(t *testing.T) {
		enc := f.Encounter(t, db, time.Now().Add(-time.Hour))

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, _ := mw.CreateFormFile("photo", "foto.jpg")
		_, _ = part.Write([]byte("not really an image"))
		_ = mw.Close()

		path := "/api/me/encounters/" + strconv.FormatUint(uint64(enc.ID), 10) + "/photos"
		w := call(http.MethodPost, path, session.Token, &body, mw.FormDataContentType())
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("pix without gateway", func(t *testing.T) {
		w := call(http.MethodPost, "/api/me/payments/1/pix", session.Token, nil, "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d %s", w.Code, w.Body.String())
		}
	})

	if w := call(http.MethodPost, "/api/auth/logout", session.Token, nil, ""); w.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", w.Code)
	}
	if w := call(http.MethodGet, "/api/me", session.Token, nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("token still valid after logout: %d", w.Code)
	}
}
