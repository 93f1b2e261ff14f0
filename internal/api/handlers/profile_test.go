package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"selvaquiz/internal/authapi"
	"selvaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func profileRouter(h *Handler, user *authapi.User) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, user)
	})
	router.GET("/api/user/profile", h.HandleGetProfile)
	router.POST("/api/user/profile", h.HandleSaveProfile)
	router.POST("/api/user/plan", h.HandleUpgradePlan)
	return router
}

func TestGetProfileCreatesOnFirstSight(t *testing.T) {
	user := &authapi.User{ID: uuid.New(), Email: "ana@example.com"}
	user.Metadata.Name = "Ana"
	store := &fakeStore{}

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	w := performRequest(profileRouter(&Handler{Store: store}, user), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
	}

	var profile models.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.ID != user.ID {
		t.Errorf("profile id = %s, want %s", profile.ID, user.ID)
	}
	if profile.Name != "Ana" || profile.Email != "ana@example.com" {
		t.Errorf("profile identity = %q/%q", profile.Name, profile.Email)
	}
	if profile.PlanType != models.PlanFree {
		t.Errorf("plan = %q, want free", profile.PlanType)
	}
}

func TestGetProfileReturnsExisting(t *testing.T) {
	user := &authapi.User{ID: uuid.New()}
	store := &fakeStore{profile: models.UserProfile{
		ID: user.ID, Name: "Ana", StudentType: "vestibular", PlanType: models.PlanMonthly,
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	w := performRequest(profileRouter(&Handler{Store: store}, user), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.StudentType != "vestibular" || profile.PlanType != models.PlanMonthly {
		t.Errorf("got %+v", profile)
	}
}

func TestSaveProfileRequiresStudentType(t *testing.T) {
	user := &authapi.User{ID: uuid.New()}
	router := profileRouter(&Handler{Store: &fakeStore{}}, user)

	req := httptest.NewRequest(http.MethodPost, "/api/user/profile", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(router, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSaveProfileUpdatesStudentType(t *testing.T) {
	user := &authapi.User{ID: uuid.New()}
	store := &fakeStore{}
	router := profileRouter(&Handler{Store: store}, user)

	req := httptest.NewRequest(http.MethodPost, "/api/user/profile", bytes.NewBufferString(`{"student_type":"concurso"}`))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(router, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
	}

	var profile models.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.StudentType != "concurso" {
		t.Errorf("student type = %q", profile.StudentType)
	}
}

func TestUpgradePlanValidatesTier(t *testing.T) {
	user := &authapi.User{ID: uuid.New()}
	router := profileRouter(&Handler{Store: &fakeStore{}}, user)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"monthly", `{"plan_type":"monthly"}`, http.StatusOK},
		{"annual", `{"plan_type":"annual"}`, http.StatusOK},
		{"free not upgradable", `{"plan_type":"free"}`, http.StatusBadRequest},
		{"unknown tier", `{"plan_type":"lifetime"}`, http.StatusBadRequest},
		{"missing", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/user/plan", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := performRequest(router, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
