package users

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cssvc "egdc-backend/internal/application/casestudies"
	"egdc-backend/internal/domain"
	"egdc-backend/internal/infrastructure/database"
	"egdc-backend/internal/middleware"
)

func setupUsersApp(t *testing.T) (*fiber.App, *gorm.DB, uint) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	owner := domain.User{Email: "owner@example.com", HashedPassword: "x", Role: "data_owner"}
	other := domain.User{Email: "other@example.com", HashedPassword: "x", Role: "data_owner"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	mine := domain.CaseStudy{Title: "My draft", ShortDescription: "Mine", Status: domain.StatusDraft, CreatedDate: domain.Today(), CreatedBy: &owner.ID}
	published := domain.CaseStudy{Title: "My published", ShortDescription: "Mine too", Status: domain.StatusPublished, CreatedDate: domain.Today(), CreatedBy: &owner.ID}
	foreign := domain.CaseStudy{Title: "Not mine", ShortDescription: "Other", Status: domain.StatusPublished, CreatedDate: domain.Today(), CreatedBy: &other.ID}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&foreign).Error)

	h := &Handlers{CaseStudies: &cssvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/api/v1/users/me/case-studies", func(c *fiber.Ctx) error {
		c.Locals("user", &middleware.AuthUser{ID: owner.ID, Role: "data_owner"})
		return h.MyCaseStudies(c)
	})
	app.Get("/anonymous/case-studies", h.MyCaseStudies)
	return app, db, owner.ID
}

func TestMyCaseStudies_OwnRecordsAnyStatus(t *testing.T) {
	app, _, _ := setupUsersApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/users/me/case-studies", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, float64(2), out["total"])

	items := out["items"].([]interface{})
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.(map[string]interface{})["title"].(string))
	}
	assert.ElementsMatch(t, []string{"My draft", "My published"}, titles)
}

func TestMyCaseStudies_RequiresAuth(t *testing.T) {
	app, _, _ := setupUsersApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/anonymous/case-studies", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
