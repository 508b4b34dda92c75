package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"tabhome/internal/database"
	"tabhome/internal/models"
	"tabhome/internal/services"
	"tabhome/internal/storage"
)

type testEnv struct {
	app      *fiber.App
	store    *storage.Store
	notifier *services.SettingsNotifier
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	store := storage.New(db)
	notifier := services.NewSettingsNotifier()
	metrics := services.NewMetrics(prometheus.NewRegistry())
	conversations := services.NewConversationService(store)
	configService := services.NewConfigService(store, notifier)

	profileHandler := NewProfileHandler(store, notifier, metrics)
	stateHandler := NewStateHandler(store, metrics)
	conversationHandler := NewConversationHandler(conversations)
	configHandler := NewConfigHandler(configService, store)

	app := fiber.New()
	api := app.Group("/api")

	api.Get("/profile", profileHandler.Get)
	api.Put("/profile", profileHandler.Update)
	api.Get("/todos", stateHandler.GetTodos)
	api.Put("/todos", stateHandler.PutTodos)
	api.Get("/quick-links", stateHandler.GetQuickLinks)
	api.Put("/quick-links", stateHandler.PutQuickLinks)
	api.Get("/theme", stateHandler.GetTheme)
	api.Put("/theme", stateHandler.PutTheme)
	api.Get("/ai-configs", stateHandler.GetAIConfigs)
	api.Put("/ai-configs", stateHandler.PutAIConfigs)
	api.Get("/ai-configs/current", stateHandler.GetCurrentAIConfig)
	api.Put("/ai-configs/current", stateHandler.PutCurrentAIConfig)
	api.Get("/conversations/current", conversationHandler.GetCurrent)
	api.Put("/conversations/current", conversationHandler.SetCurrent)
	api.Delete("/conversations/current", conversationHandler.ClearCurrent)
	api.Get("/conversations", conversationHandler.List)
	api.Post("/conversations", conversationHandler.Create)
	api.Post("/conversations/import", conversationHandler.Import)
	api.Get("/conversations/:id", conversationHandler.Get)
	api.Delete("/conversations/:id", conversationHandler.Delete)
	api.Post("/conversations/:id/messages", conversationHandler.AddMessage)
	api.Put("/conversations/:id/last-message", conversationHandler.UpdateLastMessage)
	api.Post("/conversations/:id/pin", conversationHandler.TogglePin)
	api.Put("/conversations/:id/title", conversationHandler.UpdateTitle)
	api.Get("/conversations/:id/export", conversationHandler.Export)
	api.Get("/config/export", configHandler.Export)
	api.Post("/config/import", configHandler.Import)
	api.Post("/config/validate", configHandler.Validate)
	api.Post("/storage/clear", configHandler.Clear)

	return &testEnv{app: app, store: store, notifier: notifier}
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp.StatusCode, raw
}

func TestProfileDefaultsWhenEmpty(t *testing.T) {
	env := setupTestApp(t)

	status, body := env.doJSON(t, "GET", "/api/profile", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		t.Fatalf("Failed to parse profile: %v", err)
	}
	if profile.Nickname != "云螭" {
		t.Errorf("Expected default nickname, got %q", profile.Nickname)
	}
	if profile.ShowClock == nil || !*profile.ShowClock {
		t.Error("Absent visibility flags should default to true")
	}
	if profile.BackgroundMode != models.BackgroundModeAuto {
		t.Errorf("Expected auto background mode, got %q", profile.BackgroundMode)
	}
}

func TestProfileUpdateRoundtripAndBroadcast(t *testing.T) {
	env := setupTestApp(t)

	broadcasts := 0
	env.notifier.Subscribe(models.TopicProfileSettingsUpdated, func(topic string, payload interface{}) {
		broadcasts++
	})

	hide := false
	status, _ := env.doJSON(t, "PUT", "/api/profile", models.UserProfile{
		Nickname:    "alex",
		ShowWeather: &hide,
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if broadcasts != 1 {
		t.Errorf("Expected 1 broadcast, got %d", broadcasts)
	}

	status, body := env.doJSON(t, "GET", "/api/profile", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var profile models.UserProfile
	json.Unmarshal(body, &profile)
	if profile.Nickname != "alex" {
		t.Errorf("Expected updated nickname, got %q", profile.Nickname)
	}
	if profile.ShowWeather == nil || *profile.ShowWeather {
		t.Error("Explicit false must survive, not reset to the default true")
	}
	if profile.ShowClock == nil || !*profile.ShowClock {
		t.Error("Absent flags should be normalized to true on write")
	}
}

func TestProfileUpdateRejectsBadBackgroundMode(t *testing.T) {
	env := setupTestApp(t)

	status, _ := env.doJSON(t, "PUT", "/api/profile", map[string]string{
		"backgroundMode": "disco",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for unknown background mode, got %d", status)
	}
}

func TestTodosRoundtrip(t *testing.T) {
	env := setupTestApp(t)

	// Empty store serves an empty list, not null
	status, body := env.doJSON(t, "GET", "/api/todos", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("Expected empty array, got %s", body)
	}

	todos := []models.TodoItem{{ID: "1", Text: "water plants"}}
	if status, _ := env.doJSON(t, "PUT", "/api/todos", todos); status != fiber.StatusOK {
		t.Fatalf("Expected 200 on write, got %d", status)
	}

	_, body = env.doJSON(t, "GET", "/api/todos", nil)
	var got []models.TodoItem
	json.Unmarshal(body, &got)
	if len(got) != 1 || got[0].Text != "water plants" {
		t.Errorf("Roundtrip mangled todos: %+v", got)
	}
}

func TestQuickLinksDefaultList(t *testing.T) {
	env := setupTestApp(t)

	_, body := env.doJSON(t, "GET", "/api/quick-links", nil)
	var links []models.QuickLink
	if err := json.Unmarshal(body, &links); err != nil {
		t.Fatalf("Failed to parse quick links: %v", err)
	}
	if len(links) != 3 {
		t.Errorf("Expected 3 default links, got %d", len(links))
	}
}

func TestThemeRoundtrip(t *testing.T) {
	env := setupTestApp(t)

	if status, _ := env.doJSON(t, "PUT", "/api/theme", map[string]string{"theme": "dark"}); status != fiber.StatusOK {
		t.Fatal("Theme write should succeed")
	}

	_, body := env.doJSON(t, "GET", "/api/theme", nil)
	var got struct {
		Theme string `json:"theme"`
	}
	json.Unmarshal(body, &got)
	if got.Theme != "dark" {
		t.Errorf("Expected dark theme, got %q", got.Theme)
	}
}

func TestCurrentAIConfigToleratesDanglingID(t *testing.T) {
	env := setupTestApp(t)

	// No config with this id exists; the pointer is stored anyway
	status, _ := env.doJSON(t, "PUT", "/api/ai-configs/current", map[string]string{"id": "ghost"})
	if status != fiber.StatusOK {
		t.Fatalf("Dangling config id should be tolerated, got %d", status)
	}

	_, body := env.doJSON(t, "GET", "/api/ai-configs/current", nil)
	var got struct {
		ID string `json:"id"`
	}
	json.Unmarshal(body, &got)
	if got.ID != "ghost" {
		t.Errorf("Expected stored pointer, got %q", got.ID)
	}
}

func TestConversationCRUDOverHTTP(t *testing.T) {
	env := setupTestApp(t)

	// Create
	status, body := env.doJSON(t, "POST", "/api/conversations", map[string]string{"configId": "openai"})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	var conv models.Conversation
	json.Unmarshal(body, &conv)
	if conv.ID == "" || conv.Title != "New Conversation" {
		t.Fatalf("Unexpected created conversation: %+v", conv)
	}

	// Append the first user message; the title derives from it
	status, body = env.doJSON(t, "POST", "/api/conversations/"+conv.ID+"/messages", models.ChatMessage{
		ID: "m1", Role: models.RoleUser, Content: "test",
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	json.Unmarshal(body, &conv)
	if conv.Title != "test" {
		t.Errorf("Expected derived title, got %q", conv.Title)
	}

	// Stream the assistant reply
	env.doJSON(t, "POST", "/api/conversations/"+conv.ID+"/messages", models.ChatMessage{
		ID: "m2", Role: models.RoleAssistant, Content: "",
	})
	for _, chunk := range []string{"H", "He", "Hel"} {
		status, _ = env.doJSON(t, "PUT", "/api/conversations/"+conv.ID+"/last-message", map[string]string{"content": chunk})
		if status != fiber.StatusOK {
			t.Fatalf("Streamed update should succeed, got %d", status)
		}
	}

	// Export carries the final state
	status, body = env.doJSON(t, "GET", "/api/conversations/"+conv.ID+"/export", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on export, got %d", status)
	}
	var exported models.Conversation
	if err := json.Unmarshal(body, &exported); err != nil {
		t.Fatalf("Export should be a conversation document: %v", err)
	}
	if len(exported.Messages) != 2 || exported.Messages[1].Content != "Hel" {
		t.Errorf("Export should carry the streamed content: %+v", exported.Messages)
	}

	// Delete
	if status, _ := env.doJSON(t, "DELETE", "/api/conversations/"+conv.ID, nil); status != fiber.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", status)
	}
	if status, _ := env.doJSON(t, "GET", "/api/conversations/"+conv.ID, nil); status != fiber.StatusNotFound {
		t.Errorf("Deleted conversation should 404, got %d", status)
	}
}

func TestConversationMessageRoleValidated(t *testing.T) {
	env := setupTestApp(t)

	_, body := env.doJSON(t, "POST", "/api/conversations", nil)
	var conv models.Conversation
	json.Unmarshal(body, &conv)

	status, _ := env.doJSON(t, "POST", "/api/conversations/"+conv.ID+"/messages", models.ChatMessage{
		ID: "m1", Role: "narrator", Content: "once upon a time",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Unknown role should be rejected, got %d", status)
	}
}

func TestCurrentConversationPointer(t *testing.T) {
	env := setupTestApp(t)

	_, body := env.doJSON(t, "POST", "/api/conversations", nil)
	var conv models.Conversation
	json.Unmarshal(body, &conv)

	// Pointing at an unknown conversation is rejected
	if status, _ := env.doJSON(t, "PUT", "/api/conversations/current", map[string]string{"id": "ghost"}); status != fiber.StatusNotFound {
		t.Errorf("Unknown id should 404, got %d", status)
	}

	if status, _ := env.doJSON(t, "PUT", "/api/conversations/current", map[string]string{"id": conv.ID}); status != fiber.StatusOK {
		t.Fatal("Setting the pointer should succeed")
	}

	_, body = env.doJSON(t, "GET", "/api/conversations/current", nil)
	var got struct {
		ID string `json:"id"`
	}
	json.Unmarshal(body, &got)
	if got.ID != conv.ID {
		t.Errorf("Expected pointer %s, got %s", conv.ID, got.ID)
	}

	// Deleting the current conversation clears the pointer
	env.doJSON(t, "DELETE", "/api/conversations/"+conv.ID, nil)
	_, body = env.doJSON(t, "GET", "/api/conversations/current", nil)
	json.Unmarshal(body, &got)
	if got.ID != "" {
		t.Errorf("Pointer should be cleared after delete, got %q", got.ID)
	}
}

func TestConversationImportMintsNewID(t *testing.T) {
	env := setupTestApp(t)

	_, body := env.doJSON(t, "POST", "/api/conversations", map[string]string{"title": "imported"})
	var conv models.Conversation
	json.Unmarshal(body, &conv)

	_, exported := env.doJSON(t, "GET", "/api/conversations/"+conv.ID+"/export", nil)

	req := httptest.NewRequest("POST", "/api/conversations/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Import request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var imported models.Conversation
	json.Unmarshal(raw, &imported)
	if imported.ID == conv.ID {
		t.Error("Imported conversation must get a fresh id")
	}
	if imported.Title != "imported" {
		t.Errorf("Title should survive import, got %q", imported.Title)
	}
}

func TestConfigExportImportOverHTTP(t *testing.T) {
	env := setupTestApp(t)

	env.doJSON(t, "PUT", "/api/theme", map[string]string{"theme": "dark"})

	status, exported := env.doJSON(t, "GET", "/api/config/export", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on export, got %d", status)
	}

	// Wipe everything, then restore
	if status, _ := env.doJSON(t, "POST", "/api/storage/clear", nil); status != fiber.StatusOK {
		t.Fatal("Clear should succeed")
	}
	_, body := env.doJSON(t, "GET", "/api/theme", nil)
	var theme struct {
		Theme string `json:"theme"`
	}
	json.Unmarshal(body, &theme)
	if theme.Theme != "" {
		t.Fatalf("Theme should be gone after clear, got %q", theme.Theme)
	}

	req := httptest.NewRequest("POST", "/api/config/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Import request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 on import, got %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Reload  bool `json:"reload"`
	}
	raw, _ := io.ReadAll(resp.Body)
	json.Unmarshal(raw, &result)
	if !result.Success || !result.Reload {
		t.Errorf("Import should report success and request a reload: %+v", result)
	}

	_, body = env.doJSON(t, "GET", "/api/theme", nil)
	json.Unmarshal(body, &theme)
	if theme.Theme != "dark" {
		t.Errorf("Theme should be restored, got %q", theme.Theme)
	}
}

func TestConfigImportRejectsMissingVersion(t *testing.T) {
	env := setupTestApp(t)

	status, _ := env.doJSON(t, "POST", "/api/config/import", map[string]string{"theme": "dark"})
	if status != fiber.StatusBadRequest {
		t.Errorf("Import without version should 400, got %d", status)
	}
}

func TestConfigValidateEndpoint(t *testing.T) {
	env := setupTestApp(t)

	status, body := env.doJSON(t, "POST", "/api/config/validate", map[string]string{"version": "1.0.0"})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	var result models.ValidationResult
	json.Unmarshal(body, &result)
	if !result.Valid || result.Version != "1.0.0" {
		t.Errorf("Expected valid result echoing the version, got %+v", result)
	}
}
