package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/plugin"
	"github.com/merchantkit/payment-stripe/internal/settings"
	"github.com/merchantkit/payment-stripe/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test Helpers ---

type configHandlerDeps struct {
	controller  *ConfigController
	settingRepo *testutil.MockSettingRepository
	localeRepo  *testutil.MockLocaleRepository
	cache       *testutil.MemoryCache
}

func setupConfigHandler(t *testing.T) configHandlerDeps {
	t.Helper()

	settingRepo := testutil.NewMockSettingRepository()
	localeRepo := testutil.NewMockLocaleRepository()
	cache := testutil.NewMemoryCache()
	settingsService := settings.NewService(settingRepo, cache, nil, zerolog.Nop())
	localeService := localization.NewService(localeRepo, zerolog.Nop())
	p := plugin.New(settingsService, localeService, zerolog.Nop())

	return configHandlerDeps{
		controller:  NewConfigController(settingsService, p, localeService, zerolog.Nop()),
		settingRepo: settingRepo,
		localeRepo:  localeRepo,
		cache:       cache,
	}
}

func configBody(t *testing.T, model ConfigurationModel) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(model)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// --- Configure (GET) Tests ---

func TestConfigureHandler_GlobalScope(t *testing.T) {
	deps := setupConfigHandler(t)
	ctx := context.Background()
	require.NoError(t, deps.settingRepo.Upsert(ctx, settings.NameTransactMode, "authorize", settings.GlobalScope))
	require.NoError(t, deps.settingRepo.Upsert(ctx, settings.NameAPIKey, "sk_global", settings.GlobalScope))

	req := httptest.NewRequest(http.MethodGet, "/admin/config", nil)
	rec := httptest.NewRecorder()
	deps.controller.Configure(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConfigureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "authorize", resp.Configuration.TransactMode)
	assert.Equal(t, "sk_global", resp.Configuration.APIKey)
	assert.Equal(t, int64(0), resp.Configuration.ActiveStoreScope)
	assert.False(t, resp.Configuration.APIKeyOverride)
	assert.NotEmpty(t, resp.AntiForgeryToken)

	// The token is also issued as a cookie for the double-submit check.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resp.AntiForgeryToken, cookies[0].Value)
}

func TestConfigureHandler_StoreScopeShowsOverrides(t *testing.T) {
	deps := setupConfigHandler(t)
	ctx := context.Background()
	require.NoError(t, deps.settingRepo.Upsert(ctx, settings.NameAPIKey, "sk_global", settings.GlobalScope))
	require.NoError(t, deps.settingRepo.Upsert(ctx, settings.NameAPIKey, "sk_store2", 2))

	req := httptest.NewRequest(http.MethodGet, "/admin/config?store_id=2", nil)
	rec := httptest.NewRecorder()
	deps.controller.Configure(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConfigureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sk_store2", resp.Configuration.APIKey)
	assert.Equal(t, int64(2), resp.Configuration.ActiveStoreScope)
	assert.True(t, resp.Configuration.APIKeyOverride)
	assert.False(t, resp.Configuration.TransactModeOverride)
}

func TestConfigureHandler_BadStoreID(t *testing.T) {
	deps := setupConfigHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/config?store_id=-1", nil)
	rec := httptest.NewRecorder()
	deps.controller.Configure(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- ConfigureSave (POST) Tests ---

func TestConfigureSaveHandler_ForcesAuthorizeMode(t *testing.T) {
	deps := setupConfigHandler(t)

	model := ConfigurationModel{
		TransactMode:  "authorize_and_capture",
		APIKey:        "sk_live",
		AdditionalFee: decimalFromString(t, "2.5"),
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/config", configBody(t, model))
	rec := httptest.NewRecorder()
	deps.controller.ConfigureSave(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	mode, ok := deps.settingRepo.Row(settings.NameTransactMode, settings.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, "authorize", mode)
}

func TestConfigureSaveHandler_ClearsCacheOnce(t *testing.T) {
	deps := setupConfigHandler(t)

	model := ConfigurationModel{TransactMode: "authorize", APIKey: "sk_live"}
	req := httptest.NewRequest(http.MethodPost, "/admin/config", configBody(t, model))
	rec := httptest.NewRecorder()
	deps.controller.ConfigureSave(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, deps.cache.ClearCalls)
	assert.Equal(t, len(settings.AllNames), deps.settingRepo.UpsertCalls)
}

func TestConfigureSaveHandler_StoreScopeOverrides(t *testing.T) {
	deps := setupConfigHandler(t)
	ctx := context.Background()
	require.NoError(t, deps.settingRepo.Upsert(ctx, settings.NameAPIKey, "sk_global", settings.GlobalScope))
	require.NoError(t, deps.settingRepo.Upsert(ctx, settings.NameAdditionalFee, "9", 2))

	model := ConfigurationModel{
		TransactMode:     "authorize",
		APIKey:           "sk_store2",
		APIKeyOverride:   true,
		ActiveStoreScope: 2,
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/config", configBody(t, model))
	rec := httptest.NewRecorder()
	deps.controller.ConfigureSave(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Overridden field written at the store scope.
	value, ok := deps.settingRepo.Row(settings.NameAPIKey, 2)
	require.True(t, ok)
	assert.Equal(t, "sk_store2", value)

	// Non-overridden field deleted so the store falls back to global.
	_, ok = deps.settingRepo.Row(settings.NameAdditionalFee, 2)
	assert.False(t, ok)

	// Global values untouched.
	value, ok = deps.settingRepo.Row(settings.NameAPIKey, settings.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, "sk_global", value)
}

func TestConfigureSaveHandler_SavedMessageFallsBackToResourceName(t *testing.T) {
	deps := setupConfigHandler(t)

	model := ConfigurationModel{TransactMode: "authorize"}
	req := httptest.NewRequest(http.MethodPost, "/admin/config", configBody(t, model))
	rec := httptest.NewRecorder()
	deps.controller.ConfigureSave(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SavedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin.plugins.saved", resp.Message)
}

// --- Plugin Lifecycle Tests ---

func TestInstallPluginHandler(t *testing.T) {
	deps := setupConfigHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/plugin/install", nil)
	rec := httptest.NewRecorder()
	deps.controller.InstallPlugin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := deps.settingRepo.Row(settings.NameTransactMode, settings.GlobalScope)
	assert.True(t, ok)
	assert.True(t, deps.localeRepo.Has("plugins.payments.stripe.fields.apikey"))
}

func TestUninstallPluginHandler(t *testing.T) {
	deps := setupConfigHandler(t)

	installReq := httptest.NewRequest(http.MethodPost, "/admin/plugin/install", nil)
	deps.controller.InstallPlugin(httptest.NewRecorder(), installReq)

	req := httptest.NewRequest(http.MethodPost, "/admin/plugin/uninstall", nil)
	rec := httptest.NewRecorder()
	deps.controller.UninstallPlugin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := deps.settingRepo.Row(settings.NameTransactMode, settings.GlobalScope)
	assert.False(t, ok)
	assert.False(t, deps.localeRepo.Has("plugins.payments.stripe.fields.apikey"))
}
