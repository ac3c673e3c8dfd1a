package controller

import (
	"net/http"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/middleware"
	"github.com/merchantkit/payment-stripe/internal/plugin"
	"github.com/merchantkit/payment-stripe/internal/settings"

	"github.com/rs/zerolog"
)

// ConfigController serves the admin configuration view and save endpoint,
// plus the plugin lifecycle operations.
type ConfigController struct {
	settings *settings.Service
	plugin   *plugin.Plugin
	locale   *localization.Service
	logger   zerolog.Logger
}

func NewConfigController(settingsService *settings.Service, p *plugin.Plugin, locale *localization.Service, logger zerolog.Logger) *ConfigController {
	return &ConfigController{
		settings: settingsService,
		plugin:   p,
		locale:   locale,
		logger:   logger.With().Str("component", "config_controller").Logger(),
	}
}

// Configure handles GET /admin/config. The store_id query parameter selects
// the active store scope; 0 (or absent) means the global scope.
func (c *ConfigController) Configure(w http.ResponseWriter, r *http.Request) {
	storeScope, err := storeIDFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()

	current, err := c.settings.Load(ctx, storeScope)
	if err != nil {
		writeError(w, err)
		return
	}

	overrides := &settings.Overrides{}
	if storeScope > settings.GlobalScope {
		overrides, err = c.settings.Overrides(ctx, storeScope)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	token, err := middleware.IssueAntiForgeryToken(w)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ConfigureResponse{
		Configuration:    FromSettings(current, overrides, storeScope),
		AntiForgeryToken: token,
	})
}

// ConfigureSave handles POST /admin/config. The submitted transaction mode
// is discarded: only authorize-only mode can be saved. Fields are written
// one by one without touching the cache, then the cache is cleared once.
func (c *ConfigController) ConfigureSave(w http.ResponseWriter, r *http.Request) {
	var model ConfigurationModel
	if err := decodeAndValidate(r, &model); err != nil {
		writeError(w, err)
		return
	}
	if model.ActiveStoreScope < 0 {
		writeError(w, domainErrors.ErrInvalidScope)
		return
	}

	ctx := r.Context()
	storeScope := model.ActiveStoreScope

	if err := c.settings.Save(ctx, model.ToSettings(), model.ToOverrides(), storeScope); err != nil {
		writeError(w, err)
		return
	}

	if err := c.settings.ClearCache(ctx); err != nil {
		writeError(w, err)
		return
	}

	c.logger.Info().Int64("store_scope", storeScope).Msg("configuration saved")

	writeJSON(w, http.StatusOK, SavedResponse{
		Message: c.locale.GetResource(ctx, "admin.plugins.saved"),
	})
}

// InstallPlugin handles POST /admin/plugin/install.
func (c *ConfigController) InstallPlugin(w http.ResponseWriter, r *http.Request) {
	if err := c.plugin.Install(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "installed"})
}

// UninstallPlugin handles POST /admin/plugin/uninstall.
func (c *ConfigController) UninstallPlugin(w http.ResponseWriter, r *http.Request) {
	if err := c.plugin.Uninstall(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "uninstalled"})
}
