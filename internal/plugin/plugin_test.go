package plugin

import (
	"context"
	"testing"

	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/settings"
	"github.com/merchantkit/payment-stripe/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPlugin() (*Plugin, *testutil.MockSettingRepository, *testutil.MockLocaleRepository, *testutil.MemoryCache) {
	settingRepo := testutil.NewMockSettingRepository()
	localeRepo := testutil.NewMockLocaleRepository()
	cache := testutil.NewMemoryCache()

	settingsService := settings.NewService(settingRepo, cache, nil, zerolog.Nop())
	localeService := localization.NewService(localeRepo, zerolog.Nop())

	return New(settingsService, localeService, zerolog.Nop()), settingRepo, localeRepo, cache
}

func TestInstall_WritesDefaultSettings(t *testing.T) {
	p, settingRepo, _, cache := setupPlugin()

	require.NoError(t, p.Install(context.Background()))

	mode, ok := settingRepo.Row(settings.NameTransactMode, settings.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, string(payment.TransactModeAuthorize), mode)

	fee, ok := settingRepo.Row(settings.NameAdditionalFee, settings.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, "0", fee)

	percentage, ok := settingRepo.Row(settings.NameAdditionalFeePercentage, settings.GlobalScope)
	require.True(t, ok)
	assert.Equal(t, "false", percentage)

	_, ok = settingRepo.Row(settings.NameAPIKey, settings.GlobalScope)
	assert.True(t, ok)

	assert.Equal(t, 1, cache.ClearCalls)
}

func TestInstall_WritesLocaleResources(t *testing.T) {
	p, _, localeRepo, _ := setupPlugin()

	require.NoError(t, p.Install(context.Background()))

	for name := range LocaleResources {
		assert.True(t, localeRepo.Has(name), "missing resource %s", name)
	}
}

func TestUninstall_RemovesSettingsAndResources(t *testing.T) {
	p, settingRepo, localeRepo, _ := setupPlugin()
	ctx := context.Background()
	require.NoError(t, p.Install(ctx))

	// A store-scoped override must go too.
	require.NoError(t, settingRepo.Upsert(ctx, settings.NameAPIKey, "sk_store", 2))

	require.NoError(t, p.Uninstall(ctx))

	for _, name := range settings.AllNames {
		_, ok := settingRepo.Row(name, settings.GlobalScope)
		assert.False(t, ok, "setting %s survived uninstall", name)
	}
	_, ok := settingRepo.Row(settings.NameAPIKey, 2)
	assert.False(t, ok)

	for name := range LocaleResources {
		assert.False(t, localeRepo.Has(name), "resource %s survived uninstall", name)
	}
}

func TestUninstall_IsIdempotent(t *testing.T) {
	p, _, _, _ := setupPlugin()
	ctx := context.Background()

	require.NoError(t, p.Uninstall(ctx))
	require.NoError(t, p.Uninstall(ctx))
}

func TestConfigurationPath(t *testing.T) {
	p, _, _, _ := setupPlugin()
	assert.Equal(t, "/admin/config", p.ConfigurationPath())
}
