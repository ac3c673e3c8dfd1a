package plugin

import (
	"context"
	"fmt"

	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/settings"
	"github.com/rs/zerolog"
)

// Installable is implemented by plugins that hook into the host's
// install/uninstall lifecycle.
type Installable interface {
	Install(ctx context.Context) error
	Uninstall(ctx context.Context) error
}

// Configurable is implemented by plugins that expose an admin configuration
// surface.
type Configurable interface {
	ConfigurationPath() string
}

// LocaleResources are the string resources installed with the plugin, keyed
// by the plugin's fixed namespace prefix.
var LocaleResources = map[string]string{
	"plugins.payments.stripe.fields.instructions":                 "https://stripe.com/docs/dashboard#api-keys",
	"plugins.payments.stripe.fields.transactmode":                 "Transaction mode",
	"plugins.payments.stripe.fields.additionalfee":                "Additional fee",
	"plugins.payments.stripe.fields.additionalfee.hint":           "Enter additional fee to charge your customers.",
	"plugins.payments.stripe.fields.additionalfeepercentage":      "Additional fee. Use percentage",
	"plugins.payments.stripe.fields.additionalfeepercentage.hint": "Determines whether to apply a percentage additional fee to the order total. If not enabled, a fixed value is used.",
	"plugins.payments.stripe.fields.apikey":                       "Public API Key",
	"plugins.payments.stripe.paymentmethoddescription":            "Pay by credit / debit card",
	"plugins.payments.stripe.validation.cardholdername":           "Cardholder name is required",
	"plugins.payments.stripe.validation.cardnumber":               "Card number is not valid",
	"plugins.payments.stripe.validation.cardcode":                 "Card code is not valid",
	"plugins.payments.stripe.validation.expiremonth":              "Expiration month is required",
	"plugins.payments.stripe.validation.expireyear":               "Expiration year is required",
}

// Plugin wires the payment method into the host lifecycle: installing writes
// default settings and locale resources, uninstalling removes both.
type Plugin struct {
	settings *settings.Service
	locale   *localization.Service
	logger   zerolog.Logger
}

func New(settingsService *settings.Service, locale *localization.Service, logger zerolog.Logger) *Plugin {
	return &Plugin{
		settings: settingsService,
		locale:   locale,
		logger:   logger,
	}
}

// Install writes the default settings to the global scope and installs the
// locale resources.
func (p *Plugin) Install(ctx context.Context) error {
	defaults := settings.Defaults()
	if err := p.settings.Save(ctx, defaults, &settings.Overrides{}, settings.GlobalScope); err != nil {
		return fmt.Errorf("install settings: %w", err)
	}
	if err := p.settings.ClearCache(ctx); err != nil {
		return fmt.Errorf("clear settings cache: %w", err)
	}

	if err := p.locale.InstallResources(ctx, LocaleResources); err != nil {
		return fmt.Errorf("install locale resources: %w", err)
	}

	p.logger.Info().Msg("payment plugin installed")
	return nil
}

// Uninstall removes the plugin's settings for every scope and deletes the
// locale resources.
func (p *Plugin) Uninstall(ctx context.Context) error {
	if err := p.settings.DeleteAll(ctx); err != nil {
		return fmt.Errorf("uninstall settings: %w", err)
	}

	names := make([]string, 0, len(LocaleResources))
	for name := range LocaleResources {
		names = append(names, name)
	}
	if err := p.locale.DeleteResources(ctx, names); err != nil {
		return fmt.Errorf("uninstall locale resources: %w", err)
	}

	p.logger.Info().Msg("payment plugin uninstalled")
	return nil
}

// ConfigurationPath is the admin route where the plugin is configured.
func (p *Plugin) ConfigurationPath() string {
	return "/admin/config"
}

var (
	_ Installable  = (*Plugin)(nil)
	_ Configurable = (*Plugin)(nil)
)
