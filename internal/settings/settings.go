package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// Setting names as persisted. Per-store overrides reuse the same name with a
// non-zero store_id.
const (
	prefix = "stripepaymentsettings."

	NameTransactMode            = prefix + "transactmode"
	NameAdditionalFee           = prefix + "additionalfee"
	NameAdditionalFeePercentage = prefix + "additionalfeepercentage"
	NameAPIKey                  = prefix + "apikey"
)

// AllNames lists every persisted setting name, in save order.
var AllNames = []string{
	NameTransactMode,
	NameAdditionalFee,
	NameAdditionalFeePercentage,
	NameAPIKey,
}

// GlobalScope is the store scope holding the non-overridden defaults.
const GlobalScope int64 = 0

// PaymentSettings is the plugin configuration, resolved for one store scope.
type PaymentSettings struct {
	TransactMode            payment.TransactMode
	AdditionalFee           decimal.Decimal
	AdditionalFeePercentage bool
	APIKey                  string
}

// Defaults returns the settings written on plugin install.
func Defaults() *PaymentSettings {
	return &PaymentSettings{
		TransactMode: payment.TransactModeAuthorize,
	}
}

// Overrides reports, per field, whether a store-scoped row exists.
type Overrides struct {
	TransactMode            bool
	AdditionalFee           bool
	AdditionalFeePercentage bool
	APIKey                  bool
}

// Repository persists raw name/value setting rows per store scope.
type Repository interface {
	// LoadAll returns values resolved for the scope: store-scoped rows win
	// over global rows.
	LoadAll(ctx context.Context, storeID int64) (map[string]string, error)
	// Exists reports whether a row exists for the exact (name, storeID) pair.
	Exists(ctx context.Context, name string, storeID int64) (bool, error)
	Upsert(ctx context.Context, name, value string, storeID int64) error
	Delete(ctx context.Context, name string, storeID int64) error
	// DeleteByPrefix removes rows for all scopes; used on uninstall.
	DeleteByPrefix(ctx context.Context, namePrefix string) error
}

// FromValues builds typed settings from raw name/value rows. Missing values
// fall back to zero values so a partially installed plugin still loads.
func FromValues(values map[string]string) (*PaymentSettings, error) {
	s := &PaymentSettings{}

	if v, ok := values[NameTransactMode]; ok {
		s.TransactMode = payment.TransactMode(v)
	}
	if v, ok := values[NameAdditionalFee]; ok {
		fee, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s=%q: %w", NameAdditionalFee, v, err)
		}
		s.AdditionalFee = fee
	}
	if v, ok := values[NameAdditionalFeePercentage]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s=%q: %w", NameAdditionalFeePercentage, v, err)
		}
		s.AdditionalFeePercentage = b
	}
	s.APIKey = values[NameAPIKey]

	return s, nil
}

// Values flattens typed settings into persistable name/value rows.
func (s *PaymentSettings) Values() map[string]string {
	return map[string]string{
		NameTransactMode:            string(s.TransactMode),
		NameAdditionalFee:           s.AdditionalFee.String(),
		NameAdditionalFeePercentage: strconv.FormatBool(s.AdditionalFeePercentage),
		NameAPIKey:                  s.APIKey,
	}
}

// FieldOverridden returns the override flag for a setting name.
func (o *Overrides) FieldOverridden(name string) bool {
	switch name {
	case NameTransactMode:
		return o.TransactMode
	case NameAdditionalFee:
		return o.AdditionalFee
	case NameAdditionalFeePercentage:
		return o.AdditionalFeePercentage
	case NameAPIKey:
		return o.APIKey
	}
	return false
}
