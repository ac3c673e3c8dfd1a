package testutil

import (
	"context"
	"strings"
	"sync"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
	"github.com/merchantkit/payment-stripe/internal/gateway/stripe"
)

type scopedName struct {
	name    string
	storeID int64
}

// --- Setting Repository Mock ---

// MockSettingRepository is an in-memory settings.Repository.
type MockSettingRepository struct {
	mu   sync.Mutex
	rows map[scopedName]string

	LoadAllFunc        func(ctx context.Context, storeID int64) (map[string]string, error)
	ExistsFunc         func(ctx context.Context, name string, storeID int64) (bool, error)
	UpsertFunc         func(ctx context.Context, name, value string, storeID int64) error
	DeleteFunc         func(ctx context.Context, name string, storeID int64) error
	DeleteByPrefixFunc func(ctx context.Context, namePrefix string) error

	UpsertCalls int
	DeleteCalls int
}

func NewMockSettingRepository() *MockSettingRepository {
	return &MockSettingRepository{rows: make(map[scopedName]string)}
}

func (m *MockSettingRepository) LoadAll(ctx context.Context, storeID int64) (map[string]string, error) {
	if m.LoadAllFunc != nil {
		return m.LoadAllFunc(ctx, storeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	values := make(map[string]string)
	for key, value := range m.rows {
		if key.storeID == 0 {
			values[key.name] = value
		}
	}
	if storeID != 0 {
		for key, value := range m.rows {
			if key.storeID == storeID {
				values[key.name] = value
			}
		}
	}
	return values, nil
}

func (m *MockSettingRepository) Exists(ctx context.Context, name string, storeID int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, name, storeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[scopedName{name, storeID}]
	return ok, nil
}

func (m *MockSettingRepository) Upsert(ctx context.Context, name, value string, storeID int64) error {
	m.mu.Lock()
	m.UpsertCalls++
	m.mu.Unlock()
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, name, value, storeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[scopedName{name, storeID}] = value
	return nil
}

func (m *MockSettingRepository) Delete(ctx context.Context, name string, storeID int64) error {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name, storeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, scopedName{name, storeID})
	return nil
}

func (m *MockSettingRepository) DeleteByPrefix(ctx context.Context, namePrefix string) error {
	if m.DeleteByPrefixFunc != nil {
		return m.DeleteByPrefixFunc(ctx, namePrefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.rows {
		if strings.HasPrefix(key.name, namePrefix) {
			delete(m.rows, key)
		}
	}
	return nil
}

// Row returns the raw stored value for an exact (name, storeID) pair.
func (m *MockSettingRepository) Row(name string, storeID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.rows[scopedName{name, storeID}]
	return value, ok
}

// --- Settings Cache Mock ---

// MemoryCache is an in-memory settings.Cache with call counters.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	SetCalls   int
	ClearCalls int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++
	c.entries[key] = value
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ClearCalls++
	c.entries = make(map[string][]byte)
	return nil
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// --- Locale Repository Mock ---

// MockLocaleRepository is an in-memory localization.Repository.
type MockLocaleRepository struct {
	mu        sync.Mutex
	resources map[string]string

	GetFunc    func(ctx context.Context, name string) (string, error)
	UpsertFunc func(ctx context.Context, name, value string) error
	DeleteFunc func(ctx context.Context, name string) error
}

func NewMockLocaleRepository() *MockLocaleRepository {
	return &MockLocaleRepository{resources: make(map[string]string)}
}

func (m *MockLocaleRepository) Get(ctx context.Context, name string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.resources[name]
	if !ok {
		return "", domainErrors.ErrResourceNotFound
	}
	return value, nil
}

func (m *MockLocaleRepository) Upsert(ctx context.Context, name, value string) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, name, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[name] = value
	return nil
}

func (m *MockLocaleRepository) Delete(ctx context.Context, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[name]; !ok {
		return domainErrors.ErrResourceNotFound
	}
	delete(m.resources, name)
	return nil
}

// Has reports whether a resource is stored.
func (m *MockLocaleRepository) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.resources[name]
	return ok
}

// --- Gateway Client Mock ---

// MockGatewayClient is a stripe.Client with per-method overrides and call
// counters. The zero-value behavior is a successful token and a captured
// charge.
type MockGatewayClient struct {
	mu sync.Mutex

	CreateTokenFunc  func(ctx context.Context, apiKey string, card stripe.CardParams) (string, error)
	CreateChargeFunc func(ctx context.Context, apiKey string, params stripe.ChargeParams) (*stripe.Charge, error)

	TokenCalls  int
	ChargeCalls int

	LastCard   stripe.CardParams
	LastCharge stripe.ChargeParams
}

func NewMockGatewayClient() *MockGatewayClient {
	return &MockGatewayClient{}
}

func (m *MockGatewayClient) CreateToken(ctx context.Context, apiKey string, card stripe.CardParams) (string, error) {
	m.mu.Lock()
	m.TokenCalls++
	m.LastCard = card
	m.mu.Unlock()
	if m.CreateTokenFunc != nil {
		return m.CreateTokenFunc(ctx, apiKey, card)
	}
	return "tok_test", nil
}

func (m *MockGatewayClient) CreateCharge(ctx context.Context, apiKey string, params stripe.ChargeParams) (*stripe.Charge, error) {
	m.mu.Lock()
	m.ChargeCalls++
	m.LastCharge = params
	m.mu.Unlock()
	if m.CreateChargeFunc != nil {
		return m.CreateChargeFunc(ctx, apiKey, params)
	}
	return &stripe.Charge{
		ID:          "ch_test",
		AmountCents: params.AmountCents,
		Currency:    params.Currency,
		Captured:    params.Capture,
		Description: params.Description,
	}, nil
}
