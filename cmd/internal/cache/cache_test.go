package cache

import (
	"testing"
	"time"

	"consultacnpj/cmd/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 5 * time.Minute

type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now += d.Milliseconds()
}

type storeFactory func(t *testing.T, clock *fakeClock) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(_ *testing.T, clock *fakeClock) Store {
			return NewMemory(WithTTL(testTTL), WithClock(clock.Now))
		},
		"sqlite": func(t *testing.T, clock *fakeClock) Store {
			s, err := NewSQLite(WithTTL(testTTL), WithClock(clock.Now))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func sampleCompany() *entity.Company {
	name := "EMPRESA EXEMPLO LTDA"
	return &entity.Company{
		TaxID:   "11222333000181",
		Head:    true,
		Company: entity.CompanyInfo{Name: &name, Equity: 1234.56, Members: []entity.Member{}},
		Phones:  []entity.Phone{{Area: "11", Number: "33334444", Type: entity.PhoneLandline}},
	}
}

func TestStore_SetThenGetWithinTTL(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			clock := &fakeClock{now: 1_700_000_000_000}
			store := factory(t, clock)

			require.NoError(t, store.Set("11222333000181", &Entry{Company: sampleCompany(), Found: true}))

			clock.Advance(testTTL - time.Millisecond)
			entry, err := store.Get("11222333000181")
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.True(t, entry.Found)
			assert.Equal(t, int64(1_700_000_000_000), entry.StoredAt)
			assert.Equal(t, sampleCompany(), entry.Company)
		})
	}
}

func TestStore_ExpiredEntryIsEvictedOnGet(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			clock := &fakeClock{now: 1_700_000_000_000}
			store := factory(t, clock)

			require.NoError(t, store.Set("11222333000181", &Entry{Company: sampleCompany(), Found: true}))
			clock.Advance(testTTL)

			entry, err := store.Get("11222333000181")
			require.NoError(t, err)
			assert.Nil(t, entry)

			n, err := store.Len()
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestStore_Miss(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t, &fakeClock{now: 1})

			entry, err := store.Get("00000000000000")
			require.NoError(t, err)
			assert.Nil(t, entry)
		})
	}
}

func TestStore_NegativeEntry(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t, &fakeClock{now: 1_700_000_000_000})

			require.NoError(t, store.Set("11222333000181", &Entry{Found: false}))

			entry, err := store.Get("11222333000181")
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.False(t, entry.Found)
			assert.Nil(t, entry.Company)
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			clock := &fakeClock{now: 1_700_000_000_000}
			store := factory(t, clock)

			require.NoError(t, store.Set("11222333000181", &Entry{Found: false}))
			clock.Advance(time.Minute)
			require.NoError(t, store.Set("11222333000181", &Entry{Company: sampleCompany(), Found: true}))

			entry, err := store.Get("11222333000181")
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.True(t, entry.Found)
			assert.Equal(t, clock.now, entry.StoredAt)

			n, err := store.Len()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestStore_Sweep(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			clock := &fakeClock{now: 1_700_000_000_000}
			store := factory(t, clock)

			require.NoError(t, store.Set("11222333000181", &Entry{Found: false}))
			require.NoError(t, store.Set("11444777000161", &Entry{Found: false}))
			clock.Advance(2 * time.Minute)
			require.NoError(t, store.Set("19131243000197", &Entry{Found: false}))
			clock.Advance(3 * time.Minute)

			removed, err := store.Sweep()
			require.NoError(t, err)
			assert.Equal(t, 2, removed)

			n, err := store.Len()
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			entry, err := store.Get("19131243000197")
			require.NoError(t, err)
			assert.NotNil(t, entry)
		})
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t, &fakeClock{now: 1_700_000_000_000})

			require.NoError(t, store.Set("11222333000181", &Entry{Found: false}))
			require.NoError(t, store.Set("11444777000161", &Entry{Found: false}))

			require.NoError(t, store.Delete("11222333000181"))
			entry, err := store.Get("11222333000181")
			require.NoError(t, err)
			assert.Nil(t, entry)

			require.NoError(t, store.Clear())
			n, err := store.Len()
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestSQLite_InstancesAreIsolated(t *testing.T) {
	clock := &fakeClock{now: 1_700_000_000_000}
	first := backends()["sqlite"](t, clock)
	second := backends()["sqlite"](t, clock)

	require.NoError(t, first.Set("11222333000181", &Entry{Found: false}))

	n, err := second.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}
