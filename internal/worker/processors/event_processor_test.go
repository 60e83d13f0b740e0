package processors

import (
	"context"
	"testing"

	"ezproduct/internal/database"
	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/models"
	"ezproduct/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db        *gorm.DB
	sessions  *store.SessionStore
	history   *store.HistoryStore
	processor *EventProcessor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	sessions := store.NewSessionStore(db, logger.Nop())
	history := store.NewHistoryStore(db)
	return fixture{db: db, sessions: sessions, history: history, processor: NewEventProcessor(sessions, logger.Nop())}
}

func (f fixture) install(t *testing.T, shop string) *models.Shop {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.sessions.Store(ctx, &models.Session{ID: models.OfflineSessionID(shop), Shop: shop, State: "s", AccessToken: "tok"}))
	record, err := f.sessions.FindShop(ctx, shop)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NoError(t, f.history.Record(ctx, &models.ProductGeneration{ShopID: record.ID, Keywords: "mat", Status: models.GenerationStatusSynced}))
	return record
}

func TestUninstallErasesShopData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.install(t, "demo.myshopify.com")
	other := f.install(t, "other.myshopify.com")

	require.NoError(t, f.processor.Process(ctx, events.New(events.TypeAppUninstalled, "demo.myshopify.com", nil)))

	sessions, err := f.sessions.FindByShop(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, sessions)
	shop, err := f.sessions.FindShop(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, shop)

	rows, err := f.history.RecentByShop(ctx, record.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = f.history.RecentByShop(ctx, other.ID, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUninstallThenRedactLeavesNoHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.install(t, "demo.myshopify.com")

	require.NoError(t, f.processor.Process(ctx, events.New(events.TypeAppUninstalled, "demo.myshopify.com", nil)))
	require.NoError(t, f.processor.Process(ctx, events.New(events.TypeShopRedact, "demo.myshopify.com", nil)))

	var count int64
	require.NoError(t, f.db.Model(&models.ProductGeneration{}).Where("shop_id = ?", record.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRedactErasesHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.install(t, "demo.myshopify.com")
	other := f.install(t, "other.myshopify.com")

	require.NoError(t, f.processor.Process(ctx, events.New(events.TypeShopRedact, "demo.myshopify.com", nil)))

	rows, err := f.history.RecentByShop(ctx, record.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = f.history.RecentByShop(ctx, other.ID, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInvalidEventsAreDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.install(t, "demo.myshopify.com")

	assert.NoError(t, f.processor.Process(ctx, events.New("orders.paid", "demo.myshopify.com", nil)))
	assert.NoError(t, f.processor.Process(ctx, events.New(events.TypeAppUninstalled, "evil.example.com", nil)))

	sessions, err := f.sessions.FindByShop(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
