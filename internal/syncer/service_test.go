package syncer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pricesync/internal/logger"
	"pricesync/internal/models"
	"pricesync/internal/platforms"
	"pricesync/internal/streetpricer"
	"pricesync/internal/syncer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products []streetpricer.SourceProduct
	err      error
}

func (f *fakeSource) FetchAllProducts(ctx context.Context) ([]streetpricer.SourceProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

type fakeStatusRepo struct {
	statuses map[string]models.ProductStatus
	results  []models.SyncResult
	writes   int
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[string]models.ProductStatus{}}
}

func statusKey(s *models.ProductStatus) string {
	return s.StoreID + "|" + s.PlatformProductID + "|" + s.SourceProductID
}

func (f *fakeStatusRepo) UpdateProductStatus(ctx context.Context, status *models.ProductStatus) error {
	f.statuses[statusKey(status)] = *status
	f.writes++
	return nil
}

func (f *fakeStatusRepo) SaveSyncResult(ctx context.Context, result *models.SyncResult) error {
	f.results = append(f.results, *result)
	return nil
}

func (f *fakeStatusRepo) bySKU(sku string) (models.ProductStatus, bool) {
	for _, s := range f.statuses {
		if s.SKU == sku {
			return s, true
		}
	}
	return models.ProductStatus{}, false
}

type fakeAudit struct {
	entries []models.AuditEntry
}

func (f *fakeAudit) Log(ctx context.Context, entry *models.AuditEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) actions() []models.AuditAction {
	out := make([]models.AuditAction, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

type updateCall struct {
	productID string
	variantID string
	price     float64
}

type fakeClient struct {
	products  []platforms.PlatformProduct
	authErr   error
	fetchErr  error
	updateErr map[string]error
	updates   []updateCall
}

func (f *fakeClient) Authenticate(ctx context.Context) error { return f.authErr }

func (f *fakeClient) GetAllProducts(ctx context.Context) ([]platforms.PlatformProduct, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]platforms.PlatformProduct, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeClient) UpdateProductPrice(ctx context.Context, productID, variantID string, price float64) error {
	f.updates = append(f.updates, updateCall{productID, variantID, price})
	if err := f.updateErr[productID]; err != nil {
		return err
	}
	// A successful push is visible on the next catalogue fetch.
	for i := range f.products {
		if f.products[i].ID == productID {
			f.products[i].Price = platforms.FormatPrice(price)
		}
	}
	return nil
}

func newService(source *fakeSource, client *fakeClient, statuses *fakeStatusRepo, audit *fakeAudit) *syncer.Service {
	resolve := func(store models.Store) (platforms.Client, error) { return client, nil }
	return syncer.New(source, statuses, audit, resolve, logger.New("error"))
}

func testStore() models.Store {
	return models.Store{ID: "store-1", Name: "Test Store", Platform: models.PlatformWooCommerce, SyncInterval: 60, Enabled: true}
}

func TestSyncStore(t *testing.T) {

	t.Run("RepricesWhenDiffAboveThreshold", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 19.99},
		}}
		client := &fakeClient{products: []platforms.PlatformProduct{
			{ID: "p1", SKU: "SKU1", Price: "15.00"},
		}}
		statuses := newFakeStatusRepo()
		audit := &fakeAudit{}

		result, err := newService(source, client, statuses, audit).SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		require.Len(t, client.updates, 1)
		assert.Equal(t, updateCall{productID: "p1", price: 19.99}, client.updates[0])

		status, ok := statuses.bySKU("SKU1")
		require.True(t, ok)
		assert.Equal(t, models.StateRepriced, status.Status)
		assert.Equal(t, 19.99, status.TargetPrice)
		require.NotNil(t, status.CurrentPrice)
		assert.Equal(t, 19.99, *status.CurrentPrice)

		assert.Equal(t, models.SyncRunSucceeded, result.Status)
		assert.Equal(t, 1, result.MatchedCount)
		assert.Equal(t, 1, result.RepricedCount)
		assert.Equal(t, 0, result.PendingCount)
		assert.Contains(t, audit.actions(), models.AuditPushSucceeded)
	})

	t.Run("NoCallNoWriteWhenInSync", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 10.00},
		}}
		client := &fakeClient{products: []platforms.PlatformProduct{
			{ID: "p1", SKU: "SKU1", Price: "10.00"},
		}}
		statuses := newFakeStatusRepo()

		result, err := newService(source, client, statuses, &fakeAudit{}).SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		assert.Empty(t, client.updates)
		assert.Zero(t, statuses.writes)
		assert.Equal(t, 1, result.MatchedCount)
		assert.Equal(t, 0, result.RepricedCount)
	})

	t.Run("DiffAtThresholdIsInSync", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 10.01},
		}}
		client := &fakeClient{products: []platforms.PlatformProduct{
			{ID: "p1", SKU: "SKU1", Price: "10.00"},
		}}
		statuses := newFakeStatusRepo()

		_, err := newService(source, client, statuses, &fakeAudit{}).SyncStore(context.Background(), testStore())
		require.NoError(t, err)
		assert.Empty(t, client.updates)
	})

	t.Run("FailedPushRecordsPending", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 19.99},
		}}
		client := &fakeClient{
			products:  []platforms.PlatformProduct{{ID: "p1", SKU: "SKU1", Price: "15.00"}},
			updateErr: map[string]error{"p1": errors.New("rate limited")},
		}
		statuses := newFakeStatusRepo()
		audit := &fakeAudit{}

		result, err := newService(source, client, statuses, audit).SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		status, ok := statuses.bySKU("SKU1")
		require.True(t, ok)
		assert.Equal(t, models.StatePending, status.Status)
		assert.Equal(t, 19.99, status.TargetPrice)
		require.NotNil(t, status.ErrorMessage)
		assert.Equal(t, "rate limited", *status.ErrorMessage)

		assert.Equal(t, models.SyncRunSucceeded, result.Status)
		assert.Equal(t, 1, result.PendingCount)
		assert.Contains(t, audit.actions(), models.AuditPushFailed)
	})

	t.Run("OneFailureDoesNotAbortCycle", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 19.99},
			{ID: "s2", SKU: "SKU2", Price: 29.99},
		}}
		client := &fakeClient{
			products: []platforms.PlatformProduct{
				{ID: "p1", SKU: "SKU1", Price: "15.00"},
				{ID: "p2", SKU: "SKU2", Price: "25.00"},
			},
			updateErr: map[string]error{"p1": errors.New("boom")},
		}
		statuses := newFakeStatusRepo()

		result, err := newService(source, client, statuses, &fakeAudit{}).SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		require.Len(t, client.updates, 2)
		assert.Equal(t, 1, result.PendingCount)
		assert.Equal(t, 1, result.RepricedCount)

		status, ok := statuses.bySKU("SKU2")
		require.True(t, ok)
		assert.Equal(t, models.StateRepriced, status.Status)
	})

	t.Run("SecondRunWithSyncedDataIsNoOp", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 19.99},
		}}
		client := &fakeClient{products: []platforms.PlatformProduct{
			{ID: "p1", SKU: "SKU1", Price: "15.00"},
		}}
		statuses := newFakeStatusRepo()
		service := newService(source, client, statuses, &fakeAudit{})

		_, err := service.SyncStore(context.Background(), testStore())
		require.NoError(t, err)
		require.Len(t, client.updates, 1)
		statusAfterFirst, ok := statuses.bySKU("SKU1")
		require.True(t, ok)

		_, err = service.SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		assert.Len(t, client.updates, 1, "no further update calls on the second run")
		statusAfterSecond, _ := statuses.bySKU("SKU1")
		assert.Equal(t, statusAfterFirst, statusAfterSecond)
	})

	t.Run("UnlistedProductRecordedWithoutPush", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "GHOST", Price: 9.99},
		}}
		client := &fakeClient{}
		statuses := newFakeStatusRepo()
		audit := &fakeAudit{}

		result, err := newService(source, client, statuses, audit).SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		assert.Empty(t, client.updates)
		assert.Equal(t, 1, result.UnlistedCount)

		status, ok := statuses.bySKU("GHOST")
		require.True(t, ok)
		assert.Equal(t, models.StateUnlisted, status.Status)
		assert.Contains(t, audit.actions(), models.AuditProductUnlisted)
	})

	t.Run("SourceFetchFailureAbortsCycle", func(t *testing.T) {
		source := &fakeSource{err: errors.New("source unreachable")}
		client := &fakeClient{products: []platforms.PlatformProduct{
			{ID: "p1", SKU: "SKU1", Price: "15.00"},
		}}
		statuses := newFakeStatusRepo()

		result, err := newService(source, client, statuses, &fakeAudit{}).SyncStore(context.Background(), testStore())
		require.Error(t, err)

		assert.Equal(t, models.SyncRunFailed, result.Status)
		require.NotNil(t, result.ErrorMessage)
		assert.Empty(t, client.updates)
		assert.Zero(t, statuses.writes, "no partial catalogue diff")
		require.Len(t, statuses.results, 1, "failed cycle is still recorded")
	})

	t.Run("PlatformFetchFailureAbortsCycle", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 19.99},
		}}
		client := &fakeClient{fetchErr: &platforms.FetchError{Platform: "woocommerce", Err: errors.New("503")}}
		statuses := newFakeStatusRepo()

		result, err := newService(source, client, statuses, &fakeAudit{}).SyncStore(context.Background(), testStore())
		require.Error(t, err)

		var fetchErr *platforms.FetchError
		assert.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, models.SyncRunFailed, result.Status)
		assert.Zero(t, statuses.writes)
	})

	t.Run("AuthenticationFailureAbortsCycle", func(t *testing.T) {
		source := &fakeSource{products: []streetpricer.SourceProduct{
			{ID: "s1", SKU: "SKU1", Price: 19.99},
		}}
		client := &fakeClient{authErr: &platforms.AuthenticationError{Platform: "shopify", Err: errors.New("401")}}
		statuses := newFakeStatusRepo()

		result, err := newService(source, client, statuses, &fakeAudit{}).SyncStore(context.Background(), testStore())
		require.Error(t, err)

		var authErr *platforms.AuthenticationError
		assert.ErrorAs(t, err, &authErr)
		assert.Equal(t, models.SyncRunFailed, result.Status)
	})

	t.Run("UnknownPlatformIsConfigurationError", func(t *testing.T) {
		statuses := newFakeStatusRepo()
		service := syncer.New(&fakeSource{}, statuses, &fakeAudit{},
			syncer.RegistryResolver(logger.New("error")), logger.New("error"))

		store := testStore()
		store.Platform = models.PlatformType("ebay")

		result, err := service.SyncStore(context.Background(), store)
		require.Error(t, err)

		var confErr *platforms.ConfigurationError
		assert.ErrorAs(t, err, &confErr)
		assert.Equal(t, models.SyncRunFailed, result.Status)
	})

	t.Run("UpdatesEvaluatedInMatchedOrder", func(t *testing.T) {
		var sourceProducts []streetpricer.SourceProduct
		var platformProducts []platforms.PlatformProduct
		for i := 0; i < 5; i++ {
			sku := fmt.Sprintf("SKU%d", i)
			sourceProducts = append(sourceProducts, streetpricer.SourceProduct{ID: sku, SKU: sku, Price: 20})
			platformProducts = append(platformProducts, platforms.PlatformProduct{ID: sku, SKU: sku, Price: "10.00"})
		}
		client := &fakeClient{products: platformProducts}

		_, err := newService(&fakeSource{products: sourceProducts}, client, newFakeStatusRepo(), &fakeAudit{}).
			SyncStore(context.Background(), testStore())
		require.NoError(t, err)

		require.Len(t, client.updates, 5)
		for i, call := range client.updates {
			assert.Equal(t, fmt.Sprintf("SKU%d", i), call.productID)
		}
	})
}
