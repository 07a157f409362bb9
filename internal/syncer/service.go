// Package syncer orchestrates one store's sync cycle: fetch both
// catalogues, match by SKU, push corrected prices, record every outcome.
package syncer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/matcher"
	"pricesync/internal/models"
	"pricesync/internal/platforms"
	"pricesync/internal/streetpricer"
)

// priceThreshold is the discrepancy below which a matched pair counts as
// already in sync. Prices are assumed pre-normalized to one currency unit.
const priceThreshold = 0.01

type SourceClient interface {
	FetchAllProducts(ctx context.Context) ([]streetpricer.SourceProduct, error)
}

type StatusRepository interface {
	UpdateProductStatus(ctx context.Context, status *models.ProductStatus) error
	SaveSyncResult(ctx context.Context, result *models.SyncResult) error
}

type AuditLogger interface {
	Log(ctx context.Context, entry *models.AuditEntry) error
}

// ClientResolver produces the platform client for one store. The default
// resolver goes through the platform registry; tests substitute their own.
type ClientResolver func(store models.Store) (platforms.Client, error)

// RegistryResolver resolves clients from the process-wide platform
// registry using the store's saved credentials.
func RegistryResolver(log *logger.Logger) ClientResolver {
	return func(store models.Store) (platforms.Client, error) {
		factory, err := platforms.Get(store.Platform)
		if err != nil {
			return nil, err
		}
		return factory(store.Credentials, log)
	}
}

type Service struct {
	source   SourceClient
	statuses StatusRepository
	audit    AuditLogger
	resolve  ClientResolver
	logger   *logger.Logger
}

func New(source SourceClient, statuses StatusRepository, audit AuditLogger, resolve ClientResolver, log *logger.Logger) *Service {
	return &Service{
		source:   source,
		statuses: statuses,
		audit:    audit,
		resolve:  resolve,
		logger:   log,
	}
}

// SyncStore runs one full cycle for one store and returns its aggregate
// result. Catalogue-level failures (unknown platform, authentication,
// fetch) abort the cycle and come back as a failed SyncResult plus the
// error; per-product push failures are recorded and never abort the cycle.
func (s *Service) SyncStore(ctx context.Context, store models.Store) (*models.SyncResult, error) {
	startedAt := time.Now()

	client, err := s.resolve(store)
	if err != nil {
		return s.failCycle(ctx, store, startedAt, err)
	}

	if err := client.Authenticate(ctx); err != nil {
		return s.failCycle(ctx, store, startedAt, err)
	}

	sourceProducts, err := s.source.FetchAllProducts(ctx)
	if err != nil {
		return s.failCycle(ctx, store, startedAt, fmt.Errorf("fetching source catalogue: %w", err))
	}

	platformProducts, err := client.GetAllProducts(ctx)
	if err != nil {
		return s.failCycle(ctx, store, startedAt, err)
	}

	match := matcher.MatchProducts(sourceProducts, platformProducts)

	result := &models.SyncResult{
		StoreID:       store.ID,
		Status:        models.SyncRunSucceeded,
		MatchedCount:  len(match.Matched),
		UnlistedCount: len(match.Unlisted),
		StartedAt:     startedAt,
	}

	for _, sp := range match.Unlisted {
		s.writeStatus(ctx, &models.ProductStatus{
			StoreID:         store.ID,
			SourceProductID: sp.ID,
			SKU:             sp.SKU,
			Status:          models.StateUnlisted,
			TargetPrice:     sp.Price,
			LastAttemptAt:   time.Now(),
		})
		s.writeAudit(ctx, store.ID, models.AuditProductUnlisted,
			fmt.Sprintf("sku %s has no listing on %s", sp.SKU, store.Platform))
	}

	for _, pair := range match.Matched {
		switch s.syncPair(ctx, client, store, pair) {
		case pairRepriced:
			result.RepricedCount++
		case pairPending:
			result.PendingCount++
		}
	}

	result.FinishedAt = time.Now()
	if err := s.statuses.SaveSyncResult(ctx, result); err != nil {
		s.logger.Error("Failed to save sync result for store %s: %v", store.ID, err)
	}
	s.writeAudit(ctx, store.ID, models.AuditCycleFinished,
		fmt.Sprintf("matched=%d repriced=%d pending=%d unlisted=%d",
			result.MatchedCount, result.RepricedCount, result.PendingCount, result.UnlistedCount))

	return result, nil
}

type pairOutcome int

const (
	pairInSync pairOutcome = iota
	pairRepriced
	pairPending
)

// syncPair evaluates one matched pair and pushes the source price when the
// discrepancy exceeds the threshold. A failed push is converted into a
// pending status and never propagates, so the cycle continues.
func (s *Service) syncPair(ctx context.Context, client platforms.Client, store models.Store, pair matcher.MatchedPair) pairOutcome {
	platformPrice, parseErr := strconv.ParseFloat(pair.Platform.Price, 64)
	if parseErr == nil && math.Abs(platformPrice-pair.Source.Price) <= priceThreshold {
		// Already in sync: no call, no status write.
		return pairInSync
	}
	// An unparsable channel price counts as out of sync and gets corrected.

	s.writeAudit(ctx, store.ID, models.AuditPushAttempted,
		fmt.Sprintf("sku %s: %s -> %s", pair.Source.SKU, pair.Platform.Price, platforms.FormatPrice(pair.Source.Price)))

	err := client.UpdateProductPrice(ctx, pair.Platform.ID, pair.Platform.VariantID, pair.Source.Price)
	now := time.Now()

	if err != nil {
		msg := err.Error()
		status := &models.ProductStatus{
			StoreID:           store.ID,
			PlatformProductID: pair.Platform.ID,
			SourceProductID:   pair.Source.ID,
			SKU:               pair.Source.SKU,
			Status:            models.StatePending,
			TargetPrice:       pair.Source.Price,
			ErrorMessage:      &msg,
			LastAttemptAt:     now,
		}
		if parseErr == nil {
			status.CurrentPrice = &platformPrice
		}
		s.writeStatus(ctx, status)
		s.writeAudit(ctx, store.ID, models.AuditPushFailed,
			fmt.Sprintf("sku %s: %s", pair.Source.SKU, msg))
		return pairPending
	}

	price := pair.Source.Price
	s.writeStatus(ctx, &models.ProductStatus{
		StoreID:           store.ID,
		PlatformProductID: pair.Platform.ID,
		SourceProductID:   pair.Source.ID,
		SKU:               pair.Source.SKU,
		Status:            models.StateRepriced,
		CurrentPrice:      &price,
		TargetPrice:       price,
		LastAttemptAt:     now,
	})
	s.writeAudit(ctx, store.ID, models.AuditPushSucceeded,
		fmt.Sprintf("sku %s repriced to %s", pair.Source.SKU, platforms.FormatPrice(price)))
	return pairRepriced
}

func (s *Service) failCycle(ctx context.Context, store models.Store, startedAt time.Time, cause error) (*models.SyncResult, error) {
	msg := cause.Error()
	result := &models.SyncResult{
		StoreID:      store.ID,
		Status:       models.SyncRunFailed,
		ErrorMessage: &msg,
		StartedAt:    startedAt,
		FinishedAt:   time.Now(),
	}

	if err := s.statuses.SaveSyncResult(ctx, result); err != nil {
		s.logger.Error("Failed to save failed sync result for store %s: %v", store.ID, err)
	}
	s.writeAudit(ctx, store.ID, models.AuditCycleFailed, msg)

	s.logger.Error("Sync cycle for store %s aborted: %v", store.ID, cause)
	return result, cause
}

func (s *Service) writeStatus(ctx context.Context, status *models.ProductStatus) {
	if err := s.statuses.UpdateProductStatus(ctx, status); err != nil {
		s.logger.Error("Failed to write product status for sku %s: %v", status.SKU, err)
	}
}

func (s *Service) writeAudit(ctx context.Context, storeID string, action models.AuditAction, detail string) {
	entry := &models.AuditEntry{
		StoreID: storeID,
		Action:  action,
		Detail:  detail,
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit entry for store %s: %v", storeID, err)
	}
}
