// Package analytics is a read model replayed off marketplace events. It
// feeds the reporting endpoints and holds no state the engine depends on.
package analytics

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/basenft/marketplace-royalties/internal/event"
)

const summaryCacheKey = "summary"

type RecipientStats struct {
	Recipient      string `json:"recipient"`
	TotalRoyalties uint64 `json:"total_royalties"`
	SalesCount     uint64 `json:"sales_count"`
}

type Summary struct {
	TotalSales        uint64 `json:"total_sales"`
	TotalVolume       uint64 `json:"total_volume"`
	TotalRoyalties    uint64 `json:"total_royalties"`
	TotalPlatformFees uint64 `json:"total_platform_fees"`
	ActiveListings    uint64 `json:"active_listings"`
	CancelledListings uint64 `json:"cancelled_listings"`
}

type Collector struct {
	mu         sync.RWMutex
	summary    Summary
	recipients map[string]*RecipientStats

	cache *gocache.Cache
}

func NewCollector(events *event.Manager) *Collector {
	c := &Collector{
		recipients: make(map[string]*RecipientStats),
		cache:      gocache.New(10*time.Second, time.Minute),
	}

	events.AddListener(event.ListingCreatedEvent, c.onListingCreated)
	events.AddListener(event.ListingCancelledEvent, c.onListingCancelled)
	events.AddListener(event.SaleSettledEvent, c.onSaleSettled)

	return c
}

func (c *Collector) onListingCreated(msg interface{}) {
	if _, ok := msg.(event.ListingCreated); !ok {
		return
	}

	c.mu.Lock()
	c.summary.ActiveListings++
	c.mu.Unlock()

	c.cache.Delete(summaryCacheKey)
}

func (c *Collector) onListingCancelled(msg interface{}) {
	if _, ok := msg.(event.ListingCancelled); !ok {
		return
	}

	c.mu.Lock()
	if c.summary.ActiveListings > 0 {
		c.summary.ActiveListings--
	}
	c.summary.CancelledListings++
	c.mu.Unlock()

	c.cache.Delete(summaryCacheKey)
}

func (c *Collector) onSaleSettled(msg interface{}) {
	sale, ok := msg.(event.SaleSettled)
	if !ok {
		return
	}

	c.mu.Lock()
	c.summary.TotalSales++
	c.summary.TotalVolume += sale.Price
	c.summary.TotalRoyalties += sale.RoyaltyAmount
	c.summary.TotalPlatformFees += sale.PlatformFeeAmount
	if c.summary.ActiveListings > 0 {
		c.summary.ActiveListings--
	}

	stats, found := c.recipients[sale.RoyaltyRecipient]
	if !found {
		stats = &RecipientStats{Recipient: sale.RoyaltyRecipient}
		c.recipients[sale.RoyaltyRecipient] = stats
	}
	stats.TotalRoyalties += sale.RoyaltyAmount
	stats.SalesCount++
	c.mu.Unlock()

	c.cache.Delete(summaryCacheKey)
}

func (c *Collector) Summary() Summary {
	if cached, found := c.cache.Get(summaryCacheKey); found {
		return cached.(Summary)
	}

	c.mu.RLock()
	summary := c.summary
	c.mu.RUnlock()

	c.cache.SetDefault(summaryCacheKey, summary)

	return summary
}

func (c *Collector) RecipientRoyalties(recipient string) (RecipientStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats, found := c.recipients[recipient]
	if !found {
		return RecipientStats{}, false
	}

	return *stats, true
}
