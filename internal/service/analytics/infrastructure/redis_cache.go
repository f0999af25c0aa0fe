package infrastructure

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/pkg/redis"
	"tavolo/internal/service/analytics/application"
)

const summaryTTL = 5 * time.Minute

// RedisSummaryCache 实现了 application.SummaryCache 接口。
// 快照允许五分钟的陈旧度，换取报表接口不反复打穿数据库。
type RedisSummaryCache struct {
	client *redis.Client
}

func NewRedisSummaryCache(client *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{client: client}
}

func key(vendorID int64) string {
	return fmt.Sprintf("analytics:summary:{%d}", vendorID)
}

func (c *RedisSummaryCache) Get(ctx context.Context, vendorID int64) (*application.VendorSummary, bool, error) {
	var summary application.VendorSummary
	hit, err := c.client.GetJSON(ctx, key(vendorID), &summary)
	if err != nil || !hit {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, summary *application.VendorSummary) error {
	return c.client.SetJSON(ctx, key(summary.VendorID), summary, summaryTTL)
}
