package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Bucket is one (value, count) pair in a top-N aggregation.
type Bucket struct {
	Value string
	Count int64
}

// ApduStats is the aggregation GET /api/apdu/stats returns.
type ApduStats struct {
	Total       int64
	SelectCount int64 // reader events whose cla_ins == "80CA"
	TopClaIns   []Bucket
	TopHeader4  []Bucket
	TopSW       []Bucket
}

// ApduStats computes the apdu/stats aggregation for the inclusive
// range [fromUnix, toUnix], matching filter, with up to top rows per bucket.
func (s *GORMStore) ApduStats(ctx context.Context, fromUnix, toUnix int64, top int, filter TailFilter) (ApduStats, error) {
	var out ApduStats

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&ApduEvent{}).
			Where("ts_unix >= ? AND ts_unix <= ?", fromUnix, toUnix)
		return filter.apply(q)
	}

	if err := base().Count(&out.Total).Error; err != nil {
		return out, fmt.Errorf("apdu stats: total: %w", err)
	}

	if err := base().Where("direction = ? AND cla_ins = ?", "R", "80CA").
		Count(&out.SelectCount).Error; err != nil {
		return out, fmt.Errorf("apdu stats: select count: %w", err)
	}

	var err error
	out.TopClaIns, err = bucketQuery(base().Where("direction = ? AND cla_ins IS NOT NULL", "R"), "cla_ins", top)
	if err != nil {
		return out, fmt.Errorf("apdu stats: cla_ins buckets: %w", err)
	}
	out.TopHeader4, err = bucketQuery(base().Where("direction = ? AND header4 IS NOT NULL", "R"), "header4", top)
	if err != nil {
		return out, fmt.Errorf("apdu stats: header4 buckets: %w", err)
	}
	out.TopSW, err = bucketQuery(base().Where("direction = ? AND sw IS NOT NULL", "C"), "sw", top)
	if err != nil {
		return out, fmt.Errorf("apdu stats: sw buckets: %w", err)
	}

	return out, nil
}

// bucketQuery groups q by column and returns the top N (value, count)
// buckets ordered by descending count.
func bucketQuery(q *gorm.DB, column string, top int) ([]Bucket, error) {
	var rows []struct {
		Value string
		Count int64
	}
	err := q.Select(fmt.Sprintf("%s as value, COUNT(*) as count", column)).
		Group(column).
		Order("count DESC").
		Limit(top).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, len(rows))
	for i, r := range rows {
		buckets[i] = Bucket{Value: r.Value, Count: r.Count}
	}
	return buckets, nil
}
