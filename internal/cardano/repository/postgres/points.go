package postgres

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/pkg/safe"
)

// LatestPoints returns the points of the count most recently inserted blocks, newest first.
func (r *Repository) LatestPoints(ctx context.Context, count int) ([]model.Point, error) {
	start := time.Now()
	var err error
	defer func() {
		r.observe("latest_points", err, start)
	}()

	const query = `
SELECT slot, hash
FROM block
ORDER BY id DESC
LIMIT $1`

	points, err := queryPoints(ctx, r.db, query, count)
	if err != nil {
		return nil, fmt.Errorf("query latest points: %w", err)
	}
	return points, nil
}

// PointBefore returns the point of the block inserted right before id. The result is empty
// when id belongs to the first block.
func (r *Repository) PointBefore(ctx context.Context, id int64) ([]model.Point, error) {
	start := time.Now()
	var err error
	defer func() {
		r.observe("point_before", err, start)
	}()

	const query = `
SELECT slot, hash
FROM block
WHERE id < $1
ORDER BY id DESC
LIMIT 1`

	points, err := queryPoints(ctx, r.db, query, id)
	if err != nil {
		return nil, fmt.Errorf("query point before %d: %w", id, err)
	}
	return points, nil
}

func queryPoints(ctx context.Context, q querier, query string, args ...any) (points []model.Point, err error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	points = make([]model.Point, 0)
	for rows.Next() {
		var (
			slot int64
			hash []byte
		)
		if err = rows.Scan(&slot, &hash); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		s, err := safe.Uint64(slot)
		if err != nil {
			return nil, fmt.Errorf("point slot: %w", err)
		}
		points = append(points, model.Point{Slot: s, Hash: hex.EncodeToString(hash)})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points: %w", err)
	}
	return points, nil
}
