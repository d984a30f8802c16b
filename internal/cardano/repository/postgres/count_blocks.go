package postgres

import (
	"context"
	"fmt"
	"time"
)

// CountBlocks returns the number of stored blocks.
func (r *Repository) CountBlocks(ctx context.Context) (int64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.observe("count_blocks", err, start)
	}()

	const query = `SELECT count(*) FROM block`

	var count int64
	if err = r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count blocks: %w", err)
	}
	return count, nil
}
