package postgres

import (
	"context"
	"fmt"
	"time"
)

// DeleteBlocksAfter deletes every block inserted after id. Extracted records go with their
// blocks through ON DELETE CASCADE, and the single statement is atomic on its own.
func (r *Repository) DeleteBlocksAfter(ctx context.Context, id int64) (int64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.observe("delete_blocks_after", err, start)
	}()

	const query = `DELETE FROM block WHERE id > $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete blocks after %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted rows: %w", err)
	}
	return n, nil
}
