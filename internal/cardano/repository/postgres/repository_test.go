package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock, *MockMetrics) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	ctrl := gomock.NewController(t)
	metrics := NewMockMetrics(ctrl)
	return New(db, metrics), mock, metrics
}

func beginTx(t *testing.T, repo *Repository, mock sqlmock.Sqlmock, metrics *MockMetrics) *Tx {
	t.Helper()

	mock.ExpectBegin()
	metrics.EXPECT().Observe("begin", nil, gomock.Any())
	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	return tx.(*Tx)
}

func TestRepository_LatestPoints(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT slot, hash FROM block ORDER BY id DESC LIMIT $1")

	tests := []struct {
		name    string
		prepare func(mock sqlmock.Sqlmock, metrics *MockMetrics)
		want    []model.Point
		wantErr bool
	}{
		{
			name: "newest first",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(2).WillReturnRows(
					sqlmock.NewRows([]string{"slot", "hash"}).
						AddRow(int64(20), []byte{0xbb}).
						AddRow(int64(10), []byte{0xaa}),
				)
				metrics.EXPECT().Observe("latest_points", nil, gomock.Any())
			},
			want: []model.Point{{Slot: 20, Hash: "bb"}, {Slot: 10, Hash: "aa"}},
		},
		{
			name: "empty table",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"slot", "hash"}))
				metrics.EXPECT().Observe("latest_points", nil, gomock.Any())
			},
			want: []model.Point{},
		},
		{
			name: "query error",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(2).WillReturnError(errors.New("connection refused"))
				metrics.EXPECT().Observe("latest_points", gomock.Not(gomock.Nil()), gomock.Any())
			},
			wantErr: true,
		},
		{
			name: "negative slot",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(2).WillReturnRows(
					sqlmock.NewRows([]string{"slot", "hash"}).AddRow(int64(-1), []byte{0xaa}),
				)
				metrics.EXPECT().Observe("latest_points", gomock.Not(gomock.Nil()), gomock.Any())
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, metrics := newTestRepository(t)
			tt.prepare(mock, metrics)

			got, err := repo.LatestPoints(ctx, 2)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LatestPoints() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRepository_PointBefore(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT slot, hash FROM block WHERE id < $1 ORDER BY id DESC LIMIT 1")

	t.Run("previous block", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		mock.ExpectQuery(query).WithArgs(int64(5)).WillReturnRows(
			sqlmock.NewRows([]string{"slot", "hash"}).AddRow(int64(40), []byte{0x01, 0x02}),
		)
		metrics.EXPECT().Observe("point_before", nil, gomock.Any())

		got, err := repo.PointBefore(ctx, 5)
		require.NoError(t, err)
		require.Equal(t, []model.Point{{Slot: 40, Hash: "0102"}}, got)
	})

	t.Run("first block has no predecessor", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"slot", "hash"}))
		metrics.EXPECT().Observe("point_before", nil, gomock.Any())

		got, err := repo.PointBefore(ctx, 1)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestRepository_BlockByHash(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("FROM block WHERE hash = $1")
	columns := []string{"id", "hash", "height", "epoch", "slot", "era", "payload", "created_at"}
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	hash := []byte{0xab, 0xcd}

	tests := []struct {
		name         string
		prepare      func(mock sqlmock.Sqlmock, metrics *MockMetrics)
		want         *model.Block
		wantNotFound bool
		wantErr      bool
	}{
		{
			name: "found",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(hash).WillReturnRows(
					sqlmock.NewRows(columns).AddRow(int64(7), hash, int64(100), int64(3), int64(5000), int64(6), nil, created),
				)
				metrics.EXPECT().Observe("block_by_hash", nil, gomock.Any())
			},
			want: func() *model.Block {
				epoch := uint64(3)
				return &model.Block{ID: 7, Hash: hash, Height: 100, Epoch: &epoch, Slot: 5000, Era: model.Conway, CreatedAt: created}
			}(),
		},
		{
			name: "null epoch",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(hash).WillReturnRows(
					sqlmock.NewRows(columns).AddRow(int64(1), hash, int64(0), nil, int64(0), int64(0), nil, created),
				)
				metrics.EXPECT().Observe("block_by_hash", nil, gomock.Any())
			},
			want: &model.Block{ID: 1, Hash: hash, Era: model.Byron, CreatedAt: created},
		},
		{
			name: "missing block is not a failure",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(hash).WillReturnError(sql.ErrNoRows)
				metrics.EXPECT().Observe("block_by_hash", nil, gomock.Any())
			},
			wantNotFound: true,
			wantErr:      true,
		},
		{
			name: "query error",
			prepare: func(mock sqlmock.Sqlmock, metrics *MockMetrics) {
				mock.ExpectQuery(query).WithArgs(hash).WillReturnError(errors.New("timeout"))
				metrics.EXPECT().Observe("block_by_hash", gomock.Not(gomock.Nil()), gomock.Any())
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, metrics := newTestRepository(t)
			tt.prepare(mock, metrics)

			got, err := repo.BlockByHash(ctx, hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BlockByHash() error = %v, wantErr %v", err, tt.wantErr)
			}
			require.Equal(t, tt.wantNotFound, errors.Is(err, chain.ErrNotFound))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_CountBlocks(t *testing.T) {
	repo, mock, metrics := newTestRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM block")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	metrics.EXPECT().Observe("count_blocks", nil, gomock.Any())

	got, err := repo.CountBlocks(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), got)
}

func TestRepository_DeleteBlocksAfter(t *testing.T) {
	query := regexp.QuoteMeta("DELETE FROM block WHERE id > $1")

	t.Run("deletes newer blocks", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		mock.ExpectExec(query).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 4))
		metrics.EXPECT().Observe("delete_blocks_after", nil, gomock.Any())

		got, err := repo.DeleteBlocksAfter(context.Background(), 10)
		require.NoError(t, err)
		require.Equal(t, int64(4), got)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		mock.ExpectExec(query).WithArgs(int64(10)).WillReturnError(errors.New("deadlock"))
		metrics.EXPECT().Observe("delete_blocks_after", gomock.Not(gomock.Nil()), gomock.Any())

		_, err := repo.DeleteBlocksAfter(context.Background(), 10)
		require.Error(t, err)
	})
}

func TestRepository_Begin(t *testing.T) {
	repo, mock, metrics := newTestRepository(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
	metrics.EXPECT().Observe("begin", gomock.Not(gomock.Nil()), gomock.Any())

	_, err := repo.Begin(context.Background())
	require.Error(t, err)
}

func TestTx_InsertBlock(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("INSERT INTO block (")
	epoch := uint64(12)

	t.Run("returns the new id", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		tx := beginTx(t, repo, mock, metrics)

		mock.ExpectQuery(query).
			WithArgs([]byte{0x01}, int64(90), int64(12), int64(4000), int64(model.Babbage), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
		mock.ExpectCommit()
		gomock.InOrder(
			metrics.EXPECT().Observe("insert_block", nil, gomock.Any()),
			metrics.EXPECT().Observe("commit", nil, gomock.Any()),
		)

		id, err := tx.InsertBlock(ctx, model.Block{Hash: []byte{0x01}, Height: 90, Epoch: &epoch, Slot: 4000, Era: model.Babbage})
		require.NoError(t, err)
		require.Equal(t, int64(8), id)
		require.NoError(t, tx.Commit())
	})

	t.Run("null epoch", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		tx := beginTx(t, repo, mock, metrics)

		mock.ExpectQuery(query).
			WithArgs([]byte{0x02}, int64(0), nil, int64(0), int64(model.Byron), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		metrics.EXPECT().Observe("insert_block", nil, gomock.Any())

		id, err := tx.InsertBlock(ctx, model.Block{Hash: []byte{0x02}})
		require.NoError(t, err)
		require.Equal(t, int64(1), id)
	})

	t.Run("height out of range", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		tx := beginTx(t, repo, mock, metrics)
		metrics.EXPECT().Observe("insert_block", gomock.Not(gomock.Nil()), gomock.Any())

		_, err := tx.InsertBlock(ctx, model.Block{Hash: []byte{0x03}, Height: 1 << 63})
		require.Error(t, err)
	})

	t.Run("unique violation rolls back", func(t *testing.T) {
		repo, mock, metrics := newTestRepository(t)
		tx := beginTx(t, repo, mock, metrics)

		mock.ExpectQuery(query).WillReturnError(errors.New("duplicate key value violates unique constraint"))
		mock.ExpectRollback()
		metrics.EXPECT().Observe("insert_block", gomock.Not(gomock.Nil()), gomock.Any())

		_, err := tx.InsertBlock(ctx, model.Block{Hash: []byte{0x04}})
		require.Error(t, err)
		require.NoError(t, tx.Rollback())
	})
}

func TestTx_InsertCatalystTransactions(t *testing.T) {
	ctx := context.Background()
	repo, mock, metrics := newTestRepository(t)
	tx := beginTx(t, repo, mock, metrics)

	rows := []model.CatalystTransaction{
		{Hash: "aa", BlockID: 3, TxIndex: 0, Metadata: json.RawMessage(`{}`), MetadataLabels: json.RawMessage(`[61284]`), Inputs: json.RawMessage(`[]`), Outputs: json.RawMessage(`[]`), IsValid: true},
		{Hash: "bb", BlockID: 3, TxIndex: 4, Metadata: json.RawMessage(`{}`), MetadataLabels: json.RawMessage(`[61285]`), Inputs: json.RawMessage(`[]`), Outputs: json.RawMessage(`[]`)},
	}

	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO catalyst_txn ("))
	prep.ExpectQuery().
		WithArgs("aa", int64(3), int64(0), "{}", "[61284]", "[]", "[]", true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(30)))
	prep.ExpectQuery().
		WithArgs("bb", int64(3), int64(4), "{}", "[61285]", "[]", "[]", false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(31)))
	metrics.EXPECT().Observe("insert_catalyst_transactions", nil, gomock.Any())

	got, err := tx.InsertCatalystTransactions(ctx, rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(30), got[0].ID)
	require.Equal(t, int64(31), got[1].ID)
	require.Zero(t, rows[0].ID)
}

func TestTx_InsertCatalystTransactions_empty(t *testing.T) {
	repo, mock, metrics := newTestRepository(t)
	tx := beginTx(t, repo, mock, metrics)
	metrics.EXPECT().Observe("insert_catalyst_transactions", nil, gomock.Any())

	got, err := tx.InsertCatalystTransactions(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTx_CatalystTransactionsByHashes(t *testing.T) {
	ctx := context.Background()
	repo, mock, metrics := newTestRepository(t)
	tx := beginTx(t, repo, mock, metrics)

	columns := []string{"id", "hash", "block_id", "tx_index", "metadata", "metadata_labels", "inputs", "outputs", "is_valid", "payload"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE hash IN ($1, $2) ORDER BY block_id, tx_index")).
		WithArgs("aa", "bb").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "aa", int64(9), int64(2), []byte(`{"61284":{"int":1}}`), []byte(`[61284]`), []byte(`[]`), []byte(`[]`), true, nil))
	metrics.EXPECT().Observe("catalyst_transactions_by_hashes", nil, gomock.Any())

	got, err := tx.CatalystTransactionsByHashes(ctx, []string{"aa", "bb"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int32(2), got[0].TxIndex)
	require.True(t, got[0].IsValid)
	require.JSONEq(t, `[61284]`, string(got[0].MetadataLabels))
}

func TestTx_InsertCatalystRegistrations(t *testing.T) {
	ctx := context.Background()
	repo, mock, metrics := newTestRepository(t)
	tx := beginTx(t, repo, mock, metrics)

	nonce := uint64(42)
	regs := []model.CatalystRegistration{
		{
			CatalystTransactionID: 5,
			BlockID:               2,
			TxIndex:               1,
			TxType:                model.RegistrationCIP36,
			StakeKey:              "stake1xyz",
			Nonce:                 &nonce,
			Delegations:           []model.VoterDelegation{{VotingKey: "11", Weight: 1}},
		},
	}

	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO catalyst_registration ("))
	prep.ExpectExec().
		WithArgs(
			int64(5), int64(2), int64(1), "cip36",
			"stake1xyz", nil, nil, nil,
			int64(42), nil,
			`[{"voting_key":"11","weight":1}]`,
			nil, nil, sqlmock.AnyArg(), nil,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	metrics.EXPECT().Observe("insert_catalyst_registrations", nil, gomock.Any())

	require.NoError(t, tx.InsertCatalystRegistrations(ctx, regs))
}
