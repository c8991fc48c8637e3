package accountrepo_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojimcy/mcgp-api/model"
	accountrepo "github.com/ojimcy/mcgp-api/repository/account"
)

// passthrough lets slice arguments (pgx array binds) reach the mock untouched.
type passthrough struct{}

func (passthrough) ConvertValue(v any) (driver.Value, error) { return driver.Value(v), nil }

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthrough{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func begin(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

func TestByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
				AddRow(int64(11), int64(1), int64(5000), now))

		a, err := repo.ByUser(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(11), a.ID)
		assert.Equal(t, int64(5000), a.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at`)).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.ByUser(ctx, 404)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLockByUsers(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	tx := begin(t, db, mock)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = ANY($1)
ORDER BY user_id
FOR UPDATE`)).
		WithArgs([]int64{1, 2}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
			AddRow(int64(11), int64(1), int64(500), now).
			AddRow(int64(12), int64(2), int64(0), now))

	accounts, err := repo.LockByUsers(ctx, tx, []int64{1, 2})
	assert.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(1), accounts[0].UserID)
	assert.Equal(t, int64(2), accounts[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBalance(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()

	tx := begin(t, db, mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET balance = $2 WHERE id = $1`)).
		WithArgs(int64(11), int64(6500)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateBalance(ctx, tx, 11, 6500))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	tx := begin(t, db, mock)
	method := model.PayoutFiat
	tr := &model.Transaction{
		UserID:        1,
		Type:          model.TxDebit,
		Amount:        4000,
		Description:   "Withdrawal request",
		Status:        model.TxPending,
		PaymentMethod: &method,
		Payout: model.PayoutDetails{
			AccountName:   "Ada Obi",
			AccountNumber: "0123456789",
			BankName:      "GTB",
		},
	}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions`)).
		WithArgs(int64(1), model.TxDebit, int64(4000), "Withdrawal request", model.TxPending, &method,
			"Ada Obi", "0123456789", "GTB", "", "", "", (*int64)(nil)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(55), now))

	err := repo.InsertTransaction(ctx, tx, tr)
	assert.NoError(t, err)
	assert.Equal(t, int64(55), tr.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTransactionsBatch(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		tx := begin(t, db, mock)
		assert.NoError(t, repo.InsertTransactionsBatch(ctx, tx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		tx := begin(t, db, mock)
		oid := int64(7)
		ts := []model.Transaction{
			{UserID: 1, Type: model.TxCredit, Amount: 6000, Description: "Sale proceeds for order #7", Status: model.TxCompleted, OrderID: &oid},
			{UserID: 2, Type: model.TxCredit, Amount: 1000, Description: "Sale proceeds for order #7", Status: model.TxCompleted, OrderID: &oid},
		}
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO transactions (user_id, type, amount, description, status, order_id)`)).
			WithArgs(
				[]int64{1, 2},
				[]string{"credit", "credit"},
				[]int64{6000, 1000},
				[]string{"Sale proceeds for order #7", "Sale proceeds for order #7"},
				[]string{"completed", "completed"},
				[]int64{7, 7},
			).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.InsertTransactionsBatch(ctx, tx, ts))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetTransactionResult(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	tx := begin(t, db, mock)
	mock.ExpectExec(regexp.QuoteMeta(`SET status = $2, completed_by = $3, completed_at = $4`)).
		WithArgs(int64(55), model.TxFailed, int64(9), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetTransactionResult(ctx, tx, 55, model.TxFailed, 9, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceProfiles(t *testing.T) {
	db, mock := newMock(t)
	repo := accountrepo.New(db)
	ctx := context.Background()

	tx := begin(t, db, mock)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM withdrawal_profiles WHERE account_id = $1`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO withdrawal_profiles`)).
		WithArgs(int64(11), model.PayoutFiat, "Ada Obi", "0123456789", "GTB", "", "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO withdrawal_profiles`)).
		WithArgs(int64(11), model.PayoutCrypto, "", "", "", "0xabc", "USDT", "TRC20").
		WillReturnResult(sqlmock.NewResult(2, 1))

	profiles := []model.WithdrawalProfile{
		{Method: model.PayoutFiat, Details: model.PayoutDetails{AccountName: "Ada Obi", AccountNumber: "0123456789", BankName: "GTB"}},
		{Method: model.PayoutCrypto, Details: model.PayoutDetails{WalletAddress: "0xabc", Symbol: "USDT", Network: "TRC20"}},
	}
	assert.NoError(t, repo.ReplaceProfiles(ctx, tx, 11, profiles))
	assert.NoError(t, mock.ExpectationsWereMet())
}
