package accountsvc_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ojimcy/mcgp-api/model"
	eventsrepo "github.com/ojimcy/mcgp-api/repository/events"
	accountsvc "github.com/ojimcy/mcgp-api/service/account"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

type repoMock struct {
	byUserFn           func(ctx context.Context, userID int64) (*model.Account, error)
	byUserForUpdateFn  func(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error)
	updateBalanceFn    func(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error
	insertTxFn         func(ctx context.Context, tx *sql.Tx, t *model.Transaction) error
	txForUpdateFn      func(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error)
	setTxResultFn      func(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus, completedBy int64, at time.Time) error
	listProfilesFn     func(ctx context.Context, accountID int64) ([]model.WithdrawalProfile, error)
	replaceProfilesFn  func(ctx context.Context, tx *sql.Tx, accountID int64, profiles []model.WithdrawalProfile) error
	listTransactionsFn func(ctx context.Context, userID int64) ([]model.Transaction, error)
}

func (m *repoMock) Create(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	return 0, nil
}
func (m *repoMock) ByUser(ctx context.Context, userID int64) (*model.Account, error) {
	return m.byUserFn(ctx, userID)
}
func (m *repoMock) ByUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error) {
	return m.byUserForUpdateFn(ctx, tx, userID)
}
func (m *repoMock) LockByUsers(ctx context.Context, tx *sql.Tx, userIDs []int64) ([]model.Account, error) {
	return nil, nil
}
func (m *repoMock) UpdateBalance(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error {
	if m.updateBalanceFn == nil {
		return nil
	}
	return m.updateBalanceFn(ctx, tx, accountID, newBalance)
}
func (m *repoMock) InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	if m.insertTxFn == nil {
		t.ID = 1
		return nil
	}
	return m.insertTxFn(ctx, tx, t)
}
func (m *repoMock) InsertTransactionsBatch(ctx context.Context, tx *sql.Tx, ts []model.Transaction) error {
	return nil
}
func (m *repoMock) TransactionForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	return m.txForUpdateFn(ctx, tx, id)
}
func (m *repoMock) SetTransactionResult(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus, completedBy int64, at time.Time) error {
	if m.setTxResultFn == nil {
		return nil
	}
	return m.setTxResultFn(ctx, tx, id, status, completedBy, at)
}
func (m *repoMock) ListTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	if m.listTransactionsFn == nil {
		return nil, nil
	}
	return m.listTransactionsFn(ctx, userID)
}
func (m *repoMock) ListProfiles(ctx context.Context, accountID int64) ([]model.WithdrawalProfile, error) {
	if m.listProfilesFn == nil {
		return nil, nil
	}
	return m.listProfilesFn(ctx, accountID)
}
func (m *repoMock) ReplaceProfiles(ctx context.Context, tx *sql.Tx, accountID int64, profiles []model.WithdrawalProfile) error {
	if m.replaceProfilesFn == nil {
		return nil
	}
	return m.replaceProfilesFn(ctx, tx, accountID, profiles)
}

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func fiatInput(amount int64) accountsvc.WithdrawalInput {
	return accountsvc.WithdrawalInput{
		Method: model.PayoutFiat,
		Amount: amount,
		Details: model.PayoutDetails{
			AccountName:   "Ada Obi",
			AccountNumber: "0123456789",
			BankName:      "GTB",
		},
	}
}

func TestRequestWithdrawal_ReservesFunds(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var reserved int64
	var entry *model.Transaction
	m := &repoMock{
		byUserForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error) {
			return &model.Account{ID: 11, UserID: userID, Balance: 10000}, nil
		},
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error {
			require.Equal(t, int64(11), accountID)
			reserved = newBalance
			return nil
		},
		insertTxFn: func(ctx context.Context, tx *sql.Tx, tr *model.Transaction) error {
			tr.ID = 55
			entry = tr
			return nil
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	tr, err := svc.RequestWithdrawal(context.Background(), 1, fiatInput(4000))
	require.NoError(t, err)
	require.Equal(t, int64(55), tr.ID)

	// Debited at request time, not at completion.
	require.Equal(t, int64(6000), reserved)
	require.Equal(t, model.TxDebit, entry.Type)
	require.Equal(t, model.TxPending, entry.Status)
	require.Equal(t, int64(4000), entry.Amount)
	require.Equal(t, "GTB", entry.Payout.BankName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestWithdrawal_InsufficientBalance(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &repoMock{
		byUserForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error) {
			return &model.Account{ID: 11, UserID: userID, Balance: 3999}, nil
		},
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error {
			t.Fatal("balance must not change on a rejected request")
			return nil
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	_, err := svc.RequestWithdrawal(context.Background(), 1, fiatInput(4000))
	require.Error(t, err)
	require.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestWithdrawal_Validation(t *testing.T) {
	db, _ := newDB(t)
	svc := accountsvc.New(db, &repoMock{}, eventsrepo.Nop{})
	ctx := context.Background()

	_, err := svc.RequestWithdrawal(ctx, 1, fiatInput(0))
	require.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.RequestWithdrawal(ctx, 1, accountsvc.WithdrawalInput{
		Method: model.PayoutFiat,
		Amount: 100,
	})
	require.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.RequestWithdrawal(ctx, 1, accountsvc.WithdrawalInput{
		Method: model.PayoutCrypto,
		Amount: 100,
	})
	require.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.RequestWithdrawal(ctx, 1, accountsvc.WithdrawalInput{
		Method: model.PayoutMethod("cash"),
		Amount: 100,
	})
	require.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}

func TestCompleteWithdrawal_Completed(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &repoMock{
		txForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
			return &model.Transaction{ID: id, UserID: 1, Type: model.TxDebit, Amount: 4000, Status: model.TxPending}, nil
		},
		setTxResultFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus, completedBy int64, at time.Time) error {
			require.Equal(t, model.TxCompleted, status)
			require.Equal(t, int64(9), completedBy)
			return nil
		},
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error {
			t.Fatal("a completed withdrawal was already debited at request time")
			return nil
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	tr, err := svc.CompleteWithdrawal(context.Background(), 9, 55, true)
	require.NoError(t, err)
	require.Equal(t, model.TxCompleted, tr.Status)
	require.NotNil(t, tr.CompletedBy)
	require.Equal(t, int64(9), *tr.CompletedBy)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithdrawal_FailedRestoresBalance(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var restored int64
	m := &repoMock{
		txForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
			return &model.Transaction{ID: id, UserID: 1, Type: model.TxDebit, Amount: 4000, Status: model.TxPending}, nil
		},
		byUserForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error) {
			return &model.Account{ID: 11, UserID: userID, Balance: 6000}, nil
		},
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error {
			restored = newBalance
			return nil
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	tr, err := svc.CompleteWithdrawal(context.Background(), 9, 55, false)
	require.NoError(t, err)
	require.Equal(t, model.TxFailed, tr.Status)
	require.Equal(t, int64(10000), restored)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithdrawal_NotPending(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &repoMock{
		txForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
			return &model.Transaction{ID: id, UserID: 1, Amount: 4000, Status: model.TxCompleted}, nil
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	_, err := svc.CompleteWithdrawal(context.Background(), 9, 55, true)
	require.Error(t, err)
	require.Equal(t, apperr.InvalidState, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithdrawal_NotFound(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &repoMock{
		txForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	_, err := svc.CompleteWithdrawal(context.Background(), 9, 404, true)
	require.Error(t, err)
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithdrawalDetails(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var saved []model.WithdrawalProfile
	m := &repoMock{
		byUserFn: func(ctx context.Context, userID int64) (*model.Account, error) {
			return &model.Account{ID: 11, UserID: userID}, nil
		},
		replaceProfilesFn: func(ctx context.Context, tx *sql.Tx, accountID int64, profiles []model.WithdrawalProfile) error {
			require.Equal(t, int64(11), accountID)
			saved = profiles
			return nil
		},
	}
	svc := accountsvc.New(db, m, eventsrepo.Nop{})

	profiles := []model.WithdrawalProfile{
		{Method: model.PayoutFiat, Details: model.PayoutDetails{AccountNumber: "0123456789", BankName: "GTB"}},
		{Method: model.PayoutCrypto, Details: model.PayoutDetails{WalletAddress: "0xabc", Symbol: "USDT", Network: "TRC20"}},
	}
	require.NoError(t, svc.UpdateWithdrawalDetails(context.Background(), 1, profiles))
	require.Len(t, saved, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithdrawalDetails_BadMethod(t *testing.T) {
	db, _ := newDB(t)
	svc := accountsvc.New(db, &repoMock{}, eventsrepo.Nop{})

	err := svc.UpdateWithdrawalDetails(context.Background(), 1, []model.WithdrawalProfile{
		{Method: model.PayoutMethod("cash")},
	})
	require.Error(t, err)
	require.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}
