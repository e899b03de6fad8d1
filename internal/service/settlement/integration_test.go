package settlement_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/repository"
	"github.com/gigboard/marketplace-api/internal/service/settlement"
	"github.com/gigboard/marketplace-api/internal/testutil"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setupEngine(t *testing.T, db *sql.DB) *settlement.Service {
	t.Helper()
	return settlement.NewService(
		repository.NewProfileRepository(db),
		repository.NewJobRepository(db),
		repository.NewSettlementRepository(db),
		db,
		0.25,
	)
}

func TestPayJob_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("10"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, dec("10"))

	totalBefore := testutil.SumBalances(t, db)

	paid, err := svc.PayJob(ctx, client, job.ID)
	require.NoError(t, err)

	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaymentDate)

	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("0")))
	assert.True(t, testutil.GetBalance(t, db, contractor.ID).Equal(dec("10")))

	stored := testutil.GetJob(t, db, job.ID)
	assert.True(t, stored.Paid)
	assert.NotNil(t, stored.PaymentDate)

	// Conservation: a payment moves funds, it never creates or destroys them.
	assert.True(t, testutil.SumBalances(t, db).Equal(totalBefore))

	assert.Equal(t, 1, testutil.CountSettlementsForJob(t, db, job.ID))
}

func TestPayJob_AlreadyPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("100"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, dec("10"))

	_, err := svc.PayJob(ctx, client, job.ID)
	require.NoError(t, err)

	_, err = svc.PayJob(ctx, client, job.ID)
	require.ErrorIs(t, err, domain.ErrJobNotFound)

	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("90")))
	assert.True(t, testutil.GetBalance(t, db, contractor.ID).Equal(dec("10")))
	assert.Equal(t, 1, testutil.CountSettlementsForJob(t, db, job.ID))
}

func TestPayJob_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("5"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, dec("10"))

	_, err := svc.PayJob(ctx, client, job.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("5")))
	assert.True(t, testutil.GetBalance(t, db, contractor.ID).Equal(dec("0")))

	stored := testutil.GetJob(t, db, job.ID)
	assert.False(t, stored.Paid)
	assert.Nil(t, stored.PaymentDate)
	assert.Equal(t, 0, testutil.CountSettlementsForJob(t, db, job.ID))
}

func TestPayJob_CallerMustBeClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("100"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, dec("10"))

	_, err := svc.PayJob(ctx, contractor, job.ID)
	require.ErrorIs(t, err, domain.ErrInvalidProfileType)

	stored := testutil.GetJob(t, db, job.ID)
	assert.False(t, stored.Paid)
}

func TestPayJob_NotAPartyOnContract(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("100"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	outsider := testutil.SeedClient(t, db, "Eve", dec("100"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, dec("10"))

	_, err := svc.PayJob(ctx, outsider, job.ID)
	require.ErrorIs(t, err, domain.ErrJobNotFound)

	assert.True(t, testutil.GetBalance(t, db, outsider.ID).Equal(dec("100")))
	assert.False(t, testutil.GetJob(t, db, job.ID).Paid)
}

func TestPayJob_ConcurrentDoublePayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("100"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, dec("10"))

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PayJob(ctx, client, job.ID)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrJobNotFound)
			failures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one payment should succeed")
	assert.Equal(t, 1, failures, "exactly one payment should fail")

	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("90")), "client debited exactly once")
	assert.True(t, testutil.GetBalance(t, db, contractor.ID).Equal(dec("10")), "contractor credited exactly once")
	assert.Equal(t, 1, testutil.CountSettlementsForJob(t, db, job.ID))
}

func TestDeposit_CapAgainstOutstandingJobs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("0"))
	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, domain.ContractStatusInProgress)
	testutil.SeedJob(t, db, contract.ID, dec("60"))
	testutil.SeedJob(t, db, contract.ID, dec("40"))

	// 30 > 25% of 100
	_, err := svc.Deposit(ctx, client.ID, dec("30"))
	require.ErrorIs(t, err, domain.ErrDepositCapExceeded)
	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("0")))

	// 25 is exactly at the cap
	profile, err := svc.Deposit(ctx, client.ID, dec("25"))
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(dec("25")))
	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("25")))
}

func TestDeposit_NoOutstandingJobsRejectsAnyAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("0"))

	_, err := svc.Deposit(ctx, client.ID, dec("1"))
	require.ErrorIs(t, err, domain.ErrDepositCapExceeded)
	assert.True(t, testutil.GetBalance(t, db, client.ID).Equal(dec("0")))
}

func TestDeposit_NonClientRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	contractor := testutil.SeedContractor(t, db, "Grace", "programmer", dec("0"))

	_, err := svc.Deposit(ctx, contractor.ID, dec("10"))
	require.ErrorIs(t, err, domain.ErrInvalidProfileType)
}

func TestDeposit_UnknownProfileRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, 999999, dec("10"))
	require.ErrorIs(t, err, domain.ErrInvalidProfileType)
}

func TestDeposit_AmountBelowMinimum(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	client := testutil.SeedClient(t, db, "Ada", dec("0"))

	for _, amount := range []string{"0", "0.99", "-5"} {
		_, err := svc.Deposit(ctx, client.ID, dec(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %s", amount)
	}
}
