package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
)

func SeedProfile(t *testing.T, db *sql.DB, firstName, lastName, profession string, profileType domain.ProfileType, balance decimal.Decimal) *domain.Profile {
	t.Helper()

	p := &domain.Profile{
		FirstName:  firstName,
		LastName:   lastName,
		Profession: profession,
		Balance:    balance,
		Type:       profileType,
		CreatedAt:  time.Now().UTC(),
	}

	err := db.QueryRow(
		`INSERT INTO profiles (first_name, last_name, profession, balance, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.FirstName, p.LastName, p.Profession, p.Balance, p.Type, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		t.Fatalf("seed profile %s %s: %v", firstName, lastName, err)
	}
	return p
}

func SeedClient(t *testing.T, db *sql.DB, name string, balance decimal.Decimal) *domain.Profile {
	t.Helper()
	return SeedProfile(t, db, name, "Client", "", domain.ProfileTypeClient, balance)
}

func SeedContractor(t *testing.T, db *sql.DB, name, profession string, balance decimal.Decimal) *domain.Profile {
	t.Helper()
	return SeedProfile(t, db, name, "Contractor", profession, domain.ProfileTypeContractor, balance)
}

func SeedContract(t *testing.T, db *sql.DB, clientID, contractorID int64, status domain.ContractStatus) *domain.Contract {
	t.Helper()

	c := &domain.Contract{
		ClientID:     clientID,
		ContractorID: contractorID,
		Terms:        "standard terms",
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}

	err := db.QueryRow(
		`INSERT INTO contracts (client_id, contractor_id, terms, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.ClientID, c.ContractorID, c.Terms, c.Status, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		t.Fatalf("seed contract %d/%d: %v", clientID, contractorID, err)
	}
	return c
}

func SeedJob(t *testing.T, db *sql.DB, contractID int64, price decimal.Decimal) *domain.Job {
	t.Helper()

	j := &domain.Job{
		ContractID:  contractID,
		Description: "work",
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}

	err := db.QueryRow(
		`INSERT INTO jobs (contract_id, description, price, paid, created_at)
		 VALUES ($1, $2, $3, FALSE, $4)
		 RETURNING id`,
		j.ContractID, j.Description, j.Price, j.CreatedAt,
	).Scan(&j.ID)
	if err != nil {
		t.Fatalf("seed job on contract %d: %v", contractID, err)
	}
	return j
}

func SeedPaidJob(t *testing.T, db *sql.DB, contractID int64, price decimal.Decimal, paidAt time.Time) *domain.Job {
	t.Helper()

	j := &domain.Job{
		ContractID:  contractID,
		Description: "work",
		Price:       price,
		Paid:        true,
		PaymentDate: &paidAt,
		CreatedAt:   paidAt,
	}

	err := db.QueryRow(
		`INSERT INTO jobs (contract_id, description, price, paid, payment_date, created_at)
		 VALUES ($1, $2, $3, TRUE, $4, $5)
		 RETURNING id`,
		j.ContractID, j.Description, j.Price, j.PaymentDate, j.CreatedAt,
	).Scan(&j.ID)
	if err != nil {
		t.Fatalf("seed paid job on contract %d: %v", contractID, err)
	}
	return j
}

func GetBalance(t *testing.T, db *sql.DB, profileID int64) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM profiles WHERE id = $1`, profileID).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance for profile %d: %v", profileID, err)
	}
	return balance
}

func SumBalances(t *testing.T, db *sql.DB) decimal.Decimal {
	t.Helper()

	var total decimal.Decimal
	err := db.QueryRow(`SELECT COALESCE(SUM(balance), 0) FROM profiles`).Scan(&total)
	if err != nil {
		t.Fatalf("sum balances: %v", err)
	}
	return total
}

func GetJob(t *testing.T, db *sql.DB, jobID int64) *domain.Job {
	t.Helper()

	var j domain.Job
	err := db.QueryRow(
		`SELECT id, contract_id, description, price, paid, payment_date, created_at
		 FROM jobs WHERE id = $1`, jobID,
	).Scan(&j.ID, &j.ContractID, &j.Description, &j.Price, &j.Paid, &j.PaymentDate, &j.CreatedAt)
	if err != nil {
		t.Fatalf("get job %d: %v", jobID, err)
	}
	return &j
}

func CountSettlementsForJob(t *testing.T, db *sql.DB, jobID int64) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM settlements WHERE job_id = $1`, jobID).Scan(&count)
	if err != nil {
		t.Fatalf("count settlements for job %d: %v", jobID, err)
	}
	return count
}
