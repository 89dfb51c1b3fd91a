package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker is not available, skipping dao tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=marketplace_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		dsn := fmt.Sprintf(
			"host=localhost port=%s user=postgres password=secret dbname=marketplace_test sslmode=disable",
			resource.GetPort("5432/tcp"),
		)

		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

// requireDB skips a test when docker never came up.
func requireDB(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	if testDB == nil {
		t.Skip("database not available")
	}
}

func truncateTables(t *testing.T) {
	t.Helper()

	err := testDB.Exec(`TRUNCATE listings, assets, accounts, users, settings RESTART IDENTITY`).Error
	if err != nil {
		t.Fatalf("could not truncate tables: %v", err)
	}
}

const (
	daoSeller = "0x1111111111111111111111111111111111111111"
	daoBuyer  = "0x2222222222222222222222222222222222222222"
	daoOther  = "0x3333333333333333333333333333333333333333"
)

func TestListingDAO_Insert_ActiveUniqueness(t *testing.T) {
	requireDB(t)
	truncateTables(t)

	d := NewListingDAO(testDB)
	ctx := context.Background()

	_, err := d.Insert(ctx, Listing{TokenID: 7, Seller: daoSeller, Price: 100, State: "active"})
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err = d.Insert(ctx, Listing{TokenID: 7, Seller: daoSeller, Price: 200, State: "active"})
	if err != ErrItemAlreadyListed {
		t.Fatalf("expected ErrItemAlreadyListed, got %v", err)
	}

	// A terminal listing does not block a new active one.
	if err = d.UpdateState(ctx, 7, "cancelled"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err = d.Insert(ctx, Listing{TokenID: 7, Seller: daoSeller, Price: 200, State: "active"}); err != nil {
		t.Fatalf("relist failed: %v", err)
	}
}

func TestListingDAO_UpdateState_TerminalIsFinal(t *testing.T) {
	requireDB(t)
	truncateTables(t)

	d := NewListingDAO(testDB)
	ctx := context.Background()

	_, err := d.Insert(ctx, Listing{TokenID: 7, Seller: daoSeller, Price: 100, State: "active"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err = d.UpdateState(ctx, 7, "fulfilled"); err != nil {
		t.Fatalf("fulfil failed: %v", err)
	}

	if err = d.UpdateState(ctx, 7, "cancelled"); err != ErrListingNotActive {
		t.Fatalf("expected ErrListingNotActive, got %v", err)
	}

	if _, err = d.FindActiveByTokenID(ctx, 7); err != ErrListingNotFound {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestSettlementDAO_ExecuteExchange(t *testing.T) {
	requireDB(t)

	seed := func(t *testing.T, balance uint64, approved bool) {
		t.Helper()
		truncateTables(t)

		operator := ""
		if approved {
			operator = MarketplaceOperator
		}

		if err := testDB.Create(&Asset{TokenID: 7, Owner: daoSeller, ApprovedOperator: operator}).Error; err != nil {
			t.Fatalf("seed asset: %v", err)
		}
		if err := testDB.Create(&Account{Address: daoBuyer, Balance: balance}).Error; err != nil {
			t.Fatalf("seed account: %v", err)
		}
		if _, err := NewListingDAO(testDB).Insert(context.Background(), Listing{
			TokenID: 7, Seller: daoSeller, Price: 1000, RoyaltyRecipient: daoOther, RoyaltyBp: 1000, State: "active",
		}); err != nil {
			t.Fatalf("seed listing: %v", err)
		}
	}

	exchange := Exchange{
		TokenID:  7,
		Seller:   daoSeller,
		Buyer:    daoBuyer,
		Tendered: 1000,
		Payouts: []Payout{
			{To: daoOther, Amount: 100},
			{To: daoSeller, Amount: 900},
		},
	}

	t.Run("commits transfer, debit, payouts and fulfilment together", func(t *testing.T) {
		seed(t, 1500, true)

		d := NewSettlementDAO(testDB)
		if err := d.ExecuteExchange(context.Background(), exchange); err != nil {
			t.Fatalf("exchange failed: %v", err)
		}

		var asset Asset
		if err := testDB.Where("token_id = ?", 7).First(&asset).Error; err != nil {
			t.Fatalf("load asset: %v", err)
		}
		if asset.Owner != daoBuyer {
			t.Errorf("owner = %q, want buyer", asset.Owner)
		}
		if asset.ApprovedOperator != "" {
			t.Errorf("approval not consumed: %q", asset.ApprovedOperator)
		}

		var buyer, seller, recipient Account
		testDB.Where("address = ?", daoBuyer).First(&buyer)
		testDB.Where("address = ?", daoSeller).First(&seller)
		testDB.Where("address = ?", daoOther).First(&recipient)
		if buyer.Balance != 500 {
			t.Errorf("buyer balance = %d, want 500", buyer.Balance)
		}
		if seller.Balance != 900 {
			t.Errorf("seller balance = %d, want 900", seller.Balance)
		}
		if recipient.Balance != 100 {
			t.Errorf("recipient balance = %d, want 100", recipient.Balance)
		}

		var listing Listing
		testDB.Where("token_id = ?", 7).First(&listing)
		if listing.State != "fulfilled" {
			t.Errorf("listing state = %q, want fulfilled", listing.State)
		}
	})

	t.Run("insufficient balance rolls everything back", func(t *testing.T) {
		seed(t, 500, true)

		d := NewSettlementDAO(testDB)
		if err := d.ExecuteExchange(context.Background(), exchange); err != ErrDisbursementRejected {
			t.Fatalf("expected ErrDisbursementRejected, got %v", err)
		}

		var asset Asset
		testDB.Where("token_id = ?", 7).First(&asset)
		if asset.Owner != daoSeller {
			t.Errorf("owner changed on a failed exchange: %q", asset.Owner)
		}

		var buyer Account
		testDB.Where("address = ?", daoBuyer).First(&buyer)
		if buyer.Balance != 500 {
			t.Errorf("buyer balance = %d, want untouched 500", buyer.Balance)
		}

		var listing Listing
		testDB.Where("token_id = ?", 7).First(&listing)
		if listing.State != "active" {
			t.Errorf("listing state = %q, want active", listing.State)
		}
	})

	t.Run("revoked approval rejects the transfer", func(t *testing.T) {
		seed(t, 1500, false)

		d := NewSettlementDAO(testDB)
		if err := d.ExecuteExchange(context.Background(), exchange); err != ErrTransferRejected {
			t.Fatalf("expected ErrTransferRejected, got %v", err)
		}

		var listing Listing
		testDB.Where("token_id = ?", 7).First(&listing)
		if listing.State != "active" {
			t.Errorf("listing state = %q, want active", listing.State)
		}
	})
}

func TestSettingsDAO_SeedAndUpdate(t *testing.T) {
	requireDB(t)
	truncateTables(t)

	d := NewSettingsDAO(testDB)
	ctx := context.Background()

	err := d.Seed(ctx, Settings{
		PlatformFeeBp:   250,
		MinRoyaltyBp:    500,
		MaxRoyaltyBp:    3000,
		Administrator:   daoSeller,
		PlatformAccount: daoOther,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// A second seed must not clobber administrator changes.
	if err = d.UpdateAdministrator(ctx, daoBuyer); err != nil {
		t.Fatalf("update administrator failed: %v", err)
	}
	if err = d.Seed(ctx, Settings{
		PlatformFeeBp:   999,
		Administrator:   daoSeller,
		PlatformAccount: daoOther,
	}); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	settings, err := d.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if settings.Administrator != daoBuyer {
		t.Errorf("administrator = %q, want the transferred one", settings.Administrator)
	}
	if settings.PlatformFeeBp != 250 {
		t.Errorf("platform_fee_bp = %d, want the original 250", settings.PlatformFeeBp)
	}

	if err = d.UpdateFeeConfig(ctx, 300, 400, 5000); err != nil {
		t.Fatalf("update fee config failed: %v", err)
	}
	settings, _ = d.Get(ctx)
	if settings.PlatformFeeBp != 300 || settings.MinRoyaltyBp != 400 || settings.MaxRoyaltyBp != 5000 {
		t.Errorf("fee config not applied: %+v", settings)
	}
}

func TestAssetDAO_Credit(t *testing.T) {
	requireDB(t)
	truncateTables(t)

	d := NewAssetDAO(testDB)
	ctx := context.Background()

	account, err := d.Credit(ctx, daoBuyer, 1000)
	if err != nil {
		t.Fatalf("first credit failed: %v", err)
	}
	if account.Balance != 1000 {
		t.Errorf("balance = %d, want 1000", account.Balance)
	}

	account, err = d.Credit(ctx, daoBuyer, 500)
	if err != nil {
		t.Fatalf("second credit failed: %v", err)
	}
	if account.Balance != 1500 {
		t.Errorf("balance = %d, want 1500", account.Balance)
	}

	if err = testDB.Model(&Account{}).Where("address = ?", daoBuyer).Update("frozen", true).Error; err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if _, err = d.Credit(ctx, daoBuyer, 1); err != ErrAccountFrozen {
		t.Fatalf("expected ErrAccountFrozen, got %v", err)
	}
}
