package coupon

import (
	"context"
	"regexp"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/config"
	"github.com/necohost/pos/internal/models"
	"github.com/necohost/pos/internal/notify"
)

var codePattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{4}$`)

func newService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return &Service{DB: db, Notifier: &notify.Notifier{}}, db
}

func TestNewCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewCode()
		require.Len(t, code, 19)
		require.Regexp(t, codePattern, code)
	}
}

func TestIssuePersistsUnusedCoupon(t *testing.T) {
	svc, db := newService(t)

	code, err := svc.Issue(context.Background())
	require.NoError(t, err)
	require.Regexp(t, codePattern, code)

	var stored models.Coupon
	require.NoError(t, db.Where("code = ?", code).First(&stored).Error)
	require.Equal(t, models.CouponUnused, stored.Process)
}

func TestIssueTwiceYieldsDistinctCodes(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx)
	require.NoError(t, err)
	second, err := svc.Issue(ctx)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestRedeem(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx)
	require.NoError(t, err)

	valid, err := svc.Redeem(ctx, code)
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = svc.Redeem(ctx, "0000-0000-0000-0000")
	require.NoError(t, err)
	require.False(t, valid)

	// a used coupon is no longer valid
	require.NoError(t, db.Model(&models.Coupon{}).
		Where("code = ?", code).
		Update("process", models.CouponUsed).Error)

	valid, err = svc.Redeem(ctx, code)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestRedeemDoesNotConsumeTheCoupon(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		valid, err := svc.Redeem(ctx, code)
		require.NoError(t, err)
		require.True(t, valid)
	}

	var stored models.Coupon
	require.NoError(t, db.Where("code = ?", code).First(&stored).Error)
	require.Equal(t, models.CouponUnused, stored.Process)
}
