package coupon

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"gorm.io/gorm"

	"github.com/necohost/pos/internal/logging"
	"github.com/necohost/pos/internal/models"
	"github.com/necohost/pos/internal/notify"
)

type Service struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

// Issue generates a 16-digit coupon code (hyphen-grouped every four
// digits), persists it unused and pushes an issuance alert.
func (s *Service) Issue(ctx context.Context) (string, error) {
	l := logging.FromContext(ctx).With("service", "coupon_issue")

	code := NewCode()
	coupon := models.Coupon{Code: code, Process: models.CouponUnused}
	if err := s.DB.WithContext(ctx).Create(&coupon).Error; err != nil {
		return "", fmt.Errorf("persist coupon: %w", err)
	}

	s.Notifier.Send(ctx, "쿠폰이 발급되었습니다 : "+code)

	l.Info("coupon_issued")
	return code, nil
}

// Redeem reports whether code names an issued, still-unused coupon. It
// is a pure validity check and does not consume the coupon.
func (s *Service) Redeem(ctx context.Context, code string) (bool, error) {
	var coupon models.Coupon
	if err := s.DB.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load coupon: %w", err)
	}
	return coupon.Process == models.CouponUnused, nil
}

func NewCode() string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, "%d", rand.IntN(10))
		if (i+1)%4 == 0 && i != 15 {
			b.WriteByte('-')
		}
	}
	return b.String()
}
