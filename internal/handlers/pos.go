package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/logging"
	"github.com/necohost/pos/internal/mykafka"
	"github.com/necohost/pos/internal/service/coupon"
	"github.com/necohost/pos/internal/service/order"
)

type POSHandler struct {
	DB       *gorm.DB
	Orders   *order.Service
	Coupons  *coupon.Service
	Producer *mykafka.Producer
}

func (h *POSHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderNum"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

// SubmitOrder takes one POS order batch and returns the shared order
// number.
func (h *POSHandler) SubmitOrder(c echo.Context) error {
	var lines []order.Line
	if err := c.Bind(&lines); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(lines) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no order lines")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
		}
	}

	orderNum, err := h.Orders.SubmitOrder(c.Request().Context(), lines)
	if err != nil {
		if errors.Is(err, order.ErrMenuNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "order_submitted",
		"orderNum": orderNum,
		"lines":    len(lines),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"order_num": orderNum,
		"message":   "주문이 완료되었습니다",
	})
}

// ConfirmOrder approves one pending line: state transition, stock
// decrement and receipt notification.
func (h *POSHandler) ConfirmOrder(c echo.Context) error {
	var req struct {
		PK       uint `json:"pk"`
		MenuID   uint `json:"menuId"`
		Quantity int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Orders.ConfirmOrder(c.Request().Context(), req.PK, req.MenuID, req.Quantity); err != nil {
		if errors.Is(err, order.ErrOrderLineNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":   "order_confirmed",
		"lineID": req.PK,
	})

	return c.String(http.StatusOK, "success")
}

// OrderDates lists distinct dates that still carry pending lines.
func (h *POSHandler) OrderDates(c echo.Context) error {
	dates, err := h.Orders.PendingOrderDates(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dates)
}

// OrderNums lists pending order numbers for a date (today by default).
func (h *POSHandler) OrderNums(c echo.Context) error {
	date, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	nums, err := h.Orders.PendingOrderNums(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, nums)
}

// OrderLines returns all lines of one order batch.
func (h *POSHandler) OrderLines(c echo.Context) error {
	orderNum := parseIntDefault(c.QueryParam("orderNum"), 0)
	if orderNum <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid orderNum")
	}
	date, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	sales, err := h.Orders.OrdersByNumAndDate(c.Request().Context(), uint(orderNum), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sales)
}

func (h *POSHandler) MakeCoupon(c echo.Context) error {
	code, err := h.Coupons.Issue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusOK, code)
}

func (h *POSHandler) ApplyCoupon(c echo.Context) error {
	var req struct {
		CouponNum string `json:"couponNum"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	valid, err := h.Coupons.Redeem(c.Request().Context(), req.CouponNum)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": valid})
}

func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}
