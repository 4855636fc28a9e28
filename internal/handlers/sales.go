package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/necohost/pos/internal/service/sales"
)

type SalesHandler struct {
	Svc *sales.Service
}

func todayParams(c echo.Context) (int, time.Month, int) {
	now := time.Now()
	year := parseIntDefault(c.QueryParam("year"), now.Year())
	month := parseIntDefault(c.QueryParam("month"), int(now.Month()))
	day := parseIntDefault(c.QueryParam("day"), now.Day())
	return year, time.Month(month), day
}

func rangeParams(c echo.Context) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.QueryParam("start"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("end"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// inclusive end date
	return start, end.AddDate(0, 0, 1), nil
}

func (h *SalesHandler) Day(c echo.Context) error {
	year, month, day := todayParams(c)
	total, err := h.Svc.TotalByDay(c.Request().Context(), year, month, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

func (h *SalesHandler) Week(c echo.Context) error {
	year, month, day := todayParams(c)
	weekly, err := h.Svc.WeeklyByDay(c.Request().Context(), year, month, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, weekly)
}

func (h *SalesHandler) Month(c echo.Context) error {
	year, month, _ := todayParams(c)
	total, err := h.Svc.TotalByMonth(c.Request().Context(), year, month)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

func (h *SalesHandler) Monthly(c echo.Context) error {
	monthly, err := h.Svc.MonthlyTotals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, monthly)
}

func (h *SalesHandler) Year(c echo.Context) error {
	year, _, _ := todayParams(c)
	total, err := h.Svc.TotalByYear(c.Request().Context(), year)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

func (h *SalesHandler) Growth(c echo.Context) error {
	year, month, _ := todayParams(c)
	rate, err := h.Svc.GrowthRate(c.Request().Context(), year, month)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"growth_rate": rate})
}

func (h *SalesHandler) ByCategory(c echo.Context) error {
	start, end, err := rangeParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date range")
	}

	ctx := c.Request().Context()
	totals, err := h.Svc.TotalsByCategory(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	quantities, err := h.Svc.QuantityByCategory(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"totals": totals, "quantities": quantities})
}

func (h *SalesHandler) ByMenu(c echo.Context) error {
	start, end, err := rangeParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date range")
	}

	ctx := c.Request().Context()
	totals, err := h.Svc.TotalsByMenu(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	quantities, err := h.Svc.QuantityByMenu(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"totals": totals, "quantities": quantities})
}

func (h *SalesHandler) MenuSummary(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	summary, err := h.Svc.MenuSummary(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, sales.ErrMenuNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}
