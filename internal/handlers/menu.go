package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/logging"
	"github.com/necohost/pos/internal/models"
	"github.com/necohost/pos/internal/mykafka"
	"github.com/necohost/pos/internal/service/search"
)

type MenuHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *MenuHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "menu_events", fmt.Sprint(event["menuID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func (h *MenuHandler) index(c echo.Context, menu models.Menu) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.IndexMenu(ctx, h.ES, h.Index, menu); err != nil {
		logging.FromContext(ctx).Error("menu index error", "menu_id", menu.ID, "error", err)
	}
}

func (h *MenuHandler) Categories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("id").Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, categories)
}

// MenusByCategory lists the menus of one category for the POS screen.
func (h *MenuHandler) MenusByCategory(c echo.Context) error {
	categoryID := parseIntDefault(c.QueryParam("category"), 0)
	if categoryID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	var menus []models.Menu
	if err := h.DB.Where("category_id = ?", categoryID).Order("id").Find(&menus).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, menus)
}

func (h *MenuHandler) GetMenu(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var menu models.Menu
	if err := h.DB.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, menu)
}

type menuRequest struct {
	Name       string  `json:"name"`
	CategoryID uint    `json:"category_id"`
	Price      float64 `json:"price"`
	Cost       float64 `json:"cost"`
	Stock      int     `json:"stock"`
}

func (h *MenuHandler) CreateMenu(c echo.Context) error {
	var req menuRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	menu := models.Menu{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		Cost:       req.Cost,
		Stock:      req.Stock,
	}
	if err := h.DB.Create(&menu).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":   "menu_created",
		"menuID": menu.ID,
		"name":   menu.Name,
	})
	h.index(c, menu)

	return c.JSON(http.StatusCreated, menu)
}

func (h *MenuHandler) PatchMenu(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req menuRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var menu models.Menu
	if err := h.DB.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	menu.Name = req.Name
	menu.CategoryID = req.CategoryID
	menu.Price = req.Price
	menu.Cost = req.Cost
	menu.Stock = req.Stock

	if err := h.DB.Save(&menu).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":   "menu_updated",
		"menuID": menu.ID,
		"name":   menu.Name,
	})
	h.index(c, menu)

	return c.JSON(http.StatusOK, menu)
}

func (h *MenuHandler) DeleteMenu(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.DB.Delete(&models.Menu{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":   "menu_deleted",
		"menuID": id,
	})
	if h.ES != nil {
		ctx := c.Request().Context()
		if err := search.DeleteMenu(ctx, h.ES, h.Index, uint(id)); err != nil {
			logging.FromContext(ctx).Error("menu index delete error", "menu_id", id, "error", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}
