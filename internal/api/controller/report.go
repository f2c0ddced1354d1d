package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
)

// defaultWindowDays is the daily-series window returned when the request
// does not ask for a specific depth.
const defaultWindowDays = 15

func intQueryParam(ctx echo.Context, name string, fallback int) int {
	raw := ctx.QueryParams().Get(name)
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func (c *Controller) GetNationalCases(ctx echo.Context) error {
	days := intQueryParam(ctx, "days", defaultWindowDays)

	window, err := c.reportService.NationalCases(ctx.Request().Context(), days)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, window)
}

func (c *Controller) GetRegionCases(ctx echo.Context) error {
	name := ctx.Param("name")
	days := intQueryParam(ctx, "days", defaultWindowDays)

	window, err := c.reportService.RegionCases(ctx.Request().Context(), name, days)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, window)
}

func (c *Controller) GetProvinceCases(ctx echo.Context) error {
	name := ctx.Param("name")
	days := intQueryParam(ctx, "days", defaultWindowDays)

	window, err := c.reportService.ProvinceCases(ctx.Request().Context(), name, days)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, window)
}

func (c *Controller) GetTotalCasesDelta(ctx echo.Context) error {
	opts := report.DeltaOptions{
		Region:       ctx.QueryParams().Get("region"),
		AllProvinces: ctx.QueryParams().Get("all_provinces") == "true",
		Offset:       intQueryParam(ctx, "offset", 0),
		Limit:        intQueryParam(ctx, "limit", 0),
	}

	deltas, err := c.reportService.TotalCasesDelta(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, deltas)
}

func (c *Controller) GetCurrentlyPositiveRanking(ctx echo.Context) error {
	ranking, err := c.reportService.CurrentlyPositiveRanking(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, ranking)
}

func (c *Controller) GetWeeklyCases(ctx echo.Context) error {
	area := ctx.Param("area")
	limit := intQueryParam(ctx, "limit", 8)
	excludeInProgress := ctx.QueryParams().Get("full") == "true"

	weeks, err := c.reportService.WeeklyCases(ctx.Request().Context(), area, limit, excludeInProgress)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, weeks)
}

func (c *Controller) GetWeeklySummary(ctx echo.Context) error {
	includeCurrent := ctx.QueryParams().Get("current") != "false"

	summary, err := c.reportService.WeeklySummary(ctx.Request().Context(), includeCurrent)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, summary)
}

func (c *Controller) GetMeta(ctx echo.Context) error {
	meta, err := c.reportService.Meta(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, meta)
}

func (c *Controller) GetMenu(ctx echo.Context) error {
	name := ctx.Param("name")

	values, err := c.reportService.SelectionMenu(ctx.Request().Context(), name)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, values)
}

func (c *Controller) TriggerRefresh(ctx echo.Context) error {
	outcome, err := c.reportService.Refresh(ctx.Request().Context())
	if err != nil {
		return err
	}

	if outcome.Updated {
		if err := c.notifyService.NotifyRefresh(ctx.Request().Context()); err != nil {
			return err
		}
	}

	return ctx.JSON(http.StatusOK, outcome)
}

func (c *Controller) UnlockRefresh(ctx echo.Context) error {
	if err := c.reportService.Unlock(ctx.Request().Context()); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
