package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
)

type subscribeRequest struct {
	ChatID int64 `json:"chat_id" validate:"required"`
}

func (c *Controller) Subscribe(ctx echo.Context) error {
	var req subscribeRequest
	if err := ctx.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", constants.ErrBadRequest, err)
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := c.store.AddSubscriber(ctx.Request().Context(), req.ChatID, time.Now()); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusCreated)
}

func (c *Controller) Unsubscribe(ctx echo.Context) error {
	chatID, err := strconv.ParseInt(ctx.Param("chat_id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid chat_id", constants.ErrBadRequest)
	}

	if err := c.store.RemoveSubscriber(ctx.Request().Context(), chatID); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
