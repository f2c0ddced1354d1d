package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/floatingpurr/covid-19-ita-bot/internal/api/controller"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/notify"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type APIService struct {
	router        *echo.Echo
	reportService *report.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(st store.Store, reportService *report.Service, notifyService *notify.Service) (*APIService, error) {
	svc := &APIService{
		router:        echo.New(),
		reportService: reportService,
	}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(st, reportService, notifyService)

	rep := api.Group("/report")
	rep.GET("/nation", cntrl.GetNationalCases)
	rep.GET("/regions/:name", cntrl.GetRegionCases)
	rep.GET("/provinces/:name", cntrl.GetProvinceCases)
	rep.GET("/deltas", cntrl.GetTotalCasesDelta)
	rep.GET("/positives", cntrl.GetCurrentlyPositiveRanking)
	rep.GET("/weekly/:area", cntrl.GetWeeklyCases)
	rep.GET("/weekly-summary", cntrl.GetWeeklySummary)
	rep.GET("/meta", cntrl.GetMeta)
	rep.GET("/menus/:name", cntrl.GetMenu)
	rep.POST("/refresh", cntrl.TriggerRefresh, svc.AdminMiddleware)
	rep.POST("/unlock", cntrl.UnlockRefresh, svc.AdminMiddleware)

	subscribers := api.Group("/subscribers")
	subscribers.POST("", cntrl.Subscribe)
	subscribers.DELETE("/:chat_id", cntrl.Unsubscribe)

	return svc, nil
}
