package controller

import (
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/notify"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
)

type Controller struct {
	store         store.Store
	reportService *report.Service
	notifyService *notify.Service
}

func NewController(st store.Store, reportService *report.Service, notifyService *notify.Service) *Controller {
	return &Controller{
		store:         st,
		reportService: reportService,
		notifyService: notifyService,
	}
}
