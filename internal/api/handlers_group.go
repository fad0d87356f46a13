package api

import "courtyard/internal/api/handler"

// HandlersGroup bundles every initialized handler for the router.
type HandlersGroup struct {
	UserHandler      *handler.UserHandler
	ApartmentHandler *handler.ApartmentHandler
	AdHandler        *handler.AdHandler
	ChatHandler      *handler.ChatHandler
	WsHandler        *handler.WsHandler
	NotifyHandler    *handler.NotifyHandler
	MetricHandler    *handler.MetricHandler
	JobHandler       *handler.JobHandler
	FeedHandler      *handler.FeedHandler
}
