package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stickersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerverse_stickers_created_total",
		Help: "Total number of stickers added to the gallery.",
	}, []string{"source"})
	stickersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stickerverse_stickers_deleted_total",
		Help: "Total number of stickers removed from the gallery.",
	})
	generateRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerverse_generate_requests_total",
		Help: "Total number of sticker generation form submissions by outcome.",
	}, []string{"status"})
	adminLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerverse_admin_logins_total",
		Help: "Total number of admin login attempts by result.",
	}, []string{"result"})
	uploadsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stickerverse_uploads_rejected_total",
		Help: "Total number of rejected sticker uploads by reason.",
	}, []string{"reason"})
)
