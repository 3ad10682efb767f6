package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tradeProposals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Name:      "trade_proposals_total",
		Help:      "Trade proposals by outcome.",
	}, []string{"outcome"})

	tradeResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Name:      "trade_responses_total",
		Help:      "Responses to trade proposals by decision and outcome.",
	}, []string{"decision", "outcome"})
)
