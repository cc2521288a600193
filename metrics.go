package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ttpr0/go-cityroutes/batched/citypairs"
)

//*******************************************
// batch metrics
//*******************************************

type BatchMetrics struct {
	registry *prometheus.Registry
	pairs    *prometheus.CounterVec
	searches prometheus.Counter
	latency  prometheus.Histogram
	stages   *prometheus.GaugeVec
}

func NewBatchMetrics(mode string) *BatchMetrics {
	labels := prometheus.Labels{"mode": mode}
	metrics := &BatchMetrics{
		registry: prometheus.NewRegistry(),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cityroutes_city_pairs_total",
			Help:        "City pairs processed by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "cityroutes_path_searches_total",
			Help:        "Time-constrained path searches run",
			ConstLabels: labels,
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "cityroutes_city_pair_seconds",
			Help:        "Time to resolve one city pair",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		stages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "cityroutes_stage_seconds",
			Help:        "Duration of the pipeline stages of the last run",
			ConstLabels: labels,
		}, []string{"stage"}),
	}
	metrics.registry.MustRegister(metrics.pairs, metrics.searches, metrics.latency, metrics.stages)
	return metrics
}

// ObservePair implements citypairs.IBatchObserver.
func (self *BatchMetrics) ObservePair(outcome citypairs.Outcome, searches int, elapsed time.Duration) {
	self.pairs.With(prometheus.Labels{"outcome": outcome.String()}).Inc()
	self.searches.Add(float64(searches))
	self.latency.Observe(elapsed.Seconds())
}

func (self *BatchMetrics) ObserveStage(stage string, elapsed time.Duration) {
	if self == nil {
		return
	}
	self.stages.With(prometheus.Labels{"stage": stage}).Set(elapsed.Seconds())
}

func (self *BatchMetrics) Registry() *prometheus.Registry {
	return self.registry
}

// Writes all metrics in the text exposition format (e.g. for the node-exporter textfile collector).
func (self *BatchMetrics) WriteToTextfile(file string) error {
	if err := prometheus.WriteToTextfile(file, self.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
