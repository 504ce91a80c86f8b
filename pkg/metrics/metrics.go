// Package metrics stores operational counters and gauges in an embedded
// time-series store under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

const (
	MetricOrdersPlaced        = "orders_placed"
	MetricOrdersRejectedStock = "orders_rejected_stock"
	MetricSystemCPUUse        = "system_cpuuse"
	MetricSystemMemUse        = "system_memuse"
)

var (
	storage tstorage.Storage
	mu      sync.Mutex
)

// InitMetrics opens the metrics store under workdir/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(time.Hour*24*90),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// SetGauge records an instantaneous value for name.
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// IncrCounter records a counter increment event for name.
func IncrCounter(name string, delta int64) {
	insert(name, float64(delta))
}

func insert(name string, value float64) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// Select returns the datapoints recorded for name in [start, end].
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil, nil
	}
	return storage.Select(name, nil, start, end)
}

// Close flushes and closes the metrics store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
