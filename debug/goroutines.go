package debug

// Debug runtime metrics logger. Started only when config.Debug is true.
// Emits goroutine count, stack and heap usage at a fixed interval together
// with any application attributes supplied by the caller.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// AttrsFunc returns extra attributes appended to every sample.
type AttrsFunc func() []any

// StartRuntimeLogger launches a ticker that logs runtime stats until ctx is
// done. It is lightweight; disable by running without the debug flag.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, extra AttrsFunc) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			logger.Info("runtime-stats", Sample(samples, extra)...)
		}
	}()
}

// Sample reads one set of runtime stats as slog key/value pairs.
func Sample(samples []metrics.Sample, extra AttrsFunc) []any {
	goroutines := uint64(runtime.NumGoroutine())
	if len(samples) > 0 {
		metrics.Read(samples)
		if samples[0].Value.Kind() == metrics.KindUint64 {
			goroutines = samples[0].Value.Uint64()
		}
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	attrs := []any{
		slog.Uint64("goroutines", goroutines),
		slog.String("stack_inuse", humanize.Bytes(ms.StackInuse)),
		slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
		slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
	if extra != nil {
		attrs = append(attrs, extra()...)
	}
	return attrs
}
