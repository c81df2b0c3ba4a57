// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nicodishanthj/advisor_portal/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

type MemoryLimitError struct {
	Component string
	Usage     uint64
	Limit     uint64
}

func (e MemoryLimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded for %s: %d > %d", e.Component, e.Usage, e.Limit)
}

var (
	initOnce sync.Once

	chatTotal     *expvar.Map
	chatLatencyMS *expvar.Map

	uploadFilesTotal  *expvar.Int
	uploadFailedTotal *expvar.Int
	uploadBytesTotal  *expvar.Int

	filterQueryTotal *expvar.Map

	contactTotal *expvar.Int

	memoryLimitBytes uint64
	memoryLimitVar   *expvar.Int
	memoryUsageVar   *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		chatTotal = expvar.NewMap("portal_chat_total")
		chatLatencyMS = expvar.NewMap("portal_chat_latency_ms")

		uploadFilesTotal = expvar.NewInt("portal_upload_files_total")
		uploadFailedTotal = expvar.NewInt("portal_upload_failed_total")
		uploadBytesTotal = expvar.NewInt("portal_upload_bytes_total")

		filterQueryTotal = expvar.NewMap("portal_filter_query_total")

		contactTotal = expvar.NewInt("portal_contact_messages_total")

		memoryLimitVar = expvar.NewInt("portal_memory_limit_bytes")
		memoryUsageVar = expvar.NewInt("portal_memory_usage_bytes")

		memoryLimitBytes = loadMemoryLimit()
		memoryLimitVar.Set(int64(memoryLimitBytes))
	})
}

func loadMemoryLimit() uint64 {
	if limit := strings.TrimSpace(os.Getenv("PORTAL_MEMORY_LIMIT_BYTES")); limit != "" {
		if value, err := strconv.ParseUint(limit, 10, 64); err == nil {
			return value
		}
	}
	if limitMB := strings.TrimSpace(os.Getenv("PORTAL_MEMORY_LIMIT_MB")); limitMB != "" {
		if value, err := strconv.ParseUint(limitMB, 10, 64); err == nil {
			return value * 1024 * 1024
		}
	}
	return 0
}

func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

// RecordChat counts a chat exchange by outcome (remote, fallback, busy, error).
func RecordChat(outcome string, duration time.Duration) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(outcome))
	if key == "" {
		key = "unknown"
	}
	chatTotal.Add(key, 1)
	if duration > 0 {
		chatLatencyMS.Add(key, duration.Milliseconds())
	}
}

func RecordUpload(ok bool, bytes int64) {
	ensureInit()
	if !ok {
		uploadFailedTotal.Add(1)
		return
	}
	uploadFilesTotal.Add(1)
	if bytes > 0 {
		uploadBytesTotal.Add(bytes)
	}
}

func RecordFilter(kind string) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(kind))
	if key == "" {
		key = "generic"
	}
	filterQueryTotal.Add(key, 1)
}

func RecordContact() {
	ensureInit()
	contactTotal.Add(1)
}

// CheckMemoryBudget fails once heap usage exceeds PORTAL_MEMORY_LIMIT_*.
// Uploads hold file bodies in memory as data URIs, so the guard runs before
// each file is read.
func CheckMemoryBudget(component string) error {
	ensureInit()
	usage := updateMemoryUsage()
	if memoryLimitBytes == 0 {
		return nil
	}
	if usage > memoryLimitBytes {
		err := MemoryLimitError{Component: component, Usage: usage, Limit: memoryLimitBytes}
		common.Logger().Warn("telemetry: memory guard tripped", "component", component, "usage", usage, "limit", memoryLimitBytes)
		return err
	}
	return nil
}

func updateMemoryUsage() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	usage := stats.Alloc
	memoryUsageVar.Set(int64(usage))
	return usage
}

func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}
