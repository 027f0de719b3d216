package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SysHealth represents real-time system metrics.
type SysHealth struct {
	Status       string        `json:"status"`
	Database     string        `json:"database"`
	Catalog      *CatalogStats `json:"catalog,omitempty"`
	AllocMB      uint64        `json:"allocMb"`
	SysMB        uint64        `json:"sysMb"`
	NumGC        uint32        `json:"numGc"`
	Goroutines   int           `json:"goroutines"`
	DataDiskSize string        `json:"dataDiskSize"`
}

// Healthy reports whether the database answered.
func (h SysHealth) Healthy() bool {
	return h.Status == "ok"
}

// GetSysHealth collects real-time health data. dataPath is the directory
// holding the database file.
func GetSysHealth(ctx context.Context, store *Store, dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := SysHealth{
		Status:       "ok",
		Database:     "ok",
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: calculateDirSize(dataPath),
	}
	if err := store.Ping(ctx); err != nil {
		h.Status, h.Database = "degraded", err.Error()
		return h
	}
	if st, err := store.CatalogStats(ctx); err == nil {
		h.Catalog = &st
	}
	return h
}

func calculateDirSize(path string) string {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
