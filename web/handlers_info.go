package web

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
)

type memoryInfo struct {
	RSS uint64 `json:"rss"`
	VMS uint64 `json:"vms"`
}

type processInfo struct {
	Args     []string   `json:"args"`
	Platform string     `json:"platform"`
	Version  string     `json:"version"`
	Memory   memoryInfo `json:"memory"`
	Path     string     `json:"path"`
	PID      int        `json:"pid"`
	Folder   string     `json:"folder"`
	CPUs     int        `json:"cpus"`
}

// handleInfo reports the worker process itself: useful for telling
// which cluster slot answered and what it is consuming.
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	info := processInfo{
		Args:     os.Args,
		Platform: runtime.GOOS,
		Version:  runtime.Version(),
		PID:      os.Getpid(),
		CPUs:     runtime.NumCPU(),
	}

	if path, err := os.Executable(); err == nil {
		info.Path = path
	}
	if cwd, err := os.Getwd(); err == nil {
		info.Folder = cwd
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			info.Memory = memoryInfo{RSS: mem.RSS, VMS: mem.VMS}
		}
	} else {
		s.log.Warn("collect process stats", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		s.log.Error("encode info response", "error", err)
	}
}
