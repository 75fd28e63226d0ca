package sysinfo

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot is a point-in-time view of the host, served read-only over the
// API. Disk figures are taken at the downloads root.
type Snapshot struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemTotal    uint64  `json:"mem_total"`
	MemUsed     uint64  `json:"mem_used"`
	MemPercent  float64 `json:"mem_percent"`
	DiskTotal   uint64  `json:"disk_total"`
	DiskFree    uint64  `json:"disk_free"`
	DiskPercent float64 `json:"disk_percent"`
}

func Collect(diskPath string) (*Snapshot, error) {
	snap := &Snapshot{}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		snap.CPUPercent = pcts[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	snap.MemTotal = vm.Total
	snap.MemUsed = vm.Used
	snap.MemPercent = vm.UsedPercent

	du, err := disk.Usage(diskPath)
	if err != nil {
		return nil, err
	}
	snap.DiskTotal = du.Total
	snap.DiskFree = du.Free
	snap.DiskPercent = du.UsedPercent

	return snap, nil
}
