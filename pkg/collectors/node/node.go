// Package node collects a small host summary for the kiosk footer: hostname,
// uptime, load average and memory pressure. It uses gopsutil so the same
// code runs on the Linux kiosk box and on macOS development machines.
package node

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultInterval is how often the footer's host summary is refreshed.
const DefaultInterval = 30 * time.Second

// Info is the snapshot returned by Collect.
type Info struct {
	Hostname   string        `json:"hostname"`
	Platform   string        `json:"platform"`
	Uptime     time.Duration `json:"uptime"`
	Load1      float64       `json:"load1"`
	Load5      float64       `json:"load5"`
	Load15     float64       `json:"load15"`
	MemPercent float64       `json:"mem_percent"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Summary renders the footer line, e.g. "kiosk-01 · up 3d4h · load 0.42 · mem 38%".
func (i Info) Summary() string {
	parts := make([]string, 0, 4)
	if i.Hostname != "" {
		parts = append(parts, i.Hostname)
	}
	if i.Uptime > 0 {
		parts = append(parts, "up "+FormatUptime(i.Uptime))
	}
	parts = append(parts, fmt.Sprintf("load %.2f", i.Load1))
	if i.MemPercent > 0 {
		parts = append(parts, fmt.Sprintf("mem %.0f%%", i.MemPercent))
	}
	return strings.Join(parts, " · ")
}

// FormatUptime renders d as days/hours/minutes, dropping leading zero units.
func FormatUptime(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	mins := int(d % time.Hour / time.Minute)
	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%02dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// probes wraps the gopsutil calls so tests can substitute them.
type probes struct {
	host func(ctx context.Context) (*host.InfoStat, error)
	load func(ctx context.Context) (*load.AvgStat, error)
	mem  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

var systemProbes = probes{
	host: host.InfoWithContext,
	load: load.AvgWithContext,
	mem:  mem.VirtualMemoryWithContext,
}

// Collector gathers Info. It satisfies collectors.Collector.
type Collector struct {
	interval time.Duration
	probes   probes
	now      func() time.Time

	mu      sync.Mutex
	healthy bool
}

// New creates a Collector polling every interval (DefaultInterval if <= 0).
func New(interval time.Duration) *Collector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Collector{
		interval: interval,
		probes:   systemProbes,
		now:      time.Now,
		healthy:  true,
	}
}

// Name returns "node".
func (c *Collector) Name() string { return "node" }

// Interval returns the polling interval.
func (c *Collector) Interval() time.Duration { return c.interval }

// Healthy reports whether the last collection produced any data.
func (c *Collector) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

func (c *Collector) setHealthy(h bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = h
}

// Collect gathers host, load and memory figures. Partial failures still
// return an Info together with the joined error; only a total failure
// returns nil data.
func (c *Collector) Collect(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := Info{Timestamp: c.now()}
	var errs []error

	if h, err := c.probes.host(ctx); err != nil {
		errs = append(errs, fmt.Errorf("host: %w", err))
	} else {
		info.Hostname = h.Hostname
		info.Platform = h.Platform
		info.Uptime = time.Duration(h.Uptime) * time.Second
	}

	if avg, err := c.probes.load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("load: %w", err))
	} else {
		info.Load1, info.Load5, info.Load15 = avg.Load1, avg.Load5, avg.Load15
	}

	if vm, err := c.probes.mem(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mem: %w", err))
	} else {
		info.MemPercent = vm.UsedPercent
	}

	if len(errs) == 3 {
		c.setHealthy(false)
		return nil, fmt.Errorf("node: all probes failed: %w", errors.Join(errs...))
	}
	c.setHealthy(true)
	if len(errs) > 0 {
		return info, fmt.Errorf("node: partial errors: %w", errors.Join(errs...))
	}
	return info, nil
}
