package server

import (
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
)

type memoryStats struct {
	TotalMB     float64 `json:"total_mb"`
	AvailableMB float64 `json:"available_mb"`
	UsedPercent float64 `json:"used_percent"`
}

type systemStats struct {
	Platform     string       `json:"platform"`
	GoVersion    string       `json:"go_version"`
	CPUCount     int          `json:"cpu_count"`
	Memory       *memoryStats `json:"memory,omitempty"`
	LoadAverage  []float64    `json:"load_average,omitempty"`
	CPUTempC     *float64     `json:"cpu_temp_c,omitempty"`
	SystemUptime string       `json:"system_uptime,omitempty"`
}

// collectSystemStats gathers platform and resource information for the
// health endpoint. Everything beyond the runtime values is best effort:
// files that do not exist on this platform simply leave their field out.
func collectSystemStats() systemStats {
	s := systemStats{
		Platform:  runtime.GOOS,
		GoVersion: runtime.Version(),
		CPUCount:  runtime.NumCPU(),
	}
	s.Memory = readMemInfo("/proc/meminfo")
	s.LoadAverage = readLoadAverage("/proc/loadavg")
	s.CPUTempC = readCPUTemp("/sys/class/thermal/thermal_zone0/temp")
	s.SystemUptime = readSystemUptime("/proc/uptime")
	return s
}

func readMemInfo(path string) *memoryStats {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	values := make(map[string]int64)
	for _, line := range strings.Split(string(data), "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		values[strings.TrimSpace(key)] = v
	}

	total := values["MemTotal"]
	available := values["MemAvailable"]
	if total <= 0 {
		return nil
	}
	return &memoryStats{
		TotalMB:     round1(float64(total) / 1024),
		AvailableMB: round1(float64(available) / 1024),
		UsedPercent: round1(float64(total-available) / float64(total) * 100),
	}
}

func readLoadAverage(path string) []float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return nil
	}
	load := make([]float64, 0, 3)
	for _, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		load = append(load, v)
	}
	return load
}

func readCPUTemp(path string) *float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	// The thermal zone reports millidegrees.
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return nil
	}
	temp := round1(v / 1000)
	return &temp
}

func readSystemUptime(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return ""
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ""
	}
	s := int(seconds)
	return strconv.Itoa(s/3600) + "h " + strconv.Itoa(s%3600/60) + "m"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
