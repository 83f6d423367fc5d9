//go:build !windows

package model

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func listPlatformVolumes() ([]VolumeInfo, error) {
	out, err := exec.Command("df", "-k").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute df: %w", err)
	}
	return parseDFOutput(string(out)), nil
}

// parseDFOutput parses line-oriented `df -k` output. Malformed lines are
// skipped rather than failing the whole probe.
func parseDFOutput(out string) []VolumeInfo {
	var volumes []VolumeInfo

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			// Header line
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}

		device := fields[0]
		mountPoint := fields[5]

		// df reports kilobytes
		used, _ := strconv.ParseUint(fields[2], 10, 64)
		available, _ := strconv.ParseUint(fields[3], 10, 64)
		used *= 1024
		available *= 1024

		total := statfsTotal(mountPoint)
		if total < used+available {
			total = used + available
		}

		volumes = append(volumes, VolumeInfo{
			Name:           device,
			MountPoint:     mountPoint,
			TotalSpace:     total,
			AvailableSpace: available,
			UsedSpace:      used,
		})
	}

	return volumes
}

// statfsTotal returns the capacity of the filesystem mounted at mountPoint,
// or 0 when it cannot be statted.
func statfsTotal(mountPoint string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(mountPoint, &stat); err != nil {
		return 0
	}
	return uint64(stat.Blocks) * uint64(stat.Bsize)
}
