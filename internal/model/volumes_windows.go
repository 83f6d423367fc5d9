//go:build windows

package model

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func listPlatformVolumes() ([]VolumeInfo, error) {
	var volumes []VolumeInfo

	for letter := 'A'; letter <= 'Z'; letter++ {
		mountPoint := fmt.Sprintf("%c:\\", letter)
		info, err := os.Stat(mountPoint)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			// Skip CD-ROM drives and other special drives
			continue
		}

		pathPtr, err := windows.UTF16PtrFromString(mountPoint)
		if err != nil {
			continue
		}

		var available, total, free uint64
		if err := windows.GetDiskFreeSpaceEx(pathPtr, &available, &total, &free); err != nil {
			continue
		}
		if total == 0 {
			continue
		}

		used := uint64(0)
		if total > available {
			used = total - available
		}

		volumes = append(volumes, VolumeInfo{
			Name:           fmt.Sprintf("Drive %c", letter),
			MountPoint:     mountPoint,
			TotalSpace:     total,
			AvailableSpace: available,
			UsedSpace:      used,
		})
	}

	return volumes, nil
}
