package model

// VolumeInfo describes a mounted volume and its capacity figures.
type VolumeInfo struct {
	Name           string `json:"name"`
	MountPoint     string `json:"mount_point"`
	TotalSpace     uint64 `json:"total_space"`
	AvailableSpace uint64 `json:"available_space"`
	UsedSpace      uint64 `json:"used_space"`
}

// UsedPercent returns percentage of the volume used.
func (v VolumeInfo) UsedPercent() float64 {
	if v.TotalSpace == 0 {
		return 0
	}
	return float64(v.UsedSpace) / float64(v.TotalSpace) * 100
}

// ListVolumes returns all mounted volumes on the system. Volumes that cannot
// be probed are skipped; the call fails only when enumeration itself fails.
func ListVolumes() ([]VolumeInfo, error) {
	return listPlatformVolumes()
}
