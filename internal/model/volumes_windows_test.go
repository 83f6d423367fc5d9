//go:build windows

package model

import "testing"

func TestListVolumesWindows(t *testing.T) {
	volumes, err := ListVolumes()
	if err != nil {
		t.Fatalf("ListVolumes failed: %v", err)
	}
	if len(volumes) == 0 {
		t.Error("expected at least one volume")
	}

	// C: should typically exist
	hasC := false
	for _, v := range volumes {
		if v.MountPoint == "C:\\" {
			hasC = true
		}
		if v.UsedSpace+v.AvailableSpace > v.TotalSpace {
			t.Errorf("%s: used + available exceeds total", v.MountPoint)
		}
	}
	if !hasC {
		t.Error("expected C: volume to exist")
	}
}
