package discprobe

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// ioctlCDROMDriveStatus is the Linux ioctl number for CDROM_DRIVE_STATUS.
const ioctlCDROMDriveStatus = 0x5326

// DriveStatus mirrors the values returned by the CDROM_DRIVE_STATUS ioctl.
type DriveStatus int

const (
	DriveStatusNoInfo   DriveStatus = 0
	DriveStatusNoDisc   DriveStatus = 1
	DriveStatusTrayOpen DriveStatus = 2
	DriveStatusNotReady DriveStatus = 3
	DriveStatusDiscOK   DriveStatus = 4
)

func (s DriveStatus) String() string {
	switch s {
	case DriveStatusNoInfo:
		return "no_info"
	case DriveStatusNoDisc:
		return "no_disc"
	case DriveStatusTrayOpen:
		return "tray_open"
	case DriveStatusNotReady:
		return "not_ready"
	case DriveStatusDiscOK:
		return "disc_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// checkDriveStatus queries drive presence via the CDROM_DRIVE_STATUS ioctl,
// grounded on the teacher's disc/tray.go, adapted to golang.org/x/sys/unix
// in place of raw syscall so failure modes surface as unix.Errno.
func checkDriveStatus(devicePath string) (DriveStatus, error) {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath == "" {
		return DriveStatusNoInfo, fmt.Errorf("empty device path")
	}

	fd, err := unix.Open(devicePath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return DriveStatusNoInfo, fmt.Errorf("open %s: %w", devicePath, err)
	}
	defer unix.Close(fd) //nolint:errcheck

	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(ioctlCDROMDriveStatus), 0)
	if errno != 0 {
		return DriveStatusNoInfo, fmt.Errorf("ioctl CDROM_DRIVE_STATUS on %s: %w", devicePath, errno)
	}
	return DriveStatus(r1), nil
}
