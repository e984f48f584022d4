//go:build windows

package ptyexec

import "os"

// Start is not available on this platform.
func Start(string, uint, uint) (*Process, error) {
	return nil, ErrPlatformNotSupported
}

func setSize(*os.File, uint, uint) error {
	return ErrPlatformNotSupported
}
