//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// listenForKeyboard puts the terminal in non-canonical mode and dispatches
// single key presses until quit
func listenForKeyboard(k *keyActions) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		// not a terminal
		return
	}

	// Keep OPOST so \n still moves to column zero
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &newState); err != nil {
		return
	}
	defer unix.IoctlSetTermios(fd, ioctlSetTermios, oldState)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if k.handle(buf[0]) {
			return
		}
	}
}
