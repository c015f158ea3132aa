//go:build windows

package main

import "os"

// listenForKeyboard reads keys from the console. Input is line buffered on
// Windows so a key takes effect after Enter.
func listenForKeyboard(k *keyActions) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 || buf[0] == '\r' || buf[0] == '\n' {
			continue
		}
		if k.handle(buf[0]) {
			return
		}
	}
}
