//go:build !linux && !darwin && !windows

package main

func listenForKeyboard(*keyActions) {}
