package config

import "errors"

var (
	// ErrHomeDirUnavailable indicates the OS could not resolve a home
	// directory, which blocks both data-dir resolution and settings
	// provisioning.
	ErrHomeDirUnavailable = errors.New("home directory not available")

	// ErrUnknownProvider indicates a setup argument that isn't one of
	// "claude", "gemini", "qwen", "codex" or "all".
	ErrUnknownProvider = errors.New("unknown provider")
)
