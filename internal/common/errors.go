// Package common defines shared sentinel errors used across promptsync
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrConfigMissing = errors.New("feishu config is not set, run 'promptsync configure' first")
	ErrSyncDisabled  = errors.New("sync is disabled in the config")

	// Remote read errors.
	ErrEmptyResponseData = errors.New("api response has no data")
)
