// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package config

import "time"

// Default values applied to any field the merged sources left at zero.
const (
	defaultListenAddress       = "localhost:8080"
	defaultRequestTimeout      = 30 * time.Second
	defaultDeliveryBufferDepth = 256
	defaultWriterQueueDepth    = 8
	defaultEvictInterval       = time.Minute
	defaultSessionTTL          = 30 * time.Minute
	defaultBackend             = "echo"
)

// applyDefaults fills any zero-valued field of the merged configuration with
// its operational default. Called once by the builder after merging, before
// validation.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultListenAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.DeliveryBufferDepth == 0 {
		cfg.Server.DeliveryBufferDepth = defaultDeliveryBufferDepth
	}
	if cfg.Server.WriterQueueDepth == 0 {
		cfg.Server.WriterQueueDepth = defaultWriterQueueDepth
	}
	if cfg.Backends.Default == "" {
		cfg.Backends.Default = defaultBackend
	}
	if cfg.Client.ServerAddress == "" {
		cfg.Client.ServerAddress = cfg.Server.HTTPAddress
	}
	if cfg.Client.RequestTimeout == 0 {
		cfg.Client.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.EvictInterval == 0 {
		cfg.Workers.EvictInterval = defaultEvictInterval
	}
	if cfg.Workers.SessionTTL == 0 {
		cfg.Workers.SessionTTL = defaultSessionTTL
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.DeliveryBufferDepth < 0 || cfg.Server.WriterQueueDepth < 0 {
		return ErrInvalidServerConfigs
	}

	switch cfg.Backends.Default {
	case "echo", "gemini", "openai":
	default:
		return ErrInvalidBackendConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.ServerAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
