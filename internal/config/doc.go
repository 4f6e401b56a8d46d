// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads, normalizes, and validates ggcompare configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), and
// reads TOML files. Settings that feed the comparator are converted to
// ggcompare values here so the CLI receives a validated Style and ready
// threshold rather than raw strings.
package config
