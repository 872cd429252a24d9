// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Package main provides build targets for the ngi project using Mage.
//
// Usage:
//
//	mage build        Compile the ngi binary to bin/
//	mage test:all     Run all tests
//	mage test:short   Run tests with -short
//	mage test:cover   Run tests with a coverage profile
//	mage test:golden  Rewrite golden files from current output
//	mage lint         Run go vet and golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install ngi to GOPATH/bin
package main
