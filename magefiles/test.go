//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// envPostgresDSN enables the postgres store suite when set.
const envPostgresDSN = "FORMSMITH_TEST_POSTGRES_DSN"

// Test groups test targets (all, unit, race, postgres).
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs the tests in short mode, skipping the slower ones.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Race runs every test with the race detector. It needs cgo, which also
// enables the mattn sqlite driver suite.
func (Test) Race() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, binGo, "test", "-race", "./...")
}

// Postgres runs the store suite against the database named by
// FORMSMITH_TEST_POSTGRES_DSN.
func (Test) Postgres() error {
	if os.Getenv(envPostgresDSN) == "" {
		return fmt.Errorf("%s is not set", envPostgresDSN)
	}
	return sh.RunV(binGo, "test", "-v", "-run", "Postgres", "./internal/sqlstore/...")
}
