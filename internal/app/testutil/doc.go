// Package testutil provides testify mocks for the pipeline stages and
// sample data shared by package tests.
package testutil
