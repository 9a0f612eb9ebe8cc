// Package domain contains the core business entities of memrag.
// It has no dependencies on other internal packages.
package domain
