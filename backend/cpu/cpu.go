// Copyright 2026 Axon ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the CPU numeric kernels backing graph evaluation.
//
// Most users never touch this package: graphs construct their own backend.
// It is exported for callers who want the broadcast-aware elementwise
// kernels without building a graph.
//
// Example:
//
//	backend := cpu.New()
//	a := tensor.Ones[float64](tensor.Shape{2, 3})
//	b := tensor.Ones[float64](tensor.Shape{3})
//	c, err := backend.Add(a, b)  // shape (2, 3)
package cpu

import (
	"github.com/axon-ml/axon/internal/backend/cpu"
)

// CPUBackend implements broadcast-aware elementwise operations on CPU.
type CPUBackend = cpu.CPUBackend

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return cpu.New()
}
