// Copyright 2026 Axon ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for the Axon computation graph.
//
// The package implements define-by-run reverse-mode automatic differentiation
// with broadcast-aware gradients for elementwise binary arithmetic: when two
// operands of different shapes were broadcast together in the forward pass,
// the backward pass reduces ("un-broadcasts") the incoming gradient by
// summation so each operand receives a gradient of its own shape, and the
// reduction itself is differentiable for second-order gradients.
//
// Example:
//
//	g := graph.NewGraph()
//	x := g.Const(tensor.Ones[float32](tensor.Shape{2, 3}))
//	b := g.Const(tensor.Ones[float32](tensor.Shape{3}))
//	y, _ := g.Add(x, b)
//
//	grads, _ := graph.Grad(y, []*graph.Node{x, b})
//	vals, _ := g.Eval(nil, grads...)  // shapes (2,3) and (3)
package graph

import (
	"github.com/axon-ml/axon/internal/graph"
	"github.com/axon-ml/axon/internal/tensor"
)

// Graph is an append-only arena of symbolic nodes forming a DAG.
type Graph = graph.Graph

// Node is an immutable symbolic handle to a future computation.
type Node = graph.Node

// NodeBuilder assembles a new node from inputs, an optional declared shape,
// and an operator.
type NodeBuilder = graph.NodeBuilder

// Op is the operator capability: a numeric Compute step and a symbolic Grad step.
type Op = graph.Op

// ComputeContext gives an Op.Compute invocation its concrete inputs and
// output sink.
type ComputeContext = graph.ComputeContext

// GradContext gives an Op.Grad invocation its symbolic inputs, the incoming
// output gradient, and the gradient sink.
type GradContext = graph.GradContext

// Feeds maps nodes to concrete arrays supplied at evaluation time.
type Feeds = graph.Feeds

// Operator types, exported for extension and for errors.As-style inspection.
type (
	// AddOp computes x0 + x1 with broadcasting.
	AddOp = graph.AddOp
	// SubOp computes x0 - x1 with broadcasting.
	SubOp = graph.SubOp
	// MulOp computes x0 * x1 with broadcasting.
	MulOp = graph.MulOp
	// DivOp computes x0 / x1 with broadcasting.
	DivOp = graph.DivOp
	// UnbroadcastGradOp folds a gradient down to an operand's shape.
	UnbroadcastGradOp = graph.UnbroadcastGradOp
	// RebroadcastGradOp broadcasts a reduced gradient back to a target shape.
	RebroadcastGradOp = graph.RebroadcastGradOp
)

// GradShapeError reports a declared operand shape inconsistent with the
// observed gradient shape.
type GradShapeError = graph.GradShapeError

// Sentinel errors for errors.Is checks.
var (
	ErrShapeIncompatible     = graph.ErrShapeIncompatible
	ErrBroadcastFailure      = graph.ErrBroadcastFailure
	ErrDTypeMismatch         = graph.ErrDTypeMismatch
	ErrGradShapeInconsistent = graph.ErrGradShapeInconsistent
)

// NewGraph creates an empty graph backed by the CPU kernels.
func NewGraph() *Graph {
	return graph.NewGraph()
}

// NewNodeBuilder creates an empty node builder.
func NewNodeBuilder() *NodeBuilder {
	return graph.NewNodeBuilder()
}

// Grad builds symbolic gradient nodes of y with respect to xs, seeded with an
// all-ones gradient shaped like y.
func Grad(y *Node, xs []*Node) ([]*Node, error) {
	return graph.Grad(y, xs)
}

// GradWithInitial is Grad with an explicit output-gradient seed node.
func GradWithInitial(y, gy *Node, xs []*Node) ([]*Node, error) {
	return graph.GradWithInitial(y, gy, xs)
}

// Shape re-exports the array shape type for convenience.
type Shape = tensor.Shape
