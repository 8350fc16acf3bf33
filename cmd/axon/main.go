// Package main provides the Axon ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/janpfeifer/must"

	"github.com/axon-ml/axon/graph"
	"github.com/axon-ml/axon/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Axon ML Framework %s\n", version)
			return
		case "demo":
			demo()
			return
		}
	}

	fmt.Println("Axon ML Framework - Differentiable Tensor Graphs for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Run a broadcast-gradient demo")
}

// demo adds a (2,3) array and a (3,) array, then differentiates the sum,
// showing the gradient reduced back to each operand's shape.
func demo() {
	g := graph.NewGraph()

	x := g.Const(tensor.Ones[float64](tensor.Shape{2, 3}))
	b := g.Const(tensor.Ones[float64](tensor.Shape{3}))
	y := must.M1(g.Add(x, b))

	grads := must.M1(graph.Grad(y, []*graph.Node{x, b}))
	vals := must.M1(g.Eval(nil, y, grads[0], grads[1]))

	fmt.Printf("y     shape=%v values=%v\n", vals[0].Shape(), vals[0].AsFloat64())
	fmt.Printf("dy/dx shape=%v values=%v\n", vals[1].Shape(), vals[1].AsFloat64())
	fmt.Printf("dy/db shape=%v values=%v\n", vals[2].Shape(), vals[2].AsFloat64())
}
