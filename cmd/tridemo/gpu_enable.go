//go:build !nogpu

package main

// Pull in the GPU color generator. Builds tagged nogpu stay on the CPU
// kernel.
import _ "github.com/gogpu/tri/gpu"
