// Package builtin implements the engine's core operators (component F's
// table): source.follow, filter, sort, take, vm, merge, and the two test
// operators sleep/busy_cpu used to exercise the async and CPU-offload
// scheduler paths respectively.
package builtin

import "github.com/smilemakc/rankcore/internal/operator"

// RegisterAll registers every built-in operator spec into reg. Called once
// during engine init, after which reg is only ever read.
func RegisterAll(reg *operator.Registry) {
	reg.Register(SourceFollow)
	reg.Register(Filter)
	reg.Register(Sort)
	reg.Register(Take)
	reg.Register(VM)
	reg.Register(Merge)
	reg.Register(Sleep)
	reg.Register(BusyCPU)
}
