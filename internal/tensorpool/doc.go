// Package tensorpool registers the logical tensors a computation graph needs,
// decides when each one must hold valid data and binds them to byte ranges of
// a shared arena. It is structured into small files by concern:
//
//   - pool.go: Pool type, request/view/extend/placeholder registration, lookups.
//   - config.go: PoolConfig and package defaults; NewWithConfig applies defaults.
//   - tensor.go, dim.go: the Tensor handle and its shape.
//   - lifespan.go, initializer.go: lifetime classes and buffer initializers.
//   - finalize.go: validity intervals and planning for a window of execution orders.
//   - allocate.go: allocate/deallocate, external binding, batch resizing.
//   - stats.go: summary used by reports.
//   - errors.go: error kinds and Is* helpers.
//   - events.go, metrics.go: observability hooks.
//
// The Pool has no internal locking. Registration, Finalize, Allocate and
// Deallocate must not run concurrently with each other or with readers of
// tensor data; readers may share allocated tensors freely between those phases.
package tensorpool
