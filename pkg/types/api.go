package types

// TensorPlacement describes where one tensor landed.
type TensorPlacement struct {
	// example: fc1:output
	Name string `json:"name" example:"fc1:output"`
	// Size in bytes.
	// example: 4096
	Bytes int `json:"bytes" example:"4096"`
	// Byte offset inside the arena, -1 when the tensor has no planned memory.
	// example: 0
	Offset int `json:"offset" example:"0"`
	// Lifespan of the tensor's source.
	// example: iteration
	Lifespan string `json:"lifespan" example:"iteration"`
	// Source tensor for views.
	ViewOf string `json:"view_of,omitempty"`
	// Execution orders accumulated on the tensor's source.
	ExecOrder []int `json:"exec_order,omitempty"`
}

// PlanReport is returned by POST /plan.
type PlanReport struct {
	// example: optimized-v1
	Planner string `json:"planner" example:"optimized-v1"`
	Window  Window `json:"window"`
	// Planned arena size in bytes.
	// example: 8192
	ArenaBytes int `json:"arena_bytes" example:"8192"`
	// Sum of the sizes of planned tensors.
	// example: 16384
	RequestedBytes int `json:"requested_bytes" example:"16384"`
	// Smallest arena any planner could produce.
	// example: 8192
	MinimumBytes int `json:"minimum_bytes" example:"8192"`
	// MinimumBytes / ArenaBytes.
	// example: 1
	Efficiency float64 `json:"efficiency" example:"1"`
	// Number of tensors that received memory.
	// example: 12
	Planned int `json:"planned" example:"12"`
	// Every requested tensor in request order.
	Tensors []TensorPlacement `json:"tensors"`
}

// CompareReport is returned by POST /compare.
type CompareReport struct {
	Reports []PlanReport `json:"reports"`
}

// PlannersResponse wraps the list returned by GET /planners.
type PlannersResponse struct {
	// example: ["basic","greedy-by-size","optimized-v1"]
	Planners []string `json:"planners"`
	// example: optimized-v1
	Default string `json:"default" example:"optimized-v1"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
