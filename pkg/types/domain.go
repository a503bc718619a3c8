package types

// Manifest describes the tensors one graph requests, in request order.
type Manifest struct {
	// Planning window over execution orders.
	Window Window `json:"window" yaml:"window" toml:"window"`
	// Planner strategy; empty selects the server default.
	// example: optimized-v1
	Planner string `json:"planner,omitempty" yaml:"planner,omitempty" toml:"planner,omitempty" example:"optimized-v1"`
	// Optional batch size applied to every tensor marked batched.
	// example: 8
	Batch int `json:"batch,omitempty" yaml:"batch,omitempty" toml:"batch,omitempty" example:"8"`
	// Tensors to request, in order. Views must follow their source.
	Tensors []TensorSpec `json:"tensors" yaml:"tensors" toml:"tensors"`
	// Extensions applied after every tensor has been requested.
	Extends []ExtendSpec `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty"`
}

// Window is an inclusive range of execution orders.
type Window struct {
	// example: 0
	Start int `json:"start" yaml:"start" toml:"start" example:"0"`
	// example: 5
	End int `json:"end" yaml:"end" toml:"end" example:"5"`
}

// TensorSpec requests one tensor.
type TensorSpec struct {
	// Unique tensor name.
	// example: fc1:output
	Name string `json:"name" yaml:"name" toml:"name" example:"fc1:output"`
	// Shape; unset axes default to 1.
	Dim DimSpec `json:"dim" yaml:"dim" toml:"dim"`
	// Element type: float32 (default), float16, int32, uint8.
	// example: float32
	DType string `json:"dtype,omitempty" yaml:"dtype,omitempty" toml:"dtype,omitempty" example:"float32"`
	// Lifespan: forward, backward, iteration, epoch, max, unmanaged.
	// example: iteration
	Lifespan string `json:"lifespan,omitempty" yaml:"lifespan,omitempty" toml:"lifespan,omitempty" example:"iteration"`
	// Execution orders at which the tensor is read or written.
	// example: [0,2]
	ExecOrder []int `json:"exec_order,omitempty" yaml:"exec_order,omitempty" toml:"exec_order,omitempty"`
	// Initializer: none (default), zeros, ones.
	// example: zeros
	Init string `json:"init,omitempty" yaml:"init,omitempty" toml:"init,omitempty" example:"zeros"`
	// Placeholder tensors get memory from the caller and are never planned.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	// Batched tensors take the manifest batch size.
	Batched bool `json:"batched,omitempty" yaml:"batched,omitempty" toml:"batched,omitempty"`
	// Set to make this tensor a view into another one.
	View *ViewSpec `json:"view,omitempty" yaml:"view,omitempty" toml:"view,omitempty"`
}

// DimSpec is a 4D shape.
type DimSpec struct {
	Batch   int `json:"batch,omitempty" yaml:"batch,omitempty" toml:"batch,omitempty"`
	Channel int `json:"channel,omitempty" yaml:"channel,omitempty" toml:"channel,omitempty"`
	Height  int `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Width   int `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
}

// ViewSpec places a view inside another tensor.
type ViewSpec struct {
	// example: fc1:output
	Source string `json:"source" yaml:"source" toml:"source" example:"fc1:output"`
	// Byte offset inside the source.
	// example: 0
	Offset int `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty" example:"0"`
}

// ExtendSpec widens an existing tensor.
type ExtendSpec struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	ExecOrder []int  `json:"exec_order,omitempty" yaml:"exec_order,omitempty" toml:"exec_order,omitempty"`
	Lifespan  string `json:"lifespan,omitempty" yaml:"lifespan,omitempty" toml:"lifespan,omitempty"`
}
