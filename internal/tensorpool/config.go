package tensorpool

import (
	"github.com/rs/zerolog"

	"tensorpool/internal/arena"
)

// Defaults applied when corresponding PoolConfig fields are unset.
const defaultPoolName = "default"

// PoolConfig encapsulates all tunables for Pool construction.
type PoolConfig struct {
	// Name labels metrics and log lines.
	Name string
	// MaxArenaBytes caps the backing block; 0 means unlimited.
	MaxArenaBytes int
	// Alloc replaces the raw block allocator (tests, pinned memory).
	Alloc arena.AllocFunc
	// Logger receives debug output; nil disables logging.
	Logger *zerolog.Logger
	// Publisher receives phase events; nil drops them.
	Publisher EventPublisher
}

// New returns a Pool with default configuration.
func New() *Pool { return NewWithConfig(PoolConfig{}) }

// NewWithConfig constructs a Pool from PoolConfig.
func NewWithConfig(cfg PoolConfig) *Pool {
	p := &Pool{
		name:   cfg.Name,
		names:  make(map[string]int),
		events: cfg.Publisher,

		arenaCfg: arena.Config{MaxBytes: cfg.MaxArenaBytes, Alloc: cfg.Alloc},
	}
	p.arena = arena.New(p.arenaCfg)
	if p.name == "" {
		p.name = defaultPoolName
	}
	if cfg.Logger != nil {
		p.log = cfg.Logger.With().Str("pool", p.name).Logger()
	} else {
		p.log = zerolog.Nop()
	}
	if p.events == nil {
		p.events = noopPublisher{}
	}
	return p
}
