package profile

// Stopper ends a running profile and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a single profiling session.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option configures a [Profiler].
type Option func(Profiler) Profiler

// New returns a Profiler with opts applied in order.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// WithMode sets the profiling mode. See [Modes].
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Enabled reports whether Start would begin a real session: the binary was
// built with [Tag] and Mode names one of [Modes].
func (p Profiler) Enabled() bool {
	if p.Mode == "" {
		return false
	}

	for _, m := range Modes() {
		if m == p.Mode {
			return true
		}
	}

	return false
}

// Start begins profiling. The returned Stopper is never nil, and stopping an
// inert session does nothing.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
