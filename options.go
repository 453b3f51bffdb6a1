package sticky

import "go.uber.org/zap"

// Option configures a Coordinator or a List.
type Option func(*options)

type options struct {
	maxPinned int
	logger    *zap.Logger
}

func defaultOptions() options {
	return options{
		maxPinned: 1,
		logger:    zap.NewNop(),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxPinned sets how many headers may be pinned at once. Values below
// one are treated as one.
func WithMaxPinned(n int) Option {
	return func(o *options) {
		o.maxPinned = max(1, n)
	}
}

// WithLogger sets the logger used for debug events. A nil logger disables
// logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}
