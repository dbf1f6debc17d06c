package registry

// Option applies a configuration option to the Sharded registry.
type Option func(*Sharded)

// WithShardCount sets the number of shards.
func WithShardCount(n int) Option {
	return func(r *Sharded) {
		if n > 0 {
			r.shardCount = n
		}
	}
}

// WithHistoryCapacity sets the smoothing window size of created sessions.
func WithHistoryCapacity(n int) Option {
	return func(r *Sharded) {
		if n > 0 {
			r.historyCapacity = n
		}
	}
}
