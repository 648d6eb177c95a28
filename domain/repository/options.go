package repository

// WithQueryID filters child rows by the "query_id" column.
func WithQueryID(id int64) Option {
	return WithCondition("query_id", id)
}

// WithMode filters by the "query_mode" column.
func WithMode(mode string) Option {
	return WithCondition("query_mode", mode)
}

// WithRankOrder orders result rows by ascending rank.
func WithRankOrder() Option {
	return WithOrderAsc("rank")
}

// WithRecencyOrder orders queries by descending timestamp, newest first.
// Identity breaks timestamp ties so the ordering stays deterministic.
func WithRecencyOrder() Option {
	return func(q Query) Query {
		q = WithOrderDesc("timestamp")(q)
		return WithOrderDesc("id")(q)
	}
}
