package stdx

// Must0 panics if the provided error is not nil. It is intended for
// situations where an error is not expected and should terminate the
// program if it occurs.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v when err is nil and panics otherwise. It simplifies error
// handling in places where failure indicates programmer error, such as
// constructing definitions at package init time.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Must2 returns both values when err is nil and panics otherwise.
func Must2[T any, V any](t T, v V, err error) (T, V) {
	if err != nil {
		panic(err)
	}
	return t, v
}
