package live

// Query is a live list view over a store: it runs fetch once up front,
// then re-runs it and republishes the result every time the change
// signal fires. Close drops the subscription; after Close the query
// stops updating but keeps its last snapshot.
type Query[T any] struct {
	*Value[[]T]
	cancel func()
}

// Watch builds a Query bound to sig. A fetch error keeps the previous
// snapshot and is handed to onErr.
func Watch[T any](sig *Signal, fetch func() ([]T, error), onErr func(error)) *Query[T] {
	q := &Query[T]{Value: NewValue([]T{})}

	refresh := func() {
		items, err := fetch()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		if items == nil {
			items = []T{}
		}
		q.Set(items)
	}

	refresh()
	q.cancel = sig.Subscribe(refresh)
	return q
}

func (q *Query[T]) Close() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}
