package editor

// Copy-on-write helpers. Each returns a fresh slice and never writes to the input,
// so snapshots that share the old backing array stay intact.

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

func replaceAt[T any](items []T, i int, item T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = item
	return out
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// move removes the element at from and re-inserts it at to.
func move[T any](items []T, from, to int) []T {
	item := items[from]
	out := removeAt(items, from)
	out = append(out, item)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = item
	return out
}
