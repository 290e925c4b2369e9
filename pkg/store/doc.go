// Package store holds the typed variables a render pass works against. A
// variable is either an int64 or a string and keeps its kind for the lifetime
// of the store. Stores are owned by a single interpreter and are not safe for
// concurrent use.
package store
