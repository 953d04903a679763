// Package tasks owns the persisted task list.
//
// The whole list lives under one key of a kvstore backend and is rewritten on
// every mutation. Store serializes mutations with a mutex; callers receive
// copies and never share the cached slice.
package tasks
