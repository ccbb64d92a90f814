package core

import "encoding/json"

// Result is the outcome envelope returned by every core operation.
// A successful result never carries Short; a failed one always carries
// Short and Message.
type Result[T any] struct {
	OK      bool
	Short   string
	Content T
	Message string
	Err     error
}

// Success wraps v in a successful result.
func Success[T any](v T) Result[T] {
	return Result[T]{OK: true, Content: v}
}

// Failure builds a failed result. err is kept for logging and errors.Is
// checks and is never serialized.
func Failure[T any](short, message string, err error) Result[T] {
	return Result[T]{Short: short, Message: message, Err: err}
}

// MarshalJSON encodes the result as {"ok":true,"content":...} or
// {"ok":false,"short":...,"content":message}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(struct {
			OK      bool `json:"ok"`
			Content T    `json:"content"`
		}{true, r.Content})
	}
	return json.Marshal(struct {
		OK      bool   `json:"ok"`
		Short   string `json:"short"`
		Content string `json:"content"`
	}{false, r.Short, r.Message})
}
