// Package mail delivers transactional email. Dispatch is asynchronous and
// best-effort: callers enqueue and move on, the worker observes every result.
package mail

import "context"

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender performs the actual delivery.
type Sender interface {
	Send(ctx context.Context, m Message) error
}
