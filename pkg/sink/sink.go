// Package sink delivers rendered output to the console or a file.
package sink

import "context"

// Sink receives the final rendered text.
type Sink interface {
	Write(ctx context.Context, text string) error
}
