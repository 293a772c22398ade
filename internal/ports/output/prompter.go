package output

import "context"

// Attachment is a file sent along with a reply.
type Attachment struct {
	URL         string
	ContentType string
}

// Reply is one message typed by the user holding the conversation.
type Reply struct {
	Content     string
	Attachments []Attachment
}

// Prompter is a private, single-reader conversation with one user.
type Prompter interface {
	Send(ctx context.Context, content string) error
	// Await blocks until the user replies or ctx is done.
	Await(ctx context.Context) (Reply, error)
}
