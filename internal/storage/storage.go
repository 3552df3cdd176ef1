// Package storage is the media storage collaborator: store a binary
// blob, get back a retrievable URL. Processing of the media itself
// happens elsewhere.
package storage

import "context"

type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
