// Package upload carries the optional best-effort copy of the store file
// to a SharePoint document library. Upload runs strictly after a
// successful local persist and its failures are logged, never surfaced.
package upload

import "context"

// Uploader publishes the durable store file to an external document
// library.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

// Noop is the absent-capability variant selected when the SharePoint
// configuration is incomplete.
type Noop struct{}

func (Noop) Upload(context.Context, string) error {
	return nil
}
