package core

import "context"

type contextKey string

const ctxKeyRequestMetadata contextKey = "request_metadata"

// RequestMetadata identifies the client behind an operation for auditing.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// WithRequestMetadata attaches md to ctx.
func WithRequestMetadata(ctx context.Context, md RequestMetadata) context.Context {
	return context.WithValue(ctx, ctxKeyRequestMetadata, md)
}

// RequestMetadataFrom returns the metadata attached to ctx, or the zero value.
func RequestMetadataFrom(ctx context.Context) RequestMetadata {
	md, _ := ctx.Value(ctxKeyRequestMetadata).(RequestMetadata)
	return md
}
