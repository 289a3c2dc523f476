package api

import (
	"context"

	"github.com/lysyi3m/news-digest/app/digest"
)

type BuilderInterface interface {
	Run(ctx context.Context) digest.Document
}

type RendererInterface interface {
	Run(doc digest.Document) (string, error)
}

var (
	_ BuilderInterface  = (*digest.Builder)(nil)
	_ RendererInterface = (*digest.Renderer)(nil)
)

type Handler struct {
	builder  BuilderInterface
	renderer RendererInterface
}
