package ingest

import (
	"context"
	"fmt"

	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/internal/types"
	"github.com/xhad/kbase/pkg/logger"
	"github.com/xhad/kbase/pkg/metrics"
)

// UploaderConfig wires the embedder and the knowledge store.
type UploaderConfig struct {
	Embedder types.Embedder
	Store    types.KnowledgeStore
	// OnProgress is called after every document, successful or not.
	OnProgress func(doc models.Document, err error)
}

// Result counts the outcome of an Upload run.
type Result struct {
	Upserted int
	Failed   int
	Errors   []error
}

// Uploader embeds documents and upserts them one at a time. A failing
// document is logged and skipped.
type Uploader struct {
	config UploaderConfig
	log    *logger.Logger
}

func NewWithConfig(config UploaderConfig) *Uploader {
	return &Uploader{
		config: config,
		log:    logger.New("ingest"),
	}
}

func (u *Uploader) Upload(ctx context.Context, docs []models.Document) Result {
	var result Result

	for _, doc := range docs {
		err := u.uploadOne(ctx, doc)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			metrics.DocumentsFailed.Inc()
			u.log.Error("Error processing doc", "content", Preview(doc.Content), "error", err)
		} else {
			result.Upserted++
			metrics.DocumentsUpserted.Inc()
			u.log.Info("Upserted", "content", Preview(doc.Content))
		}

		if u.config.OnProgress != nil {
			u.config.OnProgress(doc, err)
		}
	}

	return result
}

func (u *Uploader) uploadOne(ctx context.Context, doc models.Document) error {
	embedding, err := u.config.Embedder.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("failed to embed %q: %w", Preview(doc.Content), err)
	}

	record := models.Record{
		Content:   doc.Content,
		Embedding: embedding,
		Metadata:  doc.Metadata,
	}
	if err := u.config.Store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to upsert %q: %w", Preview(doc.Content), err)
	}
	return nil
}

// Preview is the first 40 runes of content, used to identify a document in logs.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= 40 {
		return content
	}
	return string(runes[:40]) + "..."
}
