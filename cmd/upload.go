package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/pkg/collector"
	"github.com/xhad/kbase/pkg/ingest"
	"github.com/xhad/kbase/pkg/scraper"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Collect, embed and upsert documents into the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		return runUpload(cmd.Context(), d)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

// staticDocuments returns the curated documents, any documents from the
// configured file and any scraped documentation pages, in that order.
func staticDocuments(ctx context.Context) ([]models.Document, error) {
	docs := collector.ProjectDocuments()

	if cfg.Collector.DocumentsFile != "" {
		fileDocs, err := collector.LoadDocumentsFile(cfg.Collector.DocumentsFile)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}

	if cfg.Collector.DocsURL != "" {
		scraped, err := scrapeDocs(ctx, cfg.Collector.DocsURL)
		if err != nil {
			return nil, err
		}
		docs = append(docs, scraped...)
	}

	return docs, nil
}

func scrapeDocs(ctx context.Context, docsURL string) ([]models.Document, error) {
	color.Blue("\nScraping documentation from %s\n", docsURL)

	var scrapedCount int32
	bar := getSpinner("📄 Scraping documentation...")
	s, err := scraper.NewWithConfig(scraper.ScraperConfig{
		BaseURL:   docsURL,
		MaxDepth:  cfg.Collector.MaxDepth,
		RateLimit: cfg.Collector.RateLimit,
		OnProgress: func(url string) {
			n := atomic.AddInt32(&scrapedCount, 1)
			bar.Describe(color.CyanString("📄 Scraping documentation... (%d pages)", n))
			bar.Add(1)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scraper: %w", err)
	}

	docs, err := s.Scrape(ctx)
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to scrape documents: %w", err)
	}
	color.Green("\n✓ Scraped %d pages\n", len(docs))
	return docs, nil
}

func runUpload(ctx context.Context, d *deps) error {
	static, err := staticDocuments(ctx)
	if err != nil {
		return err
	}

	docs, err := collector.NewWithConfig(collector.CollectorConfig{
		Static: static,
		Source: d.marketplace,
	}).Collect(ctx)
	if err != nil {
		return err
	}
	color.Blue("\nCollected %d documents, embedding to %d dimensions\n", len(docs), d.embedder.Dimension())

	bar := getProgressBar(len(docs), "💾 Embedding and upserting...")
	result := ingest.NewWithConfig(ingest.UploaderConfig{
		Embedder: d.embedder,
		Store:    d.store,
		OnProgress: func(models.Document, error) {
			bar.Add(1)
		},
	}).Upload(ctx, docs)
	bar.Finish()

	color.Green("\n✓ Upserted %d documents\n", result.Upserted)
	if result.Failed > 0 {
		color.Yellow("%d documents failed, see log for details\n", result.Failed)
	}
	return ctx.Err()
}
