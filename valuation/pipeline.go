package valuation

import (
	"bytes"
	"context"
	"log"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/service"
)

// Image is one seller-submitted condition photo, raw bytes plus the metadata
// the blob store needs.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is ephemeral: it is returned to the seller as a preview or embedded
// into a Book at listing time, never persisted on its own.
type Result struct {
	QualityPercent float64 `json:"quality_percent"`
	FinalPrice     float64 `json:"final_price"`
}

// Pipeline turns condition photos plus a declared cost price into a final
// sale price: host the photos, score them, apply the pricing formula, then
// release the photos. Preview images are transient; only a confirmed listing
// keeps its photo set.
type Pipeline struct {
	Blob      service.BlobStore
	Regressor *Regressor
}

// Preview runs the full pipeline. Quality is not clamped to [0,100]: an
// out-of-range regressor output flows into the price arithmetically.
func (p *Pipeline) Preview(ctx context.Context, costPrice float64, images []Image) (Result, error) {
	if costPrice < 0 {
		return Result{}, apperr.InvalidInput("cost_price must be non-negative")
	}
	quality, err := p.Quality(ctx, images)
	if err != nil {
		return Result{}, err
	}
	return Result{
		QualityPercent: quality,
		FinalPrice:     FinalPrice(costPrice, quality),
	}, nil
}

// Quality hosts the images, scores them and releases them again.
func (p *Pipeline) Quality(ctx context.Context, images []Image) (float64, error) {
	if len(images) == 0 {
		return 0, apperr.InvalidInput("at least one image is required")
	}
	urls, keys, err := p.host(ctx, images)
	if err != nil {
		return 0, err
	}
	defer p.release(ctx, keys)
	return p.Regressor.ScoreURLs(ctx, urls)
}

func (p *Pipeline) host(ctx context.Context, images []Image) (urls, keys []string, err error) {
	for _, img := range images {
		url, key, err := p.Blob.Upload(ctx, "book_images", img.Filename, bytes.NewReader(img.Data), img.ContentType)
		if err != nil {
			p.release(ctx, keys)
			return nil, nil, apperr.Valuation(err, "hosting image %s failed", img.Filename)
		}
		urls = append(urls, url)
		keys = append(keys, key)
	}
	return urls, keys, nil
}

func (p *Pipeline) release(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	report := p.Blob.DeleteAll(ctx, keys)
	if len(report.Failed) > 0 {
		log.Printf("valuation: %d preview image(s) not released: %v", len(report.Failed), report.Failed)
	}
}

// FinalPrice applies the pricing formula, rounded to two decimals.
func FinalPrice(costPrice, qualityPercent float64) float64 {
	return round2(costPrice * qualityPercent / 100)
}
