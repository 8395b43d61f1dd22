package valuation

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/bookbazaar/backend/apperr"
)

const (
	// Model input resolution.
	inputSize = 224
	// Pooling grid: per-cell per-channel means over a gridSize×gridSize
	// partition of the resized image.
	gridSize = 4
	// FeatureDim is the length of the vector the regression head consumes.
	FeatureDim = gridSize * gridSize * 3
)

// Regressor scores book condition from hosted images. The checkpoint is
// loaded on first use and shared by all requests; ScoreURLs is safe for
// concurrent callers once construction succeeds.
type Regressor struct {
	path   string
	client *http.Client

	once    sync.Once
	cp      *checkpoint
	loadErr error
}

func NewRegressor(checkpointPath string, fetchTimeout time.Duration) *Regressor {
	return &Regressor{
		path:   checkpointPath,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (r *Regressor) model() (*checkpoint, error) {
	r.once.Do(func() {
		r.cp, r.loadErr = loadCheckpoint(r.path)
	})
	return r.cp, r.loadErr
}

// ScoreURLs fetches and scores every image and returns the mean quality
// percentage rounded to two decimals. A failure on any single image aborts
// the whole call; scores are never aggregated over a partial set.
func (r *Regressor) ScoreURLs(ctx context.Context, urls []string) (float64, error) {
	if len(urls) == 0 {
		return 0, apperr.InvalidInput("at least one image is required")
	}
	cp, err := r.model()
	if err != nil {
		return 0, apperr.Valuation(err, "quality model unavailable")
	}
	var sum float64
	for _, url := range urls {
		score, err := r.scoreOne(ctx, cp, url)
		if err != nil {
			return 0, apperr.Valuation(err, "scoring image %s failed", url)
		}
		sum += score
	}
	return round2(sum / float64(len(urls))), nil
}

func (r *Regressor) scoreOne(ctx context.Context, cp *checkpoint, url string) (float64, error) {
	img, err := r.fetchImage(ctx, url)
	if err != nil {
		return 0, err
	}
	out := forward(cp, features(img))
	// The head is trained on a half-scale target; ×2 maps it back to a
	// percentage.
	return round2(out * 2), nil
}

func (r *Regressor) fetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned %d", resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// features resizes to inputSize², normalizes RGB to [0,1] and pools each
// grid cell's channels into their mean. Deterministic for a fixed image.
func features(src image.Image) []float64 {
	dst := image.NewRGBA(image.Rect(0, 0, inputSize, inputSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	feat := make([]float64, FeatureDim)
	cell := inputSize / gridSize
	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			var sr, sg, sb float64
			for y := gy * cell; y < (gy+1)*cell; y++ {
				for x := gx * cell; x < (gx+1)*cell; x++ {
					i := dst.PixOffset(x, y)
					sr += float64(dst.Pix[i])
					sg += float64(dst.Pix[i+1])
					sb += float64(dst.Pix[i+2])
				}
			}
			n := float64(cell*cell) * 255
			base := (gy*gridSize + gx) * 3
			feat[base] = sr / n
			feat[base+1] = sg / n
			feat[base+2] = sb / n
		}
	}
	return feat
}

func forward(cp *checkpoint, x []float64) float64 {
	out := float64(cp.bias)
	for i, w := range cp.weights {
		out += float64(w) * x[i]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
