package valuation

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/service"
)

// MockBlobStore is a testify double for the hosting boundary.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, folder, originalFilename string, body io.Reader, contentType string) (string, string, error) {
	args := m.Called(ctx, folder, originalFilename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockBlobStore) DeleteAll(ctx context.Context, keys []string) service.DeleteReport {
	args := m.Called(ctx, keys)
	return args.Get(0).(service.DeleteReport)
}

func testImages(n int) []Image {
	var images []Image
	for i := 0; i < n; i++ {
		images = append(images, Image{
			Filename:    "photo.png",
			ContentType: "image/png",
			Data:        []byte("raw"),
		})
	}
	return images
}

func TestPreviewPricesFromQuality(t *testing.T) {
	srv := servePNG(t)
	blob := new(MockBlobStore)
	url := srv.URL + "/a.png"
	blob.On("Upload", mock.Anything, "book_images", "photo.png", "image/png").
		Return(url, "book_images/k1", nil).Once()
	blob.On("DeleteAll", mock.Anything, []string{"book_images/k1"}).
		Return(service.DeleteReport{Deleted: []string{"book_images/k1"}}).Once()

	p := &Pipeline{Blob: blob, Regressor: NewRegressor(writeTestCheckpoint(t, 40), 5*time.Second)}
	res, err := p.Preview(context.Background(), 250, testImages(1))
	require.NoError(t, err)

	// quality 80 -> 250 * 80 / 100
	assert.Equal(t, 80.0, res.QualityPercent)
	assert.Equal(t, 200.0, res.FinalPrice)
	blob.AssertExpectations(t)
}

func TestPreviewReleasesImagesEvenOnScoringFailure(t *testing.T) {
	blob := new(MockBlobStore)
	blob.On("Upload", mock.Anything, "book_images", "photo.png", "image/png").
		Return("http://127.0.0.1:1/dead.png", "book_images/k1", nil).Once()
	blob.On("DeleteAll", mock.Anything, []string{"book_images/k1"}).
		Return(service.DeleteReport{Deleted: []string{"book_images/k1"}}).Once()

	p := &Pipeline{Blob: blob, Regressor: NewRegressor(writeTestCheckpoint(t, 40), time.Second)}
	_, err := p.Preview(context.Background(), 250, testImages(1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValuation, apperr.KindOf(err))
	blob.AssertExpectations(t)
}

func TestPreviewRejectsNegativeCost(t *testing.T) {
	p := &Pipeline{Blob: new(MockBlobStore), Regressor: NewRegressor(writeTestCheckpoint(t, 40), time.Second)}
	_, err := p.Preview(context.Background(), -1, testImages(1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestQualityZeroImages(t *testing.T) {
	blob := new(MockBlobStore)
	p := &Pipeline{Blob: blob, Regressor: NewRegressor(writeTestCheckpoint(t, 40), time.Second)}
	_, err := p.Quality(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	blob.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQualityReleasesEarlierUploadsWhenOneFails(t *testing.T) {
	blob := new(MockBlobStore)
	blob.On("Upload", mock.Anything, "book_images", "photo.png", "image/png").
		Return("http://example.test/a.png", "book_images/k1", nil).Once()
	blob.On("Upload", mock.Anything, "book_images", "photo.png", "image/png").
		Return("", "", assert.AnError).Once()
	blob.On("DeleteAll", mock.Anything, []string{"book_images/k1"}).
		Return(service.DeleteReport{Deleted: []string{"book_images/k1"}}).Once()

	p := &Pipeline{Blob: blob, Regressor: NewRegressor(writeTestCheckpoint(t, 40), time.Second)}
	_, err := p.Quality(context.Background(), testImages(2))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValuation, apperr.KindOf(err))
	blob.AssertExpectations(t)
}

func TestFinalPriceFormula(t *testing.T) {
	tests := []struct {
		cost, quality, want float64
	}{
		{100, 80, 80},
		{250, 80, 200},
		{99.99, 33.33, 33.33}, // round(33.326667, 2)
		{0, 80, 0},
		{100, 0, 0},
		{100, 120, 120}, // unclamped quality propagates
		{100, -10, -10}, // negative quality propagates too
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FinalPrice(tt.cost, tt.quality))
	}
}
