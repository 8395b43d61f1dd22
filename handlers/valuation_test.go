package handlers

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookbazaar/backend/ocr"
	"github.com/bookbazaar/backend/service"
	"github.com/bookbazaar/backend/valuation"
)

func testRegressor(t *testing.T, bias float32) *valuation.Regressor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.bin")
	var buf bytes.Buffer
	require.NoError(t, valuation.WriteCheckpoint(&buf, make([]float32, valuation.FeatureDim), bias))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return valuation.NewRegressor(path, 5*time.Second)
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractPriceEndpointAnswersNullOnMiss(t *testing.T) {
	h := &ValuationHandler{Extractor: ocr.NewExtractor("", "en", time.Second)}
	body, ct := multipartBody(t, nil, "price_image", []string{"tag.jpg"})
	req := httptest.NewRequest(http.MethodPost, "/extract-price", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ExtractPrice(rec, req)

	// Extraction is best-effort: misses and faults are still 200s.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"extracted_price":null`)
}

func TestExtractPriceEndpointAnswersNullWithoutImage(t *testing.T) {
	h := &ValuationHandler{Extractor: ocr.NewExtractor("", "en", time.Second)}
	req := httptest.NewRequest(http.MethodPost, "/extract-price", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	h.ExtractPrice(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"extracted_price":null`)
}

func TestPredictRequiresImages(t *testing.T) {
	blob := new(MockBlobStore)
	h := &ValuationHandler{Pipeline: &valuation.Pipeline{Blob: blob, Regressor: testRegressor(t, 40)}}
	body, ct := multipartBody(t, nil, "images", nil)
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Predict(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	blob.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestPredictSurfacesRegressorFailure(t *testing.T) {
	blob := new(MockBlobStore)
	blob.On("Upload", "book_images", "a.png", mock.Anything).
		Return("http://127.0.0.1:1/dead.png", "book_images/a", nil).Once()
	blob.On("DeleteAll", []string{"book_images/a"}).
		Return(service.DeleteReport{Deleted: []string{"book_images/a"}}).Once()

	h := &ValuationHandler{Pipeline: &valuation.Pipeline{Blob: blob, Regressor: testRegressor(t, 40)}}
	body, ct := multipartBody(t, nil, "images", []string{"a.png"})
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Predict(rec, req)

	// Never a masked default score: scoring failures are server errors.
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	blob.AssertExpectations(t)
}

func TestPredictReturnsQuality(t *testing.T) {
	srv := imageServer(t)
	blob := new(MockBlobStore)
	blob.On("Upload", "book_images", "a.png", mock.Anything).
		Return(srv.URL+"/a.png", "book_images/a", nil).Once()
	blob.On("DeleteAll", []string{"book_images/a"}).
		Return(service.DeleteReport{Deleted: []string{"book_images/a"}}).Once()

	h := &ValuationHandler{Pipeline: &valuation.Pipeline{Blob: blob, Regressor: testRegressor(t, 40)}}
	body, ct := multipartBody(t, nil, "images", []string{"a.png"})
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Predict(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quality_percent":80`)
	blob.AssertExpectations(t)
}

func TestPreviewPriceComputesFinalPrice(t *testing.T) {
	srv := imageServer(t)
	blob := new(MockBlobStore)
	blob.On("Upload", "book_images", "a.png", mock.Anything).
		Return(srv.URL+"/a.png", "book_images/a", nil).Once()
	blob.On("DeleteAll", []string{"book_images/a"}).
		Return(service.DeleteReport{Deleted: []string{"book_images/a"}}).Once()

	h := &ValuationHandler{Pipeline: &valuation.Pipeline{Blob: blob, Regressor: testRegressor(t, 40)}}
	body, ct := multipartBody(t, map[string]string{"cost_price": "250"}, "book_images", []string{"a.png"})
	req := httptest.NewRequest(http.MethodPost, "/store-book-details", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.PreviewPrice(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"final_price":200`)
	blob.AssertExpectations(t)
}

func TestPreviewPriceRejectsNegativeCost(t *testing.T) {
	h := &ValuationHandler{Pipeline: &valuation.Pipeline{Blob: new(MockBlobStore), Regressor: testRegressor(t, 40)}}
	body, ct := multipartBody(t, map[string]string{"cost_price": "-3"}, "book_images", []string{"a.png"})
	req := httptest.NewRequest(http.MethodPost, "/store-book-details", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.PreviewPrice(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cost_price")
}
