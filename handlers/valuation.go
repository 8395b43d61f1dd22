package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/ocr"
	"github.com/bookbazaar/backend/valuation"
)

type ValuationHandler struct {
	Pipeline  *valuation.Pipeline
	Extractor *ocr.Extractor
	MaxBytes  int64
}

// ExtractPrice reads a price off one price-tag photo. Best effort: a miss or
// any internal fault answers 200 with a null price.
func (h *ValuationHandler) ExtractPrice(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"extracted_price": nil})
		return
	}
	file, header, err := r.FormFile("price_image")
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"extracted_price": nil})
		return
	}
	defer file.Close()

	res := h.Extractor.ExtractPrice(r.Context(), file, header.Filename)
	if !res.Found {
		writeJSON(w, http.StatusOK, map[string]any{"extracted_price": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"extracted_price": res.Price})
}

// Predict scores condition images and returns the quality percentage only.
// Regressor failures surface as server errors, never as a default score.
func (h *ValuationHandler) Predict(w http.ResponseWriter, r *http.Request) {
	images, err := h.readImages(w, r, "images")
	if err != nil {
		writeError(w, err)
		return
	}
	quality, err := h.Pipeline.Quality(r.Context(), images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"quality_percent": quality})
}

// PreviewPrice runs the full valuation pipeline for a seller deciding
// whether to list: host, score, price, release the preview images.
func (h *ValuationHandler) PreviewPrice(w http.ResponseWriter, r *http.Request) {
	images, err := h.readImages(w, r, "book_images")
	if err != nil {
		writeError(w, err)
		return
	}
	costPrice, err := strconv.ParseFloat(r.FormValue("cost_price"), 64)
	if err != nil || costPrice < 0 {
		writeError(w, apperr.InvalidInput("cost_price must be a non-negative number"))
		return
	}
	res, err := h.Pipeline.Preview(r.Context(), costPrice, images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"final_price": res.FinalPrice})
}

func (h *ValuationHandler) readImages(w http.ResponseWriter, r *http.Request, field string) ([]valuation.Image, error) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		return nil, apperr.InvalidInput("failed to parse multipart form")
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, apperr.InvalidInput("at least one image is required")
	}
	var images []valuation.Image
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, apperr.InvalidInput("failed to read image %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperr.InvalidInput("failed to read image %s", fh.Filename)
		}
		images = append(images, valuation.Image{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}
