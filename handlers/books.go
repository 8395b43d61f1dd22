package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/models"
	"github.com/bookbazaar/backend/service"
	"github.com/bookbazaar/backend/store"
)

type BooksHandler struct {
	DB       store.BookStore
	Blob     service.BlobStore
	MaxBytes int64
}

// UploadBook creates a confirmed listing. The seller has already previewed
// the valuation; the submitted final_price is the one the pipeline produced.
// Images attached here are retained as the listing's photo set.
func (h *BooksHandler) UploadBook(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, apperr.InvalidInput("failed to parse multipart form"))
		return
	}

	book := &models.Book{
		Email:           r.FormValue("email"),
		BookName:        r.FormValue("book_name"),
		BookDescription: r.FormValue("book_description"),
		AuthorName:      r.FormValue("author_name"),
		ReferenceID:     r.FormValue("reference_id"),
		CreatedAt:       time.Now(),
	}
	if book.Email == "" || book.BookName == "" || book.ReferenceID == "" {
		writeError(w, apperr.InvalidInput("email, book_name and reference_id are required"))
		return
	}

	var err error
	if book.PublicationYear, err = strconv.Atoi(r.FormValue("publication_year")); err != nil {
		writeError(w, apperr.InvalidInput("publication_year must be an integer"))
		return
	}
	if book.CostPrice, err = strconv.ParseFloat(r.FormValue("cost_price"), 64); err != nil || book.CostPrice < 0 {
		writeError(w, apperr.InvalidInput("cost_price must be a non-negative number"))
		return
	}
	// A Book never exists without a valuation behind it.
	if book.FinalPrice, err = strconv.ParseFloat(r.FormValue("final_price"), 64); err != nil || book.FinalPrice < 0 {
		writeError(w, apperr.InvalidInput("final_price must be a non-negative number"))
		return
	}

	existing, err := h.DB.BookByReferenceID(r.Context(), book.ReferenceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeError(w, apperr.Conflict("reference_id already exists"))
		return
	}

	files := r.MultipartForm.File["book_images"]
	if len(files) == 0 {
		writeError(w, apperr.InvalidInput("at least one image is required"))
		return
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.releaseImages(r, book.ImageKeys)
			writeError(w, apperr.InvalidInput("failed to read image %s", fh.Filename))
			return
		}
		url, key, err := h.Blob.Upload(r.Context(), "book_images", fh.Filename, f, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			h.releaseImages(r, book.ImageKeys)
			writeError(w, err)
			return
		}
		book.BookImages = append(book.BookImages, url)
		book.ImageKeys = append(book.ImageKeys, key)
	}

	if err := h.DB.InsertBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book successfully uploaded for sale."})
}

// releaseImages drops blobs uploaded for a listing that never got inserted.
func (h *BooksHandler) releaseImages(r *http.Request, keys []string) {
	if len(keys) == 0 {
		return
	}
	report := h.Blob.DeleteAll(r.Context(), keys)
	if len(report.Failed) > 0 {
		log.Printf("upload-book: %d image(s) not released: %v", len(report.Failed), report.Failed)
	}
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.AllBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *BooksHandler) SellerBooks(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperr.InvalidInput("email is required"))
		return
	}
	books, err := h.DB.BooksBySeller(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *BooksHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "book_name")
	book, err := h.DB.BookByName(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if book == nil {
		writeError(w, apperr.NotFound("book not found"))
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Delete removes a listing and releases its hosted images. Blob deletes run
// first and their outcome is reported; the document goes away regardless.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	referenceID := chi.URLParam(r, "reference_id")
	book, err := h.DB.BookByReferenceID(r.Context(), referenceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if book == nil {
		writeError(w, apperr.NotFound("book not found"))
		return
	}

	report := h.Blob.DeleteAll(r.Context(), book.ImageKeys)
	if err := h.DB.DeleteBookByReferenceID(r.Context(), referenceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Book deleted successfully",
		"image_delete": report,
	})
}
