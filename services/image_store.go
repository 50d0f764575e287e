// services/image_store.go
package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"servicehub-backend/utils"
)

// publicPrefix is the URL path the router serves the upload root under.
const publicPrefix = "/uploads"

// ImageStore writes booking attachments under <root>/bookings and hands
// back their public URL references.
type ImageStore struct {
	root string
}

func NewImageStore() *ImageStore {
	root := os.Getenv("UPLOAD_DIR")
	if root == "" {
		root = "uploaded_images"
	}
	return &ImageStore{root: root}
}

func NewImageStoreAt(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Root returns the directory the store writes into, for static serving.
func (s *ImageStore) Root() string {
	return s.root
}

// SaveBookingImages stores every file and returns their URL references in
// input order. A failure on any file removes everything written for this
// booking and returns a StorageError; a booking must never reference a
// file that does not exist.
func (s *ImageStore) SaveBookingImages(bookingID string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	dir := filepath.Join(s.root, "bookings")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Err: err}
	}

	urls := make([]string, 0, len(files))
	written := make([]string, 0, len(files))
	for i, file := range files {
		// booking id + timestamp + index + original name keeps stored
		// names collision-resistant, including same-second duplicates
		timestamp := time.Now().UTC().Format("20060102_150405")
		filename := fmt.Sprintf("%s_%s_%d_%s", bookingID, timestamp, i, utils.SanitizeFilename(file.Filename))
		path := filepath.Join(dir, filename)

		if err := saveUploadedFile(file, path); err != nil {
			s.remove(written)
			return nil, &StorageError{Op: "save " + filename, Err: err}
		}
		written = append(written, path)
		urls = append(urls, fmt.Sprintf("%s/bookings/%s", publicPrefix, filename))
	}
	return urls, nil
}

// RemoveBookingImages deletes previously saved attachments, given their
// URL references. Used to roll back when the booking insert fails.
func (s *ImageStore) RemoveBookingImages(urls []string) {
	paths := make([]string, 0, len(urls))
	for _, url := range urls {
		paths = append(paths, filepath.Join(s.root, "bookings", filepath.Base(url)))
	}
	s.remove(paths)
}

func (s *ImageStore) remove(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}

// saveUploadedFile copies one multipart file to dst, closing both ends on
// every exit path. The partially written file is removed on error.
func saveUploadedFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
