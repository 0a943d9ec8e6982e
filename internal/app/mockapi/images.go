package mockapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const maxImageBytes = 5 << 20

type image struct {
	contentType string
	data        []byte
}

// imageStore keeps uploaded game images in memory.
type imageStore struct {
	mu     sync.RWMutex
	images map[string]image
}

func newImageStore() *imageStore {
	return &imageStore{images: map[string]image{}}
}

// Put stores an uploaded image and returns its generated name.
func (s *imageStore) Put(header *multipart.FileHeader) (string, error) {
	if header.Size > maxImageBytes {
		return "", errors.New("image exceeds 5MB")
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxImageBytes {
		return "", errors.New("image exceeds 5MB")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		if declared := header.Header.Get("Content-Type"); strings.HasPrefix(declared, "image/") {
			contentType = declared
		} else {
			return "", errors.New("only image files are allowed")
		}
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))

	s.mu.Lock()
	s.images[name] = image{contentType: contentType, data: data}
	s.mu.Unlock()
	return name, nil
}

func (s *imageStore) Get(name string) (image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	return img, ok
}
