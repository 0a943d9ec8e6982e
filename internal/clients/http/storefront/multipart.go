package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strconv"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
)

// ImageField is the multipart field carrying a game's image.
const ImageField = "image"

// encodeGameInput renders a game mutation as JSON, or as multipart form data
// when an image is attached.
func encodeGameInput(input catalog.GameInput) (io.Reader, string, error) {
	if !input.HasImage() {
		data, err := json.Marshal(input)
		if err != nil {
			return nil, "", fmt.Errorf("encode game: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct {
		name, value string
	}{
		{"title", input.Title},
		{"description", input.Description},
		{"price", strconv.FormatFloat(input.Price, 'f', -1, 64)},
		{"genre", input.Genre},
		{"platform", input.Platform},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	filename := filepath.Base(input.Image.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		filename = ImageField
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ImageField, filename))
	header.Set("Content-Type", contentTypeFor(filename))
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, input.Image.Content); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func contentTypeFor(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
