package storefront

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	storefrontports "github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
	apierrors "github.com/Apurer/gamestore-client/internal/shared/errors"
)

// messagePaths are probed in order for a server supplied error message.
var messagePaths = []string{"message", "error.message", "error", "detail", "title"}

// fallbackMessages replace the bare status text for specific operations.
var fallbackMessages = map[string]string{
	opLogin: "login failed",
}

func rejected(op string, res *http.Response, data []byte) error {
	fallback := fallbackMessages[op]
	if fallback == "" {
		fallback = statusText(res)
	}
	err := storefrontports.Rejected(op, res.StatusCode, errorMessage(data, fallback), rawPayload(data), nil)
	if isProblemJSON(res.Header.Get("Content-Type")) {
		var problem apierrors.ProblemDetail
		if json.Unmarshal(data, &problem) == nil {
			err.Problem = &problem
		}
	}
	return err
}

// errorMessage extracts the most specific message from an error payload.
func errorMessage(data []byte, fallback string) string {
	if gjson.ValidBytes(data) {
		for _, path := range messagePaths {
			result := gjson.GetBytes(data, path)
			if result.Type != gjson.String {
				continue
			}
			if msg := strings.TrimSpace(result.Str); msg != "" {
				return msg
			}
		}
		return fallback
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return fallback
}

// rawPayload keeps JSON bodies verbatim and wraps anything else as a string.
func rawPayload(data []byte) json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	if gjson.ValidBytes(data) {
		return json.RawMessage(append([]byte(nil), data...))
	}
	encoded, err := json.Marshal(string(data))
	if err != nil {
		return nil
	}
	return encoded
}

func isProblemJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == apierrors.ContentTypeProblemJSON
}

func statusText(res *http.Response) string {
	if text := http.StatusText(res.StatusCode); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("unexpected status %d", res.StatusCode)
}
