package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveFields are redacted from logged request and response bodies
var sensitiveFields = []string{
	"password",
	"passwordhash",
	"token",
	"secret",
	"authorization",
	"credential",
}

// requestLogEntry is one structured log line per request
type requestLogEntry struct {
	Timestamp   string      `json:"timestamp"`
	Method      string      `json:"method"`
	Path        string      `json:"path"`
	StatusCode  int         `json:"statusCode"`
	Latency     string      `json:"latency"`
	ClientIP    string      `json:"clientIp"`
	RequestBody interface{} `json:"requestBody,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// RequestLogger logs every API request as a single JSON line. Credentials and
// tokens in request bodies are redacted before logging.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Body != nil && shouldLogBody(c.ContentType()) {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		entry := requestLogEntry{
			Timestamp:  time.Now().Format(time.RFC3339),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Latency:    time.Since(start).String(),
			ClientIP:   c.ClientIP(),
		}
		if len(requestBody) > 0 {
			entry.RequestBody = redactBody(requestBody)
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.String()
		}

		line, err := json.Marshal(entry)
		if err != nil {
			log.Printf("request logger: failed to marshal entry: %v", err)
			return
		}
		log.Println(string(line))
	}
}

// shouldLogBody skips body capture for binary uploads
func shouldLogBody(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

// redactBody parses a JSON body and masks sensitive fields. Non-JSON bodies
// are logged truncated.
func redactBody(body []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		s := string(body)
		if len(s) > 512 {
			s = s[:512] + "... (truncated)"
		}
		return s
	}
	redactValue(parsed)
	return parsed
}

func redactValue(data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = "[REDACTED]"
			} else {
				redactValue(value)
			}
		}
	case []interface{}:
		for _, item := range v {
			redactValue(item)
		}
	}
}

func isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
