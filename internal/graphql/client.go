package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/storageops/nebulon-mcp/internal/config"
)

const defaultTimeout = 60 * time.Second

// HTTPClient is a concrete implementation of the Client interface that
// sends GraphQL operations over HTTPS using the standard library net/http
// package. It keeps a single reusable session: a cookie jar carries the
// login session and the client identity headers are fixed at construction.
type HTTPClient struct {
	httpClient     *http.Client
	endpoint       string
	clientApp      string
	clientPlatform string
	verbose        bool
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs an HTTPClient from the provided APIConfig. It
// returns an error if cfg.URL is empty. When cfg.Timeout is zero or
// negative, a default timeout of 60 seconds is used.
func NewHTTPClient(cfg config.APIConfig) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("graphql: URL is required")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = defaultTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("graphql: create cookie jar: %w", err)
	}

	name := cfg.ClientName
	if name == "" {
		name = "nebulon-mcp"
	}
	version := cfg.ClientVersion
	if version == "" {
		version = "unknown"
	}

	return &HTTPClient{
		httpClient:     &http.Client{Timeout: timeout, Jar: jar},
		endpoint:       normalizeURL(cfg.URL),
		clientApp:      name + "/" + version,
		clientPlatform: runtime.GOOS + "/" + runtime.GOARCH,
		verbose:        cfg.Verbose,
	}, nil
}

// normalizeURL trims any trailing slash from rawURL and appends /query if
// the path does not already end with that suffix.
func normalizeURL(rawURL string) string {
	u := strings.TrimRight(rawURL, "/")
	if !strings.HasSuffix(u, "/query") {
		u += "/query"
	}
	return u
}

// Query formats and executes a GraphQL query and returns the raw JSON of
// its payload.
func (c *HTTPClient) Query(ctx context.Context, name string, params *Params, fields []string) (json.RawMessage, error) {
	operation, err := FormatOperation(KindQuery, name, params, fields)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, name, operation, params, nil)
}

// Mutate formats and executes a GraphQL mutation. Upload-typed parameters
// are extracted first and submitted as multipart file parts.
func (c *HTTPClient) Mutate(ctx context.Context, name string, params *Params, fields []string) (json.RawMessage, error) {
	extracted, uploads := ExtractUploads(params)
	operation, err := FormatOperation(KindMutation, name, extracted, fields)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, name, operation, extracted, uploads)
}

// operationRequest is the JSON body shape for a plain GraphQL HTTP request.
type operationRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// responseError represents a single error returned in a GraphQL response.
type responseError struct {
	Message string `json:"message"`
}

// responseEnvelope is the JSON body shape for a GraphQL HTTP response.
type responseEnvelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []responseError            `json:"errors"`
}

// call sends one formatted operation to the configured endpoint and returns
// the payload keyed by the operation name, or an *APIError when the server
// responds with a non-2xx status or a top-level errors list. A success
// response without the named payload returns (nil, nil); some mutations
// legitimately report only success.
func (c *HTTPClient) call(ctx context.Context, name, operation string, params *Params, uploads []UploadRef) (json.RawMessage, error) {
	variables := EncodeVariables(params)

	if c.verbose {
		redacted, _ := json.MarshalIndent(RedactVariables(params), "", "  ")
		log.Printf("graphql: POST %s", c.endpoint)
		log.Printf("graphql: operation: %s", operation)
		log.Printf("graphql: variables: %s", redacted)
	}
	start := time.Now()

	var body *bytes.Buffer
	var contentType string
	var err error
	if len(uploads) > 0 {
		body, contentType, err = buildMultipartBody(operation, variables, uploads)
		if err != nil {
			return nil, err
		}
	} else {
		raw, err := json.Marshal(operationRequest{Query: operation, Variables: variables})
		if err != nil {
			return nil, fmt.Errorf("graphql: marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("graphql: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Nebulon-Client-App", c.clientApp)
	req.Header.Set("Nebulon-Client-Platform", c.clientPlatform)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graphql: read response: %w", err)
	}

	if c.verbose {
		log.Printf("graphql: elapsed: %s", time.Since(start))
		log.Printf("graphql: response: %s", raw)
	}

	var envelope responseEnvelope
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Messages:   msgs,
			Request:    operation,
		}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("graphql: decode response: %w", decodeErr)
	}

	if payload, ok := envelope.Data[name]; ok {
		return payload, nil
	}
	return nil, nil
}

// buildMultipartBody assembles a multipart upload request following the
// GraphQL multipart convention: an "operations" part with the query and
// nulled variables, a "map" part associating each file part index with its
// dotted path inside the variables tree, and one part per file keyed by
// that index.
func buildMultipartBody(operation string, variables map[string]any, uploads []UploadRef) (*bytes.Buffer, string, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     operation,
		"variables": variables,
	})
	if err != nil {
		return nil, "", fmt.Errorf("graphql: marshal operations: %w", err)
	}

	fileMap := make(map[string][]string, len(uploads))
	for i, u := range uploads {
		fileMap[strconv.Itoa(i)] = []string{"variables." + u.Path}
	}
	mapJSON, err := json.Marshal(fileMap)
	if err != nil {
		return nil, "", fmt.Errorf("graphql: marshal file map: %w", err)
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("operations", string(payload)); err != nil {
		return nil, "", fmt.Errorf("graphql: write operations part: %w", err)
	}
	if err := w.WriteField("map", string(mapJSON)); err != nil {
		return nil, "", fmt.Errorf("graphql: write map part: %w", err)
	}

	for i, u := range uploads {
		part, err := w.CreateFormFile(strconv.Itoa(i), filepath.Base(u.FilePath))
		if err != nil {
			return nil, "", fmt.Errorf("graphql: create file part %d: %w", i, err)
		}
		content, err := os.ReadFile(u.FilePath)
		if err != nil {
			return nil, "", fmt.Errorf("graphql: read upload %q: %w", u.FilePath, err)
		}
		if _, err := part.Write(content); err != nil {
			return nil, "", fmt.Errorf("graphql: write file part %d: %w", i, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("graphql: finalize multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
