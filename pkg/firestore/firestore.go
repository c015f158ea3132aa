// Package firestore provides a read-only client for the Firestore REST API,
// used to pull event documents out of the hosted store the scoreboard
// used to run on.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abrezinsky/sportsday/internal/logger"
)

// DefaultBaseURL is the public Firestore REST endpoint
const DefaultBaseURL = "https://firestore.googleapis.com/v1"

const pageSize = 300

// Document is a decoded Firestore document. Fields hold plain Go values:
// string, int64, float64, bool, nil, []any and map[string]any.
type Document struct {
	ID         string
	Name       string
	Fields     map[string]any
	CreateTime time.Time
	UpdateTime time.Time
}

// Client defines the interface for reading documents
type Client interface {
	// ListDocuments returns every document in a collection, following pages
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	// Project returns the configured project id
	Project() string
}

// Value is a Firestore typed value as sent over the wire
type Value struct {
	NullValue      *string     `json:"nullValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	DoubleValue    *float64    `json:"doubleValue,omitempty"`
	TimestampValue *string     `json:"timestampValue,omitempty"`
	StringValue    *string     `json:"stringValue,omitempty"`
	BytesValue     *string     `json:"bytesValue,omitempty"`
	ReferenceValue *string     `json:"referenceValue,omitempty"`
	GeoPointValue  *GeoPoint   `json:"geoPointValue,omitempty"`
	ArrayValue     *ArrayValue `json:"arrayValue,omitempty"`
	MapValue       *MapValue   `json:"mapValue,omitempty"`
}

// GeoPoint is a latitude/longitude pair
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ArrayValue holds a list of values
type ArrayValue struct {
	Values []Value `json:"values"`
}

// MapValue holds named values
type MapValue struct {
	Fields map[string]Value `json:"fields"`
}

// Decode converts a typed value into a plain Go value
func (v Value) Decode() any {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return *v.IntegerValue
		}
		return n
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.TimestampValue != nil:
		return *v.TimestampValue
	case v.ReferenceValue != nil:
		return *v.ReferenceValue
	case v.BytesValue != nil:
		return *v.BytesValue
	case v.GeoPointValue != nil:
		return map[string]any{"latitude": v.GeoPointValue.Latitude, "longitude": v.GeoPointValue.Longitude}
	case v.ArrayValue != nil:
		out := make([]any, len(v.ArrayValue.Values))
		for i, item := range v.ArrayValue.Values {
			out[i] = item.Decode()
		}
		return out
	case v.MapValue != nil:
		return DecodeFields(v.MapValue.Fields)
	default:
		return nil
	}
}

// DecodeFields converts a field map into plain Go values
func DecodeFields(fields map[string]Value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v.Decode()
	}
	return out
}

type wireDocument struct {
	Name       string           `json:"name"`
	Fields     map[string]Value `json:"fields"`
	CreateTime string           `json:"createTime"`
	UpdateTime string           `json:"updateTime"`
}

type listResponse struct {
	Documents     []wireDocument `json:"documents"`
	NextPageToken string         `json:"nextPageToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (d wireDocument) decode() Document {
	doc := Document{
		Name:   d.Name,
		ID:     d.Name[strings.LastIndex(d.Name, "/")+1:],
		Fields: DecodeFields(d.Fields),
	}
	doc.CreateTime, _ = time.Parse(time.RFC3339Nano, d.CreateTime)
	doc.UpdateTime, _ = time.Parse(time.RFC3339Nano, d.UpdateTime)
	return doc
}

// HTTPClient reads documents over the REST API
type HTTPClient struct {
	baseURL    string
	project    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new Firestore REST client
func NewHTTPClient(baseURL, project, apiKey string, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(baseURL, project, apiKey, &http.Client{Timeout: 30 * time.Second}, log)
}

// NewHTTPClientWithHTTPClient creates a new Firestore client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL, project, apiKey string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		project:    project,
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        log,
	}
}

// Project returns the configured project id
func (c *HTTPClient) Project() string {
	return c.project
}

// ListDocuments retrieves every document of a collection
func (c *HTTPClient) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	if c.project == "" {
		return nil, fmt.Errorf("firestore project is not configured")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	var docs []Document
	pageToken := ""
	for {
		page, err := c.listPage(ctx, collection, pageToken)
		if err != nil {
			return nil, err
		}
		for _, d := range page.Documents {
			docs = append(docs, d.decode())
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.log.Debug("Firestore collection listed", "collection", collection, "documents", len(docs))
	return docs, nil
}

func (c *HTTPClient) listPage(ctx context.Context, collection, pageToken string) (*listResponse, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s?%s",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(collection), params.Encode())

	c.log.Debug("Firestore request", "method", "GET", "collection", collection, "page_token", pageToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Firestore: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
			return nil, fmt.Errorf("Firestore returned status %d: %s (%s)", resp.StatusCode, e.Error.Message, e.Error.Status)
		}
		return nil, fmt.Errorf("Firestore returned status %d: %s", resp.StatusCode, string(body))
	}

	var page listResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &page, nil
}
