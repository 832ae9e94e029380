package firestore

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/domain/models"
)

const pageSize = 300

// APIClient reads documents through the Firestore REST API.
type APIClient struct {
	httpClient *resty.Client
	collection string
	apiKey     string
}

// NewClient builds a Firestore REST client using the provided configuration values.
func NewClient(cfg config.FirestoreConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/projects/%s/databases/(default)/documents", base, cfg.ProjectID)).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
	}
}

// Document is a single Firestore document.
type Document struct {
	Name   string           `json:"name"`
	Fields map[string]Value `json:"fields"`
}

// ID returns the last segment of the document resource name.
func (d Document) ID() string {
	return path.Base(d.Name)
}

// Value is a Firestore typed value. Exactly one field is set.
type Value struct {
	StringValue    *string     `json:"stringValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	DoubleValue    *float64    `json:"doubleValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	TimestampValue *string     `json:"timestampValue,omitempty"`
	NullValue      *string     `json:"nullValue,omitempty"`
	ReferenceValue *string     `json:"referenceValue,omitempty"`
	MapValue       *MapValue   `json:"mapValue,omitempty"`
	ArrayValue     *ArrayValue `json:"arrayValue,omitempty"`
}

// MapValue is a nested document value.
type MapValue struct {
	Fields map[string]Value `json:"fields"`
}

// ArrayValue is a list value.
type ArrayValue struct {
	Values []Value `json:"values"`
}

type listResponse struct {
	Documents     []Document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ListDocuments pages through every document of the collection.
func (c *APIClient) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var (
		documents []Document
		pageToken string
	)

	for {
		result := new(listResponse)
		apiErr := new(apiError)

		req := c.httpClient.R().
			SetContext(ctx).
			SetQueryParam("pageSize", strconv.Itoa(pageSize)).
			SetResult(result).
			SetError(apiErr)
		if c.apiKey != "" {
			req.SetQueryParam("key", c.apiKey)
		}
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}

		resp, err := req.Get(collection)
		if err != nil {
			return nil, fmt.Errorf("list firestore documents: %w", err)
		}
		if resp.StatusCode() >= http.StatusBadRequest {
			message := apiErr.Error.Message
			if message == "" {
				message = resp.Status()
			}
			return nil, fmt.Errorf("firestore api error: code=%d, message=%s", resp.StatusCode(), message)
		}

		documents = append(documents, result.Documents...)
		if result.NextPageToken == "" {
			return documents, nil
		}
		pageToken = result.NextPageToken
	}
}

// FetchRaw lists the configured collection and decodes every document into a
// raw stock record. The document id is used when no "id" field is stored.
func (c *APIClient) FetchRaw(ctx context.Context) ([]models.RawRecord, error) {
	documents, err := c.ListDocuments(ctx, c.collection)
	if err != nil {
		return nil, err
	}

	records := make([]models.RawRecord, 0, len(documents))
	for _, doc := range documents {
		record := make(models.RawRecord, len(doc.Fields)+1)
		for key, value := range doc.Fields {
			record[key] = value.Decode()
		}
		if _, ok := record[models.FieldID]; !ok {
			record[models.FieldID] = doc.ID()
		}
		records = append(records, record)
	}
	return records, nil
}

// Decode converts the typed value into a plain Go value.
func (v Value) Decode() any {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		if n, err := strconv.ParseInt(*v.IntegerValue, 10, 64); err == nil {
			return n
		}
		return *v.IntegerValue
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.TimestampValue != nil:
		if t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue); err == nil {
			return t.UTC()
		}
		return *v.TimestampValue
	case v.ReferenceValue != nil:
		return *v.ReferenceValue
	case v.MapValue != nil:
		out := make(map[string]any, len(v.MapValue.Fields))
		for key, field := range v.MapValue.Fields {
			out[key] = field.Decode()
		}
		return out
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, item := range v.ArrayValue.Values {
			out = append(out, item.Decode())
		}
		return out
	default:
		return nil
	}
}
