// Package discovery probes a provider's base URL for an OpenAI-compatible
// models-listing endpoint and fetches the available model identifiers.
// It is stateless: one attempt per candidate path, no retries.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
)

// Sentinel errors. Callers match with errors.Is.
var (
	ErrInvalidURL        = errors.New("invalid base URL")
	ErrEndpointNotFound  = errors.New("no models endpoint found")
	ErrUnreachableHost   = errors.New("host unreachable")
	ErrMalformedResponse = errors.New("malformed models response")
)

// candidatePaths are probed in order; the first one answering with a
// well-formed model-list payload wins.
var candidatePaths = []string{"/v1/models", "/models"}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// NormalizeBaseURL strips trailing slashes and a trailing /v1 segment, and
// validates that the input is an absolute http(s) URL. Providers commonly
// hand out URLs ending in /v1; the probe paths carry the version segment
// themselves.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/v1")
	return strings.TrimRight(u.String(), "/"), nil
}

// DiscoverModelsEndpoint returns the first candidate endpoint under baseURL
// that responds with a parseable model list.
func DiscoverModelsEndpoint(ctx context.Context, baseURL string) (string, error) {
	base, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return "", err
	}
	for _, p := range candidatePaths {
		endpoint := base + p
		body, err := get(ctx, endpoint)
		if err != nil {
			continue
		}
		if _, err := parseModelList(body); err != nil {
			continue
		}
		return endpoint, nil
	}
	return "", fmt.Errorf("%w: %s", ErrEndpointNotFound, base)
}

// FetchModels discovers the models endpoint for baseURL and returns the model
// identifiers it lists. A valid response with zero models yields an empty
// slice, not an error.
func FetchModels(ctx context.Context, baseURL string) ([]string, error) {
	endpoint, err := DiscoverModelsEndpoint(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	body, err := get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return parseModelList(body)
}

func get(ctx context.Context, endpoint string) (string, error) {
	var body string
	err := requests.
		URL(endpoint).
		Client(httpClient).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreachableHost, endpoint, err)
	}
	return body, nil
}

// parseModelList extracts model identifiers from the accepted payload shapes:
// an OpenAI-style {"data":[{"id":...}]}, a {"models":[...]} object with
// string or {"id":...} entries, or a bare array of either.
func parseModelList(body string) ([]string, error) {
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformedResponse)
	}
	root := gjson.Parse(body)

	var list gjson.Result
	switch {
	case root.IsArray():
		list = root
	case root.Get("data").IsArray():
		list = root.Get("data")
	case root.Get("models").IsArray():
		list = root.Get("models")
	default:
		return nil, fmt.Errorf("%w: no model list in payload", ErrMalformedResponse)
	}

	models := []string{}
	for _, item := range list.Array() {
		switch {
		case item.Type == gjson.String:
			models = append(models, item.String())
		case item.Get("id").Exists():
			models = append(models, item.Get("id").String())
		}
	}
	return models, nil
}
