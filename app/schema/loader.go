package schema

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

const remoteFetchTimeout = 15 * time.Second

// Schema bundles the content rules and the taxonomy.
type Schema struct {
	Content  ContentSchema
	Taxonomy Taxonomy
}

// LoadOptions select where schema and taxonomy come from. Resolution order
// per document: explicit file, then remote URL, then the embedded fallback.
type LoadOptions struct {
	SchemaFile   string
	TaxonomyFile string
	SchemaURL    string
	TaxonomyURL  string
	HTTPClient   *http.Client
	UserAgent    string
}

// Load resolves the content schema and taxonomy. An explicit file that
// exists but cannot be parsed is an error; remote failures fall through to
// the embedded fallback.
func Load(opts LoadOptions) (*Schema, error) {
	s := &Schema{}

	schemaData, err := resolve(opts.SchemaFile, opts.SchemaURL, "fallback/content-schema.json", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load content schema: %w", err)
	}
	if err := json.Unmarshal(schemaData, &s.Content); err != nil {
		return nil, fmt.Errorf("failed to parse content schema: %w", err)
	}

	taxonomyData, err := resolve(opts.TaxonomyFile, opts.TaxonomyURL, "fallback/categories.json", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	if err := json.Unmarshal(taxonomyData, &s.Taxonomy); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	if len(s.Taxonomy.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy contains no categories")
	}

	return s, nil
}

func resolve(file, url, fallback string, opts LoadOptions) ([]byte, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return data, nil
	}

	if url != "" {
		data, err := fetch(url, opts)
		if err == nil {
			return data, nil
		}
		slog.Warn("Remote schema fetch failed, using embedded fallback", "url", url, "error", err)
	}

	return fallbackFS.ReadFile(fallback)
}

func fetch(url string, opts LoadOptions) ([]byte, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: remoteFetchTimeout}
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
