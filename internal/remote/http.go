// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"depot-cli/pkg/catalog"
)

// maxResponseSize bounds depot responses (64MB covers any realistic
// archive; protects against runaway reads on a misbehaving server).
const maxResponseSize = 64 << 20

// HTTPOptions configures the HTTP depot client.
type HTTPOptions struct {
	// BaseURL is the depot API base URL (e.g., "https://depot.example/api").
	BaseURL string
	// Token is the bearer token; empty means unauthenticated.
	Token string
	// Client overrides the HTTP client. Nil uses a client with a
	// 30 second timeout.
	Client *http.Client
}

type httpService struct {
	base   string
	token  string
	client *http.Client
}

// NewHTTPService creates the HTTP implementation of Service.
func NewHTTPService(opts HTTPOptions) (Service, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("depot base URL is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid depot base URL %q: %w", opts.BaseURL, err)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &httpService{base: base, token: opts.Token, client: client}, nil
}

// FetchCatalog implements Service.
func (s *httpService) FetchCatalog(ctx context.Context, versionTag string) (CatalogIndex, error) {
	q := url.Values{}
	q.Set("vrc", versionTag)

	var index CatalogIndex
	if err := s.getJSON(ctx, "/catalog?"+q.Encode(), &index); err != nil {
		return nil, err
	}
	return index, nil
}

// FetchComponents implements Service.
func (s *httpService) FetchComponents(ctx context.Context, ref ModuleRef, versionTag string) (ComponentPage, error) {
	q := url.Values{}
	q.Set("vrc", versionTag)

	path := fmt.Sprintf("/catalog/%s/%s/%s?%s",
		url.PathEscape(ref.Type), url.PathEscape(ref.Package), url.PathEscape(ref.Module), q.Encode())

	var page ComponentPage
	if err := s.getJSON(ctx, path, &page); err != nil {
		return ComponentPage{}, err
	}
	return page, nil
}

// archiveEnvelope is the JSON form of an archive response. Depots that
// cannot stream binary bodies wrap the zip in base64.
type archiveEnvelope struct {
	Archive string `json:"archive"`
}

// FetchArchive implements Service. The depot may answer with raw zip
// bytes (application/zip) or a base64 JSON envelope.
func (s *httpService) FetchArchive(ctx context.Context, req ArchiveRequest) ([]byte, error) {
	body := struct {
		Components []componentRef `json:"components"`
		VersionTag string         `json:"vrc"`
		Ticket     string         `json:"pmc,omitempty"`
	}{
		Components: toComponentRefs(req.Components),
		VersionTag: req.VersionTag,
		Ticket:     req.Ticket,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/archive", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build archive request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	s.authorize(httpReq)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive request failed with status: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive response: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var env archiveEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode archive envelope: %w", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(env.Archive)
		if err != nil {
			return nil, fmt.Errorf("failed to decode archive payload: %w", err)
		}
		return decoded, nil
	}

	return raw, nil
}

type componentRef struct {
	Type    string `json:"type"`
	Package string `json:"package"`
	Module  string `json:"module"`
	Code    string `json:"code"`
}

func toComponentRefs(ids []catalog.ComponentID) []componentRef {
	refs := make([]componentRef, len(ids))
	for i, id := range ids {
		refs[i] = componentRef{Type: id.Type, Package: id.Package, Module: id.Module, Code: id.Code}
	}
	return refs
}

func (s *httpService) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *httpService) authorize(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}
