package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vigilo/internal/config"
	"vigilo/internal/models"
)

// ErrNoCompany is returned when the backend knows no company at all.
var ErrNoCompany = errors.New("no company registered with the backend")

// RemoteError is a non-success HTTP response from the compliance service,
// keeping the status and any structured detail message the backend sent.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// BackendRepository handles compliance service API interactions
type BackendRepository struct {
	config *config.BackendConfig
	client *http.Client
}

// NewBackendRepository creates a new backend repository
func NewBackendRepository(backendConfig *config.BackendConfig) *BackendRepository {
	return &BackendRepository{
		config: backendConfig,
		client: &http.Client{
			Timeout: time.Duration(backendConfig.TimeoutSeconds) * time.Second,
		},
	}
}

// listPaths maps an amendment source selector onto its endpoint.
var listPaths = map[string]string{
	"all":  "/list",
	"dgft": "/list-dgft",
	"gst":  "/list-gst",
	"rbi":  "/list-rbi",
}

// ListAmendments fetches amendment metadata for the given source selector
// (all, dgft, gst or rbi)
func (r *BackendRepository) ListAmendments(ctx context.Context, source string) ([]models.AmendmentMeta, error) {
	path, ok := listPaths[strings.ToLower(source)]
	if !ok {
		return nil, fmt.Errorf("unknown amendment source %q", source)
	}

	var amendments []models.AmendmentMeta
	if err := r.getJSON(ctx, path, &amendments); err != nil {
		return nil, fmt.Errorf("failed to list amendments: %w", err)
	}

	return amendments, nil
}

// LatestCompanyID asks the backend for the most recently registered company.
// A 404 maps to ErrNoCompany.
func (r *BackendRepository) LatestCompanyID(ctx context.Context) (string, error) {
	req, err := r.newRequest(ctx, "/company/latest", nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoCompany
	}
	if resp.StatusCode != http.StatusOK {
		return "", r.remoteError(resp)
	}

	var payload models.LatestCompanyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.CompanyID == "" {
		return "", ErrNoCompany
	}

	return payload.CompanyID, nil
}

// CheckCompliance runs the backend's compliance analysis for a company and
// returns the raw result. This is the single blocking call of a run.
func (r *BackendRepository) CheckCompliance(ctx context.Context, companyID string) (*models.ComplianceCheckResult, error) {
	query := url.Values{"company_id": []string{companyID}}

	var payload models.ComplianceCheckResponse
	if err := r.getJSON(ctx, "/compliance/check", &payload, query); err != nil {
		return nil, fmt.Errorf("compliance check failed: %w", err)
	}

	return &payload.Result, nil
}

// SeedSynthetic triggers the backend's synthetic PDF ingestion. Callers
// treat failures as non-critical.
func (r *BackendRepository) SeedSynthetic(ctx context.Context) error {
	var out map[string]interface{}
	return r.getJSON(ctx, "/seed/synthetic", &out)
}

// UpdateAmendments triggers the backend's amendment refresh. Callers treat
// failures as non-critical.
func (r *BackendRepository) UpdateAmendments(ctx context.Context) error {
	var out map[string]interface{}
	return r.getJSON(ctx, "/update", &out)
}

// PDFURL formats the hyperlink target for a regulation document. The PDF
// itself is never fetched by this client.
func (r *BackendRepository) PDFURL(documentID string) string {
	return fmt.Sprintf("%s/pdf?document_id=%s", strings.TrimRight(r.config.BaseURL, "/"), url.QueryEscape(documentID))
}

func (r *BackendRepository) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	endpoint := strings.TrimRight(r.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return req, nil
}

func (r *BackendRepository) getJSON(ctx context.Context, path string, target interface{}, query ...url.Values) error {
	var values url.Values
	if len(query) > 0 {
		values = query[0]
	}

	req, err := r.newRequest(ctx, path, values)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return r.remoteError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// remoteError builds a RemoteError, pulling the detail message out of a
// structured error body when the backend sent one.
func (r *BackendRepository) remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var structured struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Detail != "" {
			detail = structured.Detail
		} else if structured.Error != "" {
			detail = structured.Error
		}
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	return &RemoteError{StatusCode: resp.StatusCode, Detail: detail}
}
