package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type SharePointConfig struct {
	SiteURL      string
	DocLib       string
	ClientID     string
	ClientSecret string
	TokenURL     string // defaults to {SiteURL}/_api/token
	HTTPClient   httpDoer
}

// SharePoint uploads the store file into a document library using the
// client-credentials flow.
type SharePoint struct {
	siteURL      string
	docLib       string
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   httpDoer
}

func NewSharePoint(cfg SharePointConfig) (*SharePoint, error) {
	siteURL := strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if siteURL == "" {
		return nil, errors.New("site URL is required")
	}
	parsed, err := url.Parse(siteURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid site URL %q", cfg.SiteURL)
	}
	if strings.TrimSpace(cfg.DocLib) == "" {
		return nil, errors.New("document library is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("client credentials are required")
	}

	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = siteURL + "/_api/token"
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &SharePoint{
		siteURL:      siteURL,
		docLib:       strings.Trim(strings.TrimSpace(cfg.DocLib), "/"),
		clientID:     strings.TrimSpace(cfg.ClientID),
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		httpClient:   doer,
	}, nil
}

func (s *SharePoint) Upload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}

	token, err := s.fetchToken(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf(
		"%s/_api/web/GetFolderByServerRelativeUrl('%s')/Files/add(url='%s',overwrite=true)",
		s.siteURL,
		url.PathEscape(s.docLib),
		url.PathEscape(filepath.Base(path)),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload %s: unexpected status %s", filepath.Base(path), resp.Status)
	}
	return nil
}

func (s *SharePoint) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch token: unexpected status %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	return payload.AccessToken, nil
}
