package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const googleBaseURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleClient calls the Cloud Translation v2 REST API.
type GoogleClient struct {
	ApiKey  string
	BaseURL string
	Client  *http.Client
}

var _ Client = &GoogleClient{}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		ApiKey:  apiKey,
		BaseURL: googleBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GoogleClient) Detect(ctx context.Context, text string) (string, error) {
	body, err := g.post(ctx, g.BaseURL+"/detect", url.Values{"q": {text}})
	if err != nil {
		return "", err
	}

	lang := gjson.GetBytes(body, "data.detections.0.0.language").String()
	if lang == "" || lang == "und" {
		return "", fmt.Errorf("google detect: no language in response")
	}
	return lang, nil
}

func (g *GoogleClient) Translate(ctx context.Context, text, target string) (string, error) {
	body, err := g.post(ctx, g.BaseURL, url.Values{
		"q":      {text},
		"target": {target},
		"format": {"text"},
	})
	if err != nil {
		return "", err
	}

	translated := gjson.GetBytes(body, "data.translations.0.translatedText")
	if !translated.Exists() {
		return "", fmt.Errorf("google translate: no translation in response")
	}
	return translated.String(), nil
}

func (g *GoogleClient) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	u := endpoint + "?key=" + url.QueryEscape(g.ApiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google translate request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google translate error: status %d, body: %s", res.StatusCode, string(body))
	}
	return body, nil
}
