package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kvitto/internal/config"
	"kvitto/internal/domain"
)

const (
	apiVersion   = "2024-11-30"
	modelID      = "prebuilt-receipt"
	pollInterval = 2 * time.Second
)

// Analyzer implements port.ReceiptAnalyzer against the Azure Document
// Intelligence REST API (prebuilt-receipt model). Analysis is asynchronous on
// the Azure side: the initial POST returns an Operation-Location which is
// polled until the operation settles.
type Analyzer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewAnalyzer creates an Azure-backed receipt analyzer from the OCR config.
func NewAnalyzer(cfg *config.OCRConfig) (*Analyzer, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("azure OCR requires endpoint and api_key")
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Analyzer{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (a *Analyzer) Analyze(ctx context.Context, fileBytes []byte, contentType string) (*domain.OCRResult, error) {
	opURL, err := a.beginAnalyze(ctx, fileBytes, contentType)
	if err != nil {
		return nil, err
	}
	body, err := a.pollResult(ctx, opURL)
	if err != nil {
		return nil, err
	}
	return parseAnalyzeResult(body)
}

func (a *Analyzer) beginAnalyze(ctx context.Context, fileBytes []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		a.endpoint, modelID, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(fileBytes))
	if err != nil {
		return "", fmt.Errorf("creating analyze request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling document intelligence API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document intelligence analyze error (status %d): %s",
			resp.StatusCode, string(respBody))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("document intelligence response missing Operation-Location")
	}
	return opURL, nil
}

func (a *Analyzer) pollResult(ctx context.Context, opURL string) ([]byte, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("polling document intelligence: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading poll response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("document intelligence poll error (status %d): %s",
				resp.StatusCode, string(body))
		}

		var status struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, fmt.Errorf("decoding poll status: %w", err)
		}

		switch status.Status {
		case "succeeded":
			return body, nil
		case "failed":
			return nil, fmt.Errorf("document intelligence analysis failed: %s", string(body))
		}
		// "running" or "notStarted": keep polling
	}
}

// analyzeResponse mirrors the subset of the analyze result we consume.
type analyzeResponse struct {
	AnalyzeResult struct {
		Documents []struct {
			Fields map[string]fieldValue `json:"fields"`
		} `json:"documents"`
	} `json:"analyzeResult"`
}

type fieldValue struct {
	ValueCurrency *struct {
		Amount float64 `json:"amount"`
	} `json:"valueCurrency"`
	ValueDate    string  `json:"valueDate"`
	ValueString  string  `json:"valueString"`
	ValueAddress *struct {
		StreetAddress string `json:"streetAddress"`
		City          string `json:"city"`
		PostalCode    string `json:"postalCode"`
	} `json:"valueAddress"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// parseAnalyzeResult maps the prebuilt-receipt fields onto an OCRResult.
// A response without documents yields an empty result, not an error.
func parseAnalyzeResult(body []byte) (*domain.OCRResult, error) {
	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding analyze result: %w", err)
	}

	result := &domain.OCRResult{}
	if len(resp.AnalyzeResult.Documents) == 0 {
		return result, nil
	}
	fields := resp.AnalyzeResult.Documents[0].Fields

	if f, ok := fields["Total"]; ok && f.ValueCurrency != nil {
		amount := f.ValueCurrency.Amount
		confidence := f.Confidence
		result.GrossAmount = &amount
		result.Confidence = &confidence
	}
	if f, ok := fields["Subtotal"]; ok && f.ValueCurrency != nil {
		amount := f.ValueCurrency.Amount
		result.NetAmount = &amount
	}
	if f, ok := fields["TotalTax"]; ok && f.ValueCurrency != nil {
		amount := f.ValueCurrency.Amount
		result.VatAmount = &amount
	}
	if f, ok := fields["TransactionDate"]; ok && f.ValueDate != "" {
		if d, err := time.Parse("2006-01-02", f.ValueDate); err == nil {
			result.ReceiptDate = &d
		}
	}
	if f, ok := fields["MerchantName"]; ok && f.ValueString != "" {
		name := f.ValueString
		result.MerchantName = &name
	}
	if f, ok := fields["MerchantAddress"]; ok && f.Content != "" {
		addr := f.Content
		result.MerchantAddress = &addr
	}

	return result, nil
}
