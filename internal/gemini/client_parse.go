package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/rahu431/snapbill-service/internal/domain"
)

const (
	invoiceSystemPrompt = "You are a helpful billing assistant. Parse natural language into structured invoice data."
	cartSystemPrompt    = "You are a voice shopping assistant. Turn a spoken command into a list of cart actions."
)

// generateRequest mirrors the generateContent request body
type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

// ParseInvoice extracts structured invoice details from free-form text
func (c *Client) ParseInvoice(ctx context.Context, text string) (*domain.ParsedInvoice, error) {
	prompt := fmt.Sprintf(
		"Extract invoice details from this text: %q. "+
			"If a currency is mentioned, ignore it and just give numbers. If quantities are missing, assume 1. "+
			"Respond with JSON: {\"customerName\": string, \"items\": [{\"description\": string, \"quantity\": number, \"price\": number}], \"notes\": string}",
		text,
	)

	raw, err := c.generate(ctx, invoiceSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var parsed domain.ParsedInvoice
	if err := unmarshalModelJSON(raw, &parsed); err != nil {
		return nil, &GeminiError{Op: "parse_invoice_response", Err: err}
	}
	return &parsed, nil
}

// ParseCartActions turns a voice transcript into ordered add/remove cart
// actions. Known catalog product names are passed to the model so it can tag
// actions with matching descriptions.
func (c *Client) ParseCartActions(ctx context.Context, transcript string, productNames []string) ([]domain.CartAction, error) {
	prompt := fmt.Sprintf(
		"Turn this spoken command into cart actions: %q. "+
			"Known products: %s. "+
			"Respond with JSON: {\"actions\": [{\"action\": \"add\"|\"remove\", \"description\": string, \"quantity\": number, \"price\": number}]}",
		transcript, strings.Join(productNames, ", "),
	)

	raw, err := c.generate(ctx, cartSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Actions []domain.CartAction `json:"actions"`
	}
	if err := unmarshalModelJSON(raw, &parsed); err != nil {
		return nil, &GeminiError{Op: "parse_cart_response", Err: err}
	}
	return parsed.Actions, nil
}

// generate calls the generateContent endpoint and returns the first
// candidate's text
func (c *Client) generate(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &GeminiError{Op: "generate", Err: fmt.Errorf("no API key configured")}
	}

	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig:  &generationConfig{ResponseMIMEType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GeminiError{Op: "marshal_request", Err: err}
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.apiURL, c.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &GeminiError{Op: "build_request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GeminiError{Op: "send_request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GeminiError{Op: "read_response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &GeminiError{
			Op:  "send_request",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &GeminiError{Op: "parse_response_json", Err: err}
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", &GeminiError{Op: "check_response_candidates", Err: fmt.Errorf("no candidates in response")}
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

var jsonObjectRegex = regexp.MustCompile(`\{[\s\S]*\}`)

// unmarshalModelJSON decodes model output into v. Models occasionally wrap
// JSON in fenced code blocks or surrounding prose, so a direct parse falls
// back to extracting the first JSON object from the text.
func unmarshalModelJSON(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	if match := jsonObjectRegex.FindString(cleaned); match != "" {
		if err := json.Unmarshal([]byte(match), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("model response is not valid JSON")
}
