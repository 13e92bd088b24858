package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// client calls the hotel API and prints responses as indented JSON.
type client struct {
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
	httpClient     *http.Client
}

// apiError is a non-2xx response.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
}

func (c *client) do(cmd *cobra.Command, method, path string, body any) error {
	respBody, err := c.request(cmd, method, path, body)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), respBody)
}

func (c *client) request(cmd *cobra.Command, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		key := c.idempotencyKey
		if key == "" {
			key = uuid.NewString()
		}
		req.Header.Set("Idempotency-Key", key)
	}

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.timeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return respBody, nil
}

// reconcile prints the report and fails when any wallet disagrees with its transactions.
func (c *client) reconcile(cmd *cobra.Command) error {
	body, err := c.request(cmd, http.MethodGet, "/api/v1/admin/reconciliation", nil)
	if err != nil {
		return err
	}

	var report struct {
		TotalWallets      int               `json:"total_wallets"`
		ReconciledWallets int               `json:"reconciled_wallets"`
		Discrepancies     []json.RawMessage `json:"discrepancies"`
	}
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if err := printJSON(cmd.OutOrStdout(), body); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(report.Discrepancies) > 0 {
		fmt.Fprintf(out, "Reconciliation FAILED: %d of %d wallets disagree\n", len(report.Discrepancies), report.TotalWallets)
		return errors.New("wallet discrepancies found")
	}
	fmt.Fprintf(out, "Reconciliation PASSED: %d wallets\n", report.ReconciledWallets)
	return nil
}

func errorMessage(body []byte) string {
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
		return truncate(strings.TrimSpace(string(body)), 200)
	}
	if resp.Message != "" {
		return resp.Error + ": " + resp.Message
	}
	return resp.Error
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
