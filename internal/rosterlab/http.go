package rosterlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// decodeAPIError turns a non-2xx response into an error carrying the
// service's stable error code.
func decodeAPIError(statusCode int, body []byte) error {
	var apiErr apiError
	if err := unmarshalJSON(body, &apiErr); err == nil && apiErr.Code != "" {
		return fmt.Errorf("HTTP %d %s: %s", statusCode, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("HTTP %d: %s", statusCode, string(body))
}

// postJSON posts a request body and decodes a 200 response into out.
func postJSON(ctx context.Context, client *HTTPClient, url string, body, out interface{}) error {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	respBody, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if err := unmarshalJSON(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// runOptimizations runs the requested number of optimization runs
// concurrently and returns the successful responses in run order.
func runOptimizations(ctx context.Context, config *Config, roster Roster, constraints Constraints, stats *Stats) ([]OptimizeResponse, error) {
	log.Printf("🚣 Running %d optimization runs with %d workers...", config.Runs, config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/optimize"

	results := make([]OptimizeResponse, config.Runs)
	var failed int64

	// Create worker pool
	runChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	workerCount := minInt(config.Workers, config.Runs)
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range runChan {
				select {
				case <-ctx.Done():
					return
				default:
					response, err := runSingleOptimization(ctx, client, url, config, roster, constraints, index)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						log.Printf("⚠️  Run %d failed: %v", index+1, err)
						continue
					}

					results[index] = response

					best := 0.0
					if len(response.Lineups) > 0 {
						best = response.Lineups[0].Score
					}
					log.Printf("🚣 Run %d/%d finished: %d lineups, best score %.2f",
						index+1, config.Runs, len(response.Lineups), best)
				}
			}
		}(i)
	}

	// Send run indices to workers
	go func() {
		defer close(runChan)
		for i := 0; i < config.Runs; i++ {
			select {
			case <-ctx.Done():
				return
			case runChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out failed runs (empty RunID)
	valid := make([]OptimizeResponse, 0, config.Runs)
	for _, response := range results {
		if response.RunID != "" {
			valid = append(valid, response)
		}
	}

	stats.OptimizeRuns = len(valid)
	stats.OptimizeFailed = int(atomic.LoadInt64(&failed))

	if len(valid) == 0 {
		return nil, fmt.Errorf("all %d optimization runs failed", config.Runs)
	}

	log.Printf(`✅ Optimization completed:
   Successful runs: %d
   Failed runs: %d
`, stats.OptimizeRuns, stats.OptimizeFailed)

	return valid, nil
}

// runSingleOptimization posts one optimize request. Seeded labs give each
// run its own derived seed so runs differ but stay reproducible.
func runSingleOptimization(ctx context.Context, client *HTTPClient, url string, config *Config, roster Roster, constraints Constraints, index int) (OptimizeResponse, error) {
	request := OptimizeRequest{
		BoatClass:   config.BoatClass,
		Athletes:    roster.Athletes,
		Constraints: constraints,
		Options:     OptimizeOptions{TopN: config.TopN},
	}
	if config.Seed != 0 {
		seed := config.Seed + int64(index)
		request.Options.Seed = &seed
	}

	var response OptimizeResponse
	if err := postJSON(ctx, client, url, request, &response); err != nil {
		return OptimizeResponse{}, err
	}
	return response, nil
}
