package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the log viewer")
	folder := flag.String("folder", "", "Folder name to filter")
	file := flag.String("file", "", "Log file to filter")
	searches := flag.String("search", ",error,\"connection refused\",timeout -debug", "Comma-separated search texts cycled through by workers")
	username := flag.String("user", "admin", "Login user (empty skips login)")
	password := flag.String("password", "admin", "Login password")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 50, "Requests per second limit")
	flag.Parse()

	if *folder == "" || *file == "" {
		log.Fatal("-folder and -file are required")
	}

	token := ""
	if *username != "" {
		var err error
		if token, err = login(*baseURL, *username, *password); err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	targetURL := strings.TrimRight(*baseURL, "/") + "/api/logs/filter"
	queries := strings.Split(*searches, ",")

	log.Printf("Starting load test on %s", targetURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var successCount, failureCount, errorCount, matched atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), 10)

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{
				Timeout: 30 * time.Second,
			}

			for n := workerID; ; n++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				payload, _ := json.Marshal(map[string]any{
					"folder": *folder,
					"file":   *file,
					"filterOptions": map[string]any{
						"searchText":    queries[n%len(queries)],
						"sortDirection": "Descending",
					},
				})

				req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(payload))
				if err != nil {
					continue
				}
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("X-Request-ID", uuid.NewString())
				if token != "" {
					req.Header.Set("Authorization", "Bearer "+token)
				}

				resp, err := client.Do(req)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					errorCount.Add(1)
					continue
				}

				var body struct {
					Success    bool `json:"success"`
					TotalCount int  `json:"totalCount"`
				}
				decodeErr := json.NewDecoder(resp.Body).Decode(&body)
				resp.Body.Close()

				switch {
				case resp.StatusCode != http.StatusOK || decodeErr != nil:
					errorCount.Add(1)
				case body.Success:
					successCount.Add(1)
					matched.Add(int64(body.TotalCount))
				default:
					failureCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	totalRequests := successCount.Load() + failureCount.Load() + errorCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Successful: %d", successCount.Load())
	log.Printf("Filter failures (success=false): %d", failureCount.Load())
	log.Printf("Errors: %d", errorCount.Load())
	log.Printf("Actual RPS: %.2f", actualRPS)
	if s := successCount.Load(); s > 0 {
		log.Printf("Average matched entries: %.1f", float64(matched.Load())/float64(s))
	}
}

func login(baseURL, username, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(strings.TrimRight(baseURL, "/")+"/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Token, nil
}
