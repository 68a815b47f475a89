package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8765", "control surface base URL")
	numWorkers   = flag.Int("workers", 20, "concurrent workers")
	testDuration = flag.Duration("duration", 10*time.Second, "duration of each phase")
)

var httpClient = &http.Client{
	Timeout:   5 * time.Second,
	Transport: &http.Transport{MaxIdleConnsPerHost: 200},
}

// call is one request of a phase. A zero want accepts any 2xx status.
type call struct {
	method string
	path   string
	body   any
	want   int
}

func get(path string) call { return call{method: http.MethodGet, path: path, want: http.StatusOK} }

func post(path string, body any, want int) call {
	return call{method: http.MethodPost, path: path, body: body, want: want}
}

type phase struct {
	name string
	pick func(rng *rand.Rand) call
}

var phases = []phase{
	{"History reads", func(rng *rand.Rand) call {
		if rng.Float64() < 0.6 {
			return get("/history")
		}
		return get("/history/groups")
	}},
	{"Reads with foreground triggers", func(rng *rand.Rand) call {
		switch r := rng.Float64(); {
		case r < 0.05:
			return post("/foreground", nil, http.StatusAccepted)
		case r < 0.75:
			return get("/history")
		case r < 0.90:
			return get("/state")
		default:
			return get("/health")
		}
	}},
	{"Platform callbacks", func(rng *rand.Rand) call {
		switch r := rng.Float64(); {
		case r < 0.40:
			return post("/platform/status", map[string]bool{"registered": true, "permission": true}, http.StatusNoContent)
		case r < 0.80:
			return post("/notifications/open", openBody(rng), 0)
		default:
			return get("/platform/requests")
		}
	}},
}

func openBody(rng *rand.Rand) map[string]any {
	category := "URL_NOTIFICATION"
	if rng.Intn(2) == 0 {
		category = "DEFAULT"
	}
	return map[string]any{
		"user_info": map[string]any{
			"aps":        map[string]any{"category": category},
			"launch_url": fmt.Sprintf("https://example.com/items/%d", rng.Intn(1000)),
		},
	}
}

// tally aggregates outcomes per endpoint.
type tally struct {
	mu     sync.Mutex
	counts map[string]*counter
}

type counter struct {
	requests int64
	failures int64
	total    time.Duration
	slowest  time.Duration
}

func (t *tally) add(endpoint string, latency time.Duration, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.counts[endpoint]
	if !ok {
		c = &counter{}
		t.counts[endpoint] = c
	}
	c.requests++
	if failed {
		c.failures++
	}
	c.total += latency
	c.slowest = max(c.slowest, latency)
}

func main() {
	flag.Parse()

	fmt.Printf("Launchpad load test: %s, %d workers, %s per phase\n", *baseURL, *numWorkers, *testDuration)
	if err := waitForServer(6 * time.Second); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i, p := range phases {
		fmt.Printf("\nPhase %d: %s\n", i+1, p.name)
		report(run(p), *testDuration)
	}
}

func waitForServer(limit time.Duration) error {
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		if failed, _ := send(get("/health")); !failed {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("server at %s did not become healthy within %s", *baseURL, limit)
}

func run(p phase) *tally {
	ctx, cancel := context.WithTimeout(context.Background(), *testDuration)
	defer cancel()

	t := &tally{counts: make(map[string]*counter)}
	var wg sync.WaitGroup
	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()
			for ctx.Err() == nil {
				c := p.pick(rng)
				failed, latency := send(c)
				t.add(c.method+" "+c.path, latency, failed)
			}
		}(rand.New(rand.NewSource(time.Now().UnixNano() + int64(i))))
	}
	wg.Wait()
	return t
}

func send(c call) (bool, time.Duration) {
	var body io.Reader = http.NoBody
	if c.body != nil {
		data, _ := json.Marshal(c.body)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(c.method, *baseURL+c.path, body)
	if err != nil {
		return true, 0
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return true, latency
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if c.want != 0 {
		return resp.StatusCode != c.want, latency
	}
	return resp.StatusCode < 200 || resp.StatusCode >= 300, latency
}

func report(t *tally, duration time.Duration) {
	endpoints := make([]string, 0, len(t.counts))
	for ep := range t.counts {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	var requests, failures int64
	for _, ep := range endpoints {
		c := t.counts[ep]
		requests += c.requests
		failures += c.failures
		fmt.Printf("  %-26s %10s reqs  %6s failed  avg %-10s max %s\n", ep,
			humanize.Comma(c.requests), humanize.Comma(c.failures),
			c.total/time.Duration(c.requests), c.slowest)
	}
	fmt.Printf("  total %s reqs, %s failed, %.0f req/s\n",
		humanize.Comma(requests), humanize.Comma(failures), float64(requests)/duration.Seconds())
}
