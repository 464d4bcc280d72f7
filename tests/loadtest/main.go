package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 50
	testDuration = 10 * time.Second
	maxStage     = 8
)

var (
	difficulties = []string{"easy", "normal", "hard", "nightmare", "final"}
	parties      = []string{"solo", "duo", "trio"}
	items        = []string{"whetstone", "war_drum", "feather_boots", "giant_belt", "glass_blade", "hourglass"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== RunBoard Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Run traffic (start, events, ticks, stage clears, finish) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doStart(rng)
		case r < 0.55:
			return doEvent(rng)
		case r < 0.80:
			return doTick(rng)
		case r < 0.90:
			return doCompleteStage()
		default:
			return doFinish(rng)
		}
	})

	fmt.Println("\n--- Phase 2: Mixed load (60% run traffic, 40% board reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doEvent(rng)
		case r < 0.55:
			return doTick(rng)
		case r < 0.60:
			return doFinish(rng)
		case r < 0.80:
			return doGetBounty(rng)
		case r < 0.95:
			return doGetSpeedRun(rng)
		default:
			return doGetState()
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (10% run traffic, 90% board reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doEvent(rng)
		case r < 0.50:
			return doGetBounty(rng)
		case r < 0.85:
			return doGetSpeedRun(rng)
		default:
			return doGetAccount()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// Run endpoints answer 409 while no run is active. Workers share one session,
// so only 5xx and transport failures count as errors.
func post(endpoint, path string, body interface{}) result {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", reader)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode >= 500}
}

func get(endpoint, url string) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != 200}
}

func doStart(rng *rand.Rand) result {
	return post("POST /run/start", "/run/start", map[string]interface{}{
		"difficulty": difficulties[rng.Intn(len(difficulties))],
		"party":      parties[rng.Intn(len(parties))],
	})
}

func doEvent(rng *rand.Rand) result {
	var ev map[string]interface{}
	switch rng.Intn(6) {
	case 0:
		ev = map[string]interface{}{"type": "gold", "amount": rng.Intn(50) + 1}
	case 1:
		ev = map[string]interface{}{"type": "bounty", "amount": rng.Intn(200) + 1}
	case 2:
		ev = map[string]interface{}{"type": "damage", "amount": 1}
	case 3:
		ev = map[string]interface{}{"type": "item_add", "id": items[rng.Intn(len(items))]}
	case 4:
		ev = map[string]interface{}{"type": "timer_active", "active": true}
	default:
		ev = map[string]interface{}{"type": "luck_roll", "roll": map[string]interface{}{
			"kind": "chance", "probability": 0.5, "success": rng.Intn(2) == 0,
		}}
	}
	return post("POST /run/event", "/run/event", ev)
}

func doTick(rng *rand.Rand) result {
	return post("POST /run/tick", "/run/tick", map[string]float64{"dt": rng.Float64()})
}

func doCompleteStage() result {
	return post("POST /run/stage/complete", "/run/stage/complete", nil)
}

func doFinish(rng *rand.Rand) result {
	reasons := []string{"death", "victory", "abandon"}
	return post("POST /run/finish", "/run/finish", map[string]string{"reason": reasons[rng.Intn(len(reasons))]})
}

func doGetBounty(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/leaderboard/bounty?difficulty=%s&party=%s", baseURL,
		difficulties[rng.Intn(len(difficulties))], parties[rng.Intn(len(parties))])
	return get("GET /leaderboard/bounty", url)
}

func doGetSpeedRun(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/leaderboard/speedrun?difficulty=%s&party=%s&stage=%d", baseURL,
		difficulties[rng.Intn(len(difficulties))], parties[rng.Intn(len(parties))], rng.Intn(maxStage)+1)
	return get("GET /leaderboard/speedrun", url)
}

func doGetState() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/run/state")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /run/state", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /run/state", resp.StatusCode, lat, resp.StatusCode >= 500}
}

func doGetAccount() result {
	return get("GET /account", baseURL+"/account")
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
