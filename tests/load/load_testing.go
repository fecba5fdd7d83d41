package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	targetHost = "http://localhost:8081" // e2e окружение
	rps        = 10
	duration   = 3 * time.Minute
)

var (
	repos = []string{"alpha", "beta", "gamma"}
	httpc = &http.Client{Timeout: 10 * time.Second}
)

func getURL(url string) (int, error) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Warmup: первый запрос каждой витрины наполняет кэш, дальше нагрузка
// меряет в основном cache-hit путь.
func warmup() error {
	log.Println("Warmup: priming query cache...")

	paths := []string{
		"/dashboard/overview",
		"/dashboard/repoVelocity",
		"/dashboard/reviewerLoad",
		"/dashboard/reviewSummary",
		"/dashboard/doraMetrics",
		"/dashboard/leaderboard",
		"/dashboard/heatmap",
	}
	for _, path := range paths {
		status, err := getURL(targetHost + path)
		if err != nil {
			return err
		}
		if status >= 400 {
			log.Printf("WARN %s returned %d\n", path, status)
		}
		time.Sleep(50 * time.Millisecond)
	}

	log.Println("Warmup completed")
	return nil
}

func randomDateRange() string {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rand.Intn(180))
	end := start.AddDate(0, 0, 7+rand.Intn(90))
	return fmt.Sprintf("start_date=%s&end_date=%s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// Targeter
func makeTargeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		r := rand.Float64()
		t.Method = http.MethodGet
		t.Body = nil
		t.Header = map[string][]string{"Accept": {"application/json"}}

		// 30% overview
		if r < 0.30 {
			t.URL = targetHost + "/dashboard/overview"
			return nil
		}

		// 25% repoVelocity с фильтрами — каждый вариант SQL-текста кэшируется отдельно
		if r < 0.55 {
			repo := repos[rand.Intn(len(repos))]
			t.URL = fmt.Sprintf("%s/dashboard/repoVelocity?repos=%s&%s", targetHost, repo, randomDateRange())
			return nil
		}

		// 20% leaderboard
		if r < 0.75 {
			t.URL = fmt.Sprintf("%s/dashboard/leaderboard?limit=%d", targetHost, 5+rand.Intn(20))
			return nil
		}

		// 15% heatmap
		if r < 0.90 {
			t.URL = targetHost + "/dashboard/heatmap"
			return nil
		}

		// 8% settings
		if r < 0.98 {
			t.URL = targetHost + "/settings"
			return nil
		}

		// 2% сброс кэша — следующий запрос каждой витрины снова идет в хранилище
		t.Method = http.MethodPost
		t.URL = targetHost + "/settings/cacheClear"
		t.Header = map[string][]string{"Content-Type": {"application/json"}}
		return nil
	}
}

// Attack
func runAttack() {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter()

	var metrics vegeta.Metrics

	log.Printf("Starting attack: %s for %s", targetHost, duration)
	for res := range attacker.Attack(targeter, rate, duration, "dashboard-load-test") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)

	statusCodes, _ := json.Marshal(metrics.StatusCodes)
	fmt.Printf("Status codes: %s\n", statusCodes)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	if err := warmup(); err != nil {
		log.Fatalf("Warmup failed: %v", err)
	}

	runAttack()
}
