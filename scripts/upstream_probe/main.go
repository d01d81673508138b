// Command upstream_probe exercises the upstream wallet API's read endpoints
// and reports which response envelope each one actually returns. The upstream
// is inconsistent between bare arrays, data arrays, and nested object keys;
// this tool documents the live behaviour so client-side normalisation can be
// checked against reality.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type probe struct {
	Name string
	Path string
}

type result struct {
	Probe    probe
	Status   int
	Shape    string
	Message  string
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base    string
		token   string
		role    string
		actorID string
		phone   string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:3000", "upstream API base URL")
	flag.StringVar(&token, "token", "", "bearer token for authenticated probes")
	flag.StringVar(&role, "role", "md", "role prefix: md or distributor")
	flag.StringVar(&actorID, "actor", "", "actor ID for wallet and fund request probes")
	flag.StringVar(&phone, "phone", "", "party phone for revert history probe")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if role != "md" && role != "distributor" {
		log.Fatalf("role must be md or distributor, got %q", role)
	}
	if actorID == "" {
		log.Fatal("actor ID is required")
	}

	probes := []probe{
		{Name: "wallet balance", Path: fmt.Sprintf("/%s/wallet/get/balance/%s", role, actorID)},
		{Name: "transactions", Path: fmt.Sprintf("/%s/wallet/get/transactions/%s", role, actorID)},
		{Name: "fund requests", Path: fmt.Sprintf("/%s/get/fund/request/%s", role, actorID)},
	}
	if role == "md" {
		probes = append(probes, probe{Name: "distributors", Path: "/admin/get/distributors/" + actorID})
	} else {
		probes = append(probes, probe{Name: "retailers", Path: "/admin/get/users/" + actorID})
	}
	if phone != "" {
		probes = append(probes, probe{Name: "revert history", Path: fmt.Sprintf("/%s/revert/get/history/%s", role, phone)})
	}

	client := &http.Client{Timeout: timeout}
	failures := 0

	fmt.Println("Upstream Envelope Report")
	fmt.Println("========================")
	for _, p := range probes {
		res := runProbe(client, base, token, p)
		if res.Err != nil || res.Status >= 500 {
			failures++
		}
		printResult(res)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func runProbe(client *http.Client, base, token string, p probe) result {
	res := result{Probe: p}

	url := strings.TrimRight(base, "/") + p.Path
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = err
		return res
	}

	res.Shape, res.Message = classify(body)
	return res
}

// classify names the envelope shape of a response body.
func classify(body []byte) (string, string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "empty body", ""
	}
	if trimmed[0] == '[' {
		return "bare array", ""
	}

	var env struct {
		Status  string          `json:"status"`
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Msg     string          `json:"msg"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return "unparseable", ""
	}

	message := env.Message
	if message == "" {
		message = env.Msg
	}

	data := bytes.TrimSpace(env.Data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return "envelope, no data", message
	case data[0] == '[':
		return "envelope, data array", message
	case data[0] == '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(data, &object); err != nil {
			return "envelope, opaque data", message
		}
		for key, raw := range object {
			if t := bytes.TrimSpace(raw); len(t) > 0 && t[0] == '[' {
				return fmt.Sprintf("envelope, array under %q", key), message
			}
		}
		return "envelope, data object", message
	default:
		return "envelope, scalar data", message
	}
}

func printResult(res result) {
	status := "OK"
	if res.Err != nil {
		status = "ERROR"
	} else if res.Status >= 400 {
		status = "FAIL"
	}
	fmt.Printf("[%s] %s (%s)\n", status, res.Probe.Name, res.Probe.Path)
	if res.Err != nil {
		fmt.Printf("  Error: %v\n", res.Err)
		return
	}
	fmt.Printf("  Status: %d (%s)\n", res.Status, res.Duration)
	fmt.Printf("  Shape: %s\n", res.Shape)
	if res.Message != "" {
		fmt.Printf("  Message: %s\n", res.Message)
	}
}
