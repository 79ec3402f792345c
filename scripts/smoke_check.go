package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
)

type httpError struct {
	StatusCode int
	body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.body)
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8787", "API base URL")
	sessionCookie := flag.String("session", "", "session cookie value for authenticated checks")
	flag.Parse()

	if err := checkLiveness(*baseURL); err != nil {
		log.Fatalf("liveness check failed: %v", err)
	}
	log.Printf("liveness ok")

	providers, err := listProviders(*baseURL)
	if err != nil {
		log.Fatalf("providers check failed: %v", err)
	}
	log.Printf("enabled providers: %v", providers)

	if *sessionCookie == "" {
		log.Printf("no session cookie supplied, skipping authenticated checks")
		return
	}

	if err := checkSession(*baseURL, *sessionCookie); err != nil {
		log.Fatalf("session check failed: %v", err)
	}
	log.Printf("session ok")

	count, err := countUsers(*baseURL, *sessionCookie)
	if err != nil {
		log.Fatalf("users check failed: %v", err)
	}
	log.Printf("users listed: %d", count)
}

func checkLiveness(baseURL string) error {
	resp := map[string]bool{}
	if err := getJSON(baseURL+"/", "", &resp); err != nil {
		return err
	}
	if !resp["ok"] {
		return fmt.Errorf("unexpected liveness body: %v", resp)
	}
	return nil
}

func listProviders(baseURL string) ([]string, error) {
	var descriptors []struct {
		Provider string `json:"provider"`
		Enabled  bool   `json:"enabled"`
	}
	if err := getJSON(baseURL+"/auth/providers", "", &descriptors); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Enabled {
			names = append(names, d.Provider)
		}
	}
	return names, nil
}

func checkSession(baseURL, session string) error {
	resp := map[string]json.RawMessage{}
	if err := getJSON(baseURL+"/session", session, &resp); err != nil {
		return err
	}
	if _, ok := resp["user"]; !ok {
		return fmt.Errorf("session response missing user")
	}
	return nil
}

func countUsers(baseURL, session string) (int, error) {
	var users []json.RawMessage
	if err := getJSON(baseURL+"/users", session, &users); err != nil {
		return 0, err
	}
	return len(users), nil
}

func getJSON(url, session string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "__Host-tt_session", Value: session})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &httpError{StatusCode: resp.StatusCode, body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
