package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containeroo/tinyflags"
	"gomodules.xyz/jsonpatch/v2"
	"gopkg.in/yaml.v3"
)

// Config is the mock tracker configuration root.
type Config struct {
	Port        int       `yaml:"port"`
	PAT         string    `yaml:"pat,omitempty"` // required basic-auth password; empty = accept any
	RandomDelay bool      `yaml:"randomDelay"`
	StartID     int       `yaml:"startID,omitempty"`
	Projects    []Project `yaml:"projects"`
}

// Project is one organization/project pair that accepts work items.
type Project struct {
	Organization string   `yaml:"organization"`
	Name         string   `yaml:"name"`
	Types        []string `yaml:"types,omitempty"`  // accepted work item types; empty = any
	Status       int      `yaml:"status,omitempty"` // forced response status; 0 = 200 with the created item
	Body         string   `yaml:"body,omitempty"`   // response body used with a forced status
}

// workItem is what the mock stores and returns.
type workItem struct {
	ID     int               `json:"id"`
	Rev    int               `json:"rev"`
	Fields map[string]string `json:"fields"`
	URL    string            `json:"url"`
}

// store holds created work items in memory.
type store struct {
	mu     sync.Mutex
	nextID int
	items  map[int]workItem
}

// main starts the mock tracker with a required YAML config.
func main() {
	var (
		flagConfigPath string
		flagLogBody    bool
	)

	tf := tinyflags.NewFlagSet("mock-tracker", tinyflags.ExitOnError)
	tf.StringVar(&flagConfigPath, "config", "", "Path to mock-tracker config.yaml (required)").Value()
	tf.BoolVar(&flagLogBody, "log-body", false, "Log request bodies").Value()

	if err := tf.Parse(os.Args[1:]); err != nil {
		log.Fatal("flag parse error:", err)
	}

	if strings.TrimSpace(flagConfigPath) == "" {
		log.Fatal("missing required --config=<path to yaml>")
	}

	cfg, err := loadConfig(flagConfigPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	st := &store{nextID: cfg.StartID, items: map[int]workItem{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /{org}/{project}/_apis/wit/workitems/{type}", func(w http.ResponseWriter, r *http.Request) {
		if cfg.RandomDelay {
			applyRandomDelay(200, 1000)
		}
		logRequest(r, flagLogBody)
		handleCreate(w, r, cfg, st)
	})
	mux.HandleFunc("GET /{org}/{project}/_apis/wit/workitems/{id}", func(w http.ResponseWriter, r *http.Request) {
		logRequest(r, false)
		handleGet(w, r, st)
	})
	for _, p := range cfg.Projects {
		log.Printf("project mounted: %s/%s", p.Organization, p.Name)
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	log.Printf("Mock tracker listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// loadConfig reads and validates the YAML configuration file.
func loadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}

	// Basic defaults.
	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	if cfg.StartID <= 0 {
		cfg.StartID = 1
	}
	if len(cfg.Projects) == 0 {
		return Config{}, fmt.Errorf("at least one project is required")
	}
	for i, p := range cfg.Projects {
		if strings.TrimSpace(p.Organization) == "" || strings.TrimSpace(p.Name) == "" {
			return Config{}, fmt.Errorf("project %d: organization and name are required", i)
		}
	}

	return cfg, nil
}

// handleCreate validates a work item creation request and stores the item.
func handleCreate(w http.ResponseWriter, r *http.Request, cfg Config, st *store) {
	p, ok := findProject(cfg, r.PathValue("org"), r.PathValue("project"))
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	if cfg.PAT != "" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "" || pass != cfg.PAT {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	if ct := r.Header.Get("Content-Type"); ct != "application/json-patch+json" {
		http.Error(w, "unsupported content type: "+ct, http.StatusUnsupportedMediaType)
		return
	}
	if r.URL.Query().Get("api-version") == "" {
		http.Error(w, "api-version is required", http.StatusBadRequest)
		return
	}

	typ, found := strings.CutPrefix(r.PathValue("type"), "$")
	if !found || typ == "" {
		http.Error(w, "work item type must start with $", http.StatusBadRequest)
		return
	}
	if len(p.Types) > 0 && !contains(p.Types, typ) {
		http.Error(w, "unknown work item type: "+typ, http.StatusBadRequest)
		return
	}

	var ops []jsonpatch.Operation
	if err := json.NewDecoder(r.Body).Decode(&ops); err != nil {
		http.Error(w, "invalid patch document: "+err.Error(), http.StatusBadRequest)
		return
	}

	fields := map[string]string{"System.WorkItemType": typ}
	for _, op := range ops {
		name, ok := strings.CutPrefix(op.Path, "/fields/")
		if op.Operation != "add" || !ok {
			http.Error(w, "unsupported operation: "+op.Operation+" "+op.Path, http.StatusBadRequest)
			return
		}
		fields[name] = fmt.Sprint(op.Value)
	}
	if fields["System.Title"] == "" {
		http.Error(w, "System.Title is required", http.StatusBadRequest)
		return
	}

	// Forced responses let the bridge's failure paths be exercised.
	if p.Status != 0 {
		writeJSON(w, p.Status, []byte(p.Body))
		return
	}

	item := st.create(fields, func(id int) string {
		return fmt.Sprintf("http://%s/%s/%s/_apis/wit/workItems/%d", r.Host, p.Organization, p.Name, id)
	})
	b, _ := json.Marshal(item)
	writeJSON(w, http.StatusOK, b)
}

// handleGet returns a previously created work item.
func handleGet(w http.ResponseWriter, r *http.Request, st *store) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	item, ok := st.get(id)
	if !ok {
		http.Error(w, "work item not found", http.StatusNotFound)
		return
	}
	b, _ := json.Marshal(item)
	writeJSON(w, http.StatusOK, b)
}

// create stores fields under the next id.
func (s *store) create(fields map[string]string, url func(int) string) workItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	item := workItem{ID: id, Rev: 1, Fields: fields, URL: url(id)}
	s.items[id] = item
	return item
}

// get returns the item stored under id.
func (s *store) get(id int) (workItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	return item, ok
}

// findProject returns the configured project matching org and name.
func findProject(cfg Config, org, name string) (Project, bool) {
	for _, p := range cfg.Projects {
		if strings.EqualFold(p.Organization, org) && strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Project{}, false
}

// contains reports whether list holds s, ignoring case.
func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// writeJSON writes a JSON response with status and bytes.
func writeJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// applyRandomDelay sleeps for a random duration between minMs and maxMs.
func applyRandomDelay(minMs, maxMs int) {
	if maxMs <= minMs {
		maxMs = minMs + 1
	}
	delta := rand.Intn(maxMs-minMs) + minMs
	time.Sleep(time.Duration(delta) * time.Millisecond)
}

// logRequest logs method, path, query, headers and optionally the body.
func logRequest(r *http.Request, logBody bool) {
	redacted := http.Header{}
	for k, vv := range r.Header {
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
			redacted[k] = []string{"<redacted>"}
		} else {
			redacted[k] = vv
		}
	}

	var bodyPreview string
	if logBody && r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		bodyPreview = string(b)
		r.Body = io.NopCloser(strings.NewReader(bodyPreview))
	}

	log.Printf("REQ %s %s?%s headers=%v body=%s",
		r.Method, r.URL.Path, r.URL.RawQuery, redacted, truncate(bodyPreview, 2048))
}

// truncate returns at most n bytes of s.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
