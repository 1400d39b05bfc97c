// Mock screening source API. Serves sanctions, PEP, entity-registry and
// adverse-media lookups from one process so local and e2e environments do
// not need real providers. Magic names in the request control the response.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8091"
	defaultAPIKey    = "screening-sources-secret-key"
	defaultLatencyMs = "50"
)

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/v1/screen", handleScreen)
	http.HandleFunc("/v1/lookup", handleLookup)
	http.HandleFunc("/v1/search", handleSearch)

	log.Printf("🔎 Mock Screening Sources API starting on port %s", port)
	log.Printf("📝 API Key: %s", apiKey)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "screening-sources",
		"version": "1.0.0",
	})
}

type screenRequest struct {
	FullName string `json:"full_name"`
	Country  string `json:"country,omitempty"`
}

type sanctionsResponse struct {
	Listed      bool   `json:"listed"`
	List        string `json:"list"`
	MatchedName string `json:"matched_name,omitempty"`
}

type pepResponse struct {
	Matched      bool   `json:"matched"`
	Position     string `json:"position,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

type lookupRequest struct {
	RegistrationNumber string `json:"registration_number"`
	Country            string `json:"country"`
}

type registryResponse struct {
	Found     bool   `json:"found"`
	Status    string `json:"status,omitempty"`
	LegalName string `json:"legal_name,omitempty"`
}

type searchRequest struct {
	FullName string `json:"full_name"`
}

type mediaResponse struct {
	Articles    int    `json:"articles"`
	TopHeadline string `json:"top_headline,omitempty"`
}

// handleScreen serves both the sanctions and PEP shapes. Sanctions clients
// ignore the PEP fields and vice versa, so one endpoint can answer both.
//
// Magic names:
//
//	contains "sanctioned"  -> sanctions hit
//	contains "politician"  -> PEP hit
//	contains "outage"      -> 503
//	contains "slow"        -> times out most client deadlines
func handleScreen(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePost[screenRequest](w, r)
	if !ok {
		return
	}
	if req.FullName == "" {
		sendError(w, "full_name is required", http.StatusBadRequest)
		return
	}

	name := strings.ToLower(req.FullName)
	if fail := simulateFailure(w, name); fail {
		return
	}

	switch {
	case strings.Contains(name, "sanctioned"):
		log.Printf("🚫 Sanctions hit: %s", req.FullName)
		writeJSON(w, http.StatusOK, sanctionsResponse{
			Listed:      true,
			List:        "mock-consolidated",
			MatchedName: req.FullName,
		})
	case strings.Contains(name, "politician"):
		log.Printf("🏛️  PEP hit: %s", req.FullName)
		writeJSON(w, http.StatusOK, pepResponse{
			Matched:      true,
			Position:     "Member of Parliament",
			Jurisdiction: orDefault(req.Country, "XX"),
		})
	default:
		writeJSON(w, http.StatusOK, struct {
			sanctionsResponse
			pepResponse
		}{
			sanctionsResponse: sanctionsResponse{Listed: false, List: "mock-consolidated"},
			pepResponse:       pepResponse{Matched: false},
		})
	}
}

// handleLookup serves the entity registry.
//
// Magic registration numbers:
//
//	"DISSOLVED*" -> found but dissolved
//	"UNKNOWN*"   -> 404
//	"OUTAGE*"    -> 503
//	anything else -> active
func handleLookup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePost[lookupRequest](w, r)
	if !ok {
		return
	}
	if req.RegistrationNumber == "" {
		sendError(w, "registration_number is required", http.StatusBadRequest)
		return
	}

	reg := strings.ToUpper(req.RegistrationNumber)
	switch {
	case strings.HasPrefix(reg, "OUTAGE"):
		sendError(w, "registry unavailable", http.StatusServiceUnavailable)
	case strings.HasPrefix(reg, "UNKNOWN"):
		sendError(w, "registration not found", http.StatusNotFound)
	case strings.HasPrefix(reg, "DISSOLVED"):
		writeJSON(w, http.StatusOK, registryResponse{
			Found:     true,
			Status:    "dissolved",
			LegalName: "Dissolved Holdings Ltd",
		})
	default:
		writeJSON(w, http.StatusOK, registryResponse{
			Found:     true,
			Status:    "active",
			LegalName: "Mock Registered Entity " + reg,
		})
	}
}

// handleSearch serves the adverse media index. Names containing "scandal"
// return coverage; everything else is a clean search.
func handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePost[searchRequest](w, r)
	if !ok {
		return
	}
	if req.FullName == "" {
		sendError(w, "full_name is required", http.StatusBadRequest)
		return
	}

	if strings.Contains(strings.ToLower(req.FullName), "scandal") {
		writeJSON(w, http.StatusOK, mediaResponse{
			Articles:    7,
			TopHeadline: "Regulator opens probe into " + req.FullName,
		})
		return
	}
	writeJSON(w, http.StatusOK, mediaResponse{Articles: 0})
}

func simulateFailure(w http.ResponseWriter, name string) bool {
	if strings.Contains(name, "outage") {
		sendError(w, "upstream unavailable", http.StatusServiceUnavailable)
		return true
	}
	if strings.Contains(name, "slow") {
		time.Sleep(30 * time.Second)
		sendError(w, "finally responding", http.StatusServiceUnavailable)
		return true
	}
	return false
}

func decodePost[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T

	time.Sleep(time.Duration(latencyMs) * time.Millisecond)
	log.Printf("📥 Incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	if key := r.Header.Get("X-API-Key"); key == "" {
		sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
		return req, false
	} else if key != apiKey {
		sendError(w, "Invalid API key", http.StatusUnauthorized)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func sendError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, errorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		n, _ = strconv.Atoi(fallback)
	}
	return n
}
