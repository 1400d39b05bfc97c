// Package main provides a CLI tool for minting decision tokens against a
// local clearway instance. These tokens use the dev signing key and will
// NOT verify in production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"clearway/internal/decision"
	"clearway/internal/decision/tokens"
	id "clearway/pkg/domain"
)

const (
	// Dev signing key - matches config.go when DECISION_TOKEN_KEY is not set
	devSigningKey = "dev-decision-key-change-in-production"

	defaultBaseURL  = "http://localhost:8080"
	defaultTokenTTL = 7 * 24 * time.Hour
)

type tokenOutput struct {
	CaseID    string            `json:"case_id"`
	ExpiresIn string            `json:"expires_in"`
	Tokens    map[string]string `json:"tokens"`
	Links     map[string]string `json:"links,omitempty"`
}

func main() {
	issueCmd := flag.NewFlagSet("issue", flag.ExitOnError)
	issueCase := issueCmd.String("case-id", "", "Case ID (UUID). Required.")
	issueAction := issueCmd.String("action", "approve", "Decision action: approve, request or reject")
	issueKey := issueCmd.String("key", devSigningKey, "Token signing key")
	issueTTL := issueCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	issueJSON := issueCmd.Bool("json", false, "Output as JSON")

	linksCmd := flag.NewFlagSet("links", flag.ExitOnError)
	linksCase := linksCmd.String("case-id", "", "Case ID (UUID). Required.")
	linksKey := linksCmd.String("key", devSigningKey, "Token signing key")
	linksTTL := linksCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	linksBase := linksCmd.String("base-url", defaultBaseURL, "Public base URL of the server")
	linksJSON := linksCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "issue":
		issueCmd.Parse(os.Args[2:])
		issueToken(*issueCase, *issueAction, *issueKey, *issueTTL, *issueJSON)
	case "links":
		linksCmd.Parse(os.Args[2:])
		issueLinks(*linksCase, *linksKey, *linksTTL, *linksBase, *linksJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func issueToken(caseIDStr, actionStr, key string, ttl time.Duration, asJSON bool) {
	caseID := mustCaseID(caseIDStr)
	action, err := decision.ParseAction(actionStr)
	if err != nil {
		fatal("invalid action %q: use approve, request or reject", actionStr)
	}

	svc := tokens.New(key, ttl, tokens.NewMemoryUsageStore())
	token, err := svc.Issue(caseID, string(action))
	if err != nil {
		fatal("failed to issue token: %v", err)
	}

	if asJSON {
		printJSON(tokenOutput{
			CaseID:    caseID.String(),
			ExpiresIn: ttl.String(),
			Tokens:    map[string]string{string(action): token},
		})
		return
	}
	fmt.Println(token)
}

func issueLinks(caseIDStr, key string, ttl time.Duration, baseURL string, asJSON bool) {
	caseID := mustCaseID(caseIDStr)
	svc := tokens.New(key, ttl, tokens.NewMemoryUsageStore())

	out := tokenOutput{
		CaseID:    caseID.String(),
		ExpiresIn: ttl.String(),
		Tokens:    make(map[string]string, 3),
		Links:     make(map[string]string, 3),
	}
	for _, action := range []string{"approve", "request", "reject"} {
		token, err := svc.Issue(caseID, action)
		if err != nil {
			fatal("failed to issue %s token: %v", action, err)
		}
		out.Tokens[action] = token
		out.Links[action] = fmt.Sprintf("%s/decision?caseId=%s&action=%s&token=%s",
			baseURL, caseID, action, url.QueryEscape(token))
	}

	if asJSON {
		printJSON(out)
		return
	}
	for _, action := range []string{"approve", "request", "reject"} {
		fmt.Printf("%s:\n  %s\n", action, out.Links[action])
	}
}

func mustCaseID(s string) id.CaseID {
	if s == "" {
		fatal("-case-id is required")
	}
	caseID, err := id.ParseCaseID(s)
	if err != nil {
		fatal("invalid case id %q: %v", s, err)
	}
	return caseID
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`tokengen - Mint decision tokens for local testing

WARNING: These tokens use the dev signing key and will NOT verify in
         production. Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  issue     Mint one decision token for a case and action
  links     Mint all three decision links for a case

Examples:
  # Approve token for a case
  tokengen issue -case-id "550e8400-e29b-41d4-a716-446655440000"

  # Reject token with a short TTL
  tokengen issue -case-id "550e8400-..." -action reject -ttl 1h

  # Full reviewer link set
  tokengen links -case-id "550e8400-..." -base-url "http://localhost:8080"`)
}
