// Package objectstore abstracts the blob store holding case documents and
// JSON case records. Keys are case-scoped prefixes so one case's objects can
// be listed without scanning the bucket.
package objectstore

import (
	"context"
	"fmt"
	"time"

	id "clearway/pkg/domain"
)

// ObjectStore is the minimal blob interface the case store consumes.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// Key layout: one prefix per record kind, case identifier second.
func SubmissionKey(caseID id.CaseID) string {
	return fmt.Sprintf("submissions/%s/record.json", caseID)
}

func SummaryKey(caseID id.CaseID) string {
	return fmt.Sprintf("screening/%s/summary.json", caseID)
}

func DecisionKey(caseID id.CaseID, action string, at time.Time) string {
	return fmt.Sprintf("decisions/%s/%s-%s.json", caseID, at.UTC().Format("20060102T150405.000000000Z"), action)
}

func DecisionPrefix(caseID id.CaseID) string {
	return fmt.Sprintf("decisions/%s/", caseID)
}
