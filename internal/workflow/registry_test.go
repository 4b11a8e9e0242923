package workflow_test

import (
	"context"
	"errors"
	"testing"

	"letterdesk/internal/client"
	"letterdesk/internal/workflow"
)

func TestRegistryCachesResumeList(t *testing.T) {
	api := &fakeAPI{resumes: twoResumes()}
	reg := workflow.NewRegistry(api)

	first, err := reg.Resumes(context.Background())
	if err != nil {
		t.Fatalf("resumes: %v", err)
	}
	second, err := reg.Resumes(context.Background())
	if err != nil {
		t.Fatalf("resumes: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both reads to return 2 resumes")
	}
	if api.listCalls != 1 {
		t.Fatalf("second read must come from the cache, got %d list calls", api.listCalls)
	}
}

func TestRegistryRefreshFailureKeepsCache(t *testing.T) {
	api := &fakeAPI{resumes: twoResumes()}
	reg := workflow.NewRegistry(api)

	if _, err := reg.Resumes(context.Background()); err != nil {
		t.Fatalf("resumes: %v", err)
	}
	api.listErr = errors.New("boom")
	if _, err := reg.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh failure")
	}
	if _, ok := reg.Find("r1"); !ok {
		t.Fatalf("failed refresh must keep the prior cache")
	}
}

func TestSelectResumeClearsLettersUpFront(t *testing.T) {
	api := &fakeAPI{
		lettersByResume: map[string][]client.Letter{
			"r1": {{LetterID: "l1"}},
		},
	}
	reg := workflow.NewRegistry(api)

	if err := reg.SelectResume(context.Background(), "r1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(reg.Letters()) != 1 {
		t.Fatalf("expected letters for r1")
	}

	// Selecting a resume with no letters leaves an empty list, not the
	// previous resume's letters.
	if err := reg.SelectResume(context.Background(), "r2"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(reg.Letters()) != 0 {
		t.Fatalf("previous letters must not leak into the new selection")
	}
}

func TestSelectResumeDiscardsStaleResponse(t *testing.T) {
	api := &fakeAPI{
		lettersByResume: map[string][]client.Letter{
			"r1": {{LetterID: "stale"}},
			"r2": {{LetterID: "fresh"}},
		},
	}
	reg := workflow.NewRegistry(api)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	api.onLetters = func(resumeID string) {
		if resumeID == "r1" {
			close(inFlight)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() { done <- reg.SelectResume(context.Background(), "r1") }()
	<-inFlight

	// A newer selection lands while the first fetch is outstanding.
	if err := reg.SelectResume(context.Background(), "r2"); err != nil {
		t.Fatalf("select r2: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("select r1: %v", err)
	}

	if got := reg.SelectedResume(); got != "r2" {
		t.Fatalf("expected selection r2, got %q", got)
	}
	letters := reg.Letters()
	if len(letters) != 1 || letters[0].LetterID != "fresh" {
		t.Fatalf("stale response must be discarded, got %v", letters)
	}
}
