package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestLiveStatus_Constants(t *testing.T) {
	tests := []struct {
		name     string
		status   LiveStatus
		expected string
	}{
		{"pending", LiveStatusAssignPriorityPending, "Assign_priority_pending"},
		{"processing", LiveStatusProcessing, "Processing"},
		{"fetched", LiveStatusFetched, "Fetched"},
		{"error", LiveStatusError, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.status) != tt.expected {
				t.Errorf("LiveStatus %s = %q, want %q", tt.name, tt.status, tt.expected)
			}
			if !tt.status.Valid() {
				t.Errorf("LiveStatus %s should be valid", tt.name)
			}
		})
	}
}

func TestParseLiveStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    LiveStatus
		wantErr bool
	}{
		{"Assign_priority_pending", LiveStatusAssignPriorityPending, false},
		{"Assign_Priority_Pending", LiveStatusAssignPriorityPending, false},
		{"processing", LiveStatusProcessing, false},
		{"FETCHED", LiveStatusFetched, false},
		{"Error", LiveStatusError, false},
		{"Queued", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLiveStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLiveStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLiveStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLiveStatus_Scan(t *testing.T) {
	var s LiveStatus
	if err := s.Scan([]byte("Processing")); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if s != LiveStatusProcessing {
		t.Errorf("Scan = %q, want Processing", s)
	}

	if err := s.Scan("bogus"); err == nil {
		t.Error("Expected error scanning unknown status")
	}
	if err := s.Scan(nil); err == nil {
		t.Error("Expected error scanning NULL status")
	}
}

func TestFlag(t *testing.T) {
	if !FlagYes.Bool() || FlagNo.Bool() {
		t.Error("Flag.Bool mismatch")
	}
	if FlagOf(true) != FlagYes || FlagOf(false) != FlagNo {
		t.Error("FlagOf mismatch")
	}

	var f Flag
	if err := f.Scan("Y"); err != nil || f != FlagYes {
		t.Errorf("Scan(Y) = %q, %v", f, err)
	}
	if err := f.Scan("maybe"); err == nil {
		t.Error("Expected error scanning invalid flag")
	}
	if _, err := Flag("x").Value(); err == nil {
		t.Error("Expected error valuing invalid flag")
	}
}

func TestDedupKey_CaseInsensitive(t *testing.T) {
	a := &QueueConfiguration{SourceID: 1, ScriptID: 1, QueryString: "SELECT 1"}
	b := &QueueConfiguration{SourceID: 1, ScriptID: 1, QueryString: "select 1"}
	c := &QueueConfiguration{SourceID: 2, ScriptID: 1, QueryString: "select 1"}

	if a.DedupKey() != b.DedupKey() {
		t.Error("Expected keys differing only in case to match")
	}
	if a.DedupKey() == c.DedupKey() {
		t.Error("Expected keys with different sources to differ")
	}
}

func TestErrors(t *testing.T) {
	ce := &ConsistencyError{Expected: 3, MaxAssigned: 2}
	if ce.Error() == "" {
		t.Error("Expected ConsistencyError message")
	}

	wrapped := fmt.Errorf("pass failed: %w", &TransientStoreError{Op: "list configurations", Err: context.DeadlineExceeded})
	if !IsRetryable(wrapped) {
		t.Error("Expected wrapped TransientStoreError to be retryable")
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Error("Expected TransientStoreError to unwrap to its cause")
	}
	if IsRetryable(ce) {
		t.Error("ConsistencyError must not be retryable")
	}

	de := &DuplicateConfigError{KeptID: 1, DuplicateID: 2}
	if de.Error() != "config 2 duplicates config 1" {
		t.Errorf("Unexpected message %q", de.Error())
	}
}
