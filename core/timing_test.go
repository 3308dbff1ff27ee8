package core

import (
	"testing"
	"time"
)

func TestTiming_Duration(t *testing.T) {
	start := time.Now()
	tm := Timing{StartTime: start, EndTime: start.Add(250 * time.Millisecond)}
	if got := tm.Duration(); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", got)
	}
	if err := tm.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestTiming_InvertedSamplesFlagged(t *testing.T) {
	start := time.Now()
	tm := Timing{StartTime: start, EndTime: start.Add(-time.Second)}
	if tm.Duration() >= 0 {
		t.Fatalf("expected negative duration, got %s", tm.Duration())
	}
	if err := tm.Validate(); err == nil {
		t.Fatalf("expected validation error for inverted samples")
	}
}

func TestTiming_StopSamplesEnd(t *testing.T) {
	tm := NewTiming().Stop()
	if tm.EndTime.Before(tm.StartTime) {
		t.Fatalf("stop produced end before start: %s", tm)
	}
}

func TestTokenUsage_NewIsConsistent(t *testing.T) {
	u := NewTokenUsage(10, 5)
	if u.TotalTokens != 15 {
		t.Fatalf("expected total 15, got %d", u.TotalTokens)
	}
	sum := u.Add(NewTokenUsage(1, 2))
	if sum.PromptTokens != 11 || sum.CompletionTokens != 7 || sum.TotalTokens != 18 {
		t.Fatalf("unexpected merged usage: %+v", sum)
	}
}

func TestMessageRecords(t *testing.T) {
	recs := MessageRecords([]Message{SystemMessage("a"), UserMessage("b")})
	if len(recs) != 2 || recs[0]["role"] != "system" || recs[1]["content"] != "b" {
		t.Fatalf("unexpected records: %#v", recs)
	}
}
