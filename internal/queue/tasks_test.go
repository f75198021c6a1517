package queue

import (
	"encoding/json"
	"testing"
)

func TestNewVisitorCleanupTask(t *testing.T) {
	task, err := NewVisitorCleanupTask(VisitorCleanupPayload{Reason: "scheduled"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskVisitorCleanup {
		t.Fatalf("task type want %s got %s", TaskVisitorCleanup, task.Type())
	}

	var payload VisitorCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.Reason != "scheduled" {
		t.Fatalf("reason want scheduled got %s", payload.Reason)
	}
}

func TestNewLocationRefreshTask(t *testing.T) {
	task, err := NewLocationRefreshTask(LocationRefreshPayload{Reason: "admin"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskLocationRefresh {
		t.Fatalf("task type want %s got %s", TaskLocationRefresh, task.Type())
	}

	var payload LocationRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.Reason != "admin" {
		t.Fatalf("reason want admin got %s", payload.Reason)
	}
}
