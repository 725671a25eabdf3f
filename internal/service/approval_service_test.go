package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/model"
)

func newApprovalFixture(t *testing.T) (ApprovalService, *mockOperatorRepo, *mockEventRepo) {
	t.Helper()
	repo, _, operators, events, _ := newTestRepo()
	svc := NewApprovalService(repo, zap.NewNop())
	return svc, operators, events
}

func TestSetDayApproval_RefusesIncompleteDayWithoutAcknowledgement(t *testing.T) {
	svc, _, events := newApprovalFixture(t)
	seedEvent(t, events, 2)

	_, err := svc.SetDayApproval(context.Background(), "2026-01-05",
		&dto.SetDayApprovalRequest{Approved: true}, "approver-1")
	if !errors.Is(err, ErrDayIncomplete) {
		t.Errorf("expected ErrDayIncomplete, got %v", err)
	}
}

func TestSetDayApproval_AcknowledgedApprovalForcesStatuses(t *testing.T) {
	svc, _, events := newApprovalFixture(t)
	event := seedEvent(t, events, 2)

	resp, err := svc.SetDayApproval(context.Background(), "2026-01-05",
		&dto.SetDayApprovalRequest{Approved: true, AcknowledgeIncomplete: true}, "approver-1")
	if err != nil {
		t.Fatalf("SetDayApproval failed: %v", err)
	}

	if !resp.Approved {
		t.Error("expected the day to be approved")
	}
	if resp.ApprovedBy != "approver-1" {
		t.Errorf("expected ApprovedBy=approver-1, got %s", resp.ApprovedBy)
	}
	if got := events.events[event.EventID].Status; got != model.StatusApprovato {
		t.Errorf("expected event status APPROVATO, got %s", got)
	}
}

func TestSetDayApproval_FullyStaffedDayNeedsNoAcknowledgement(t *testing.T) {
	svc, operators, events := newApprovalFixture(t)
	event := seedEvent(t, events, 1)
	op := operators.add(&model.Operator{Name: "Rossi", Qualification: model.QualificationVIG, Group: "C", Subgroup: "C1", Available: true})
	group := "C"
	event.Requirements[0].Slots[0].AssignedID = &op.OperatorID
	event.Requirements[0].Slots[0].AssignedByGroup = &group

	resp, err := svc.SetDayApproval(context.Background(), "2026-01-05",
		&dto.SetDayApprovalRequest{Approved: true}, "approver-1")
	if err != nil {
		t.Fatalf("SetDayApproval failed: %v", err)
	}
	if !resp.Approved {
		t.Error("expected the day to be approved")
	}
}

func TestSetDayApproval_ReopenForcesInCompilazione(t *testing.T) {
	svc, operators, events := newApprovalFixture(t)
	event := seedEvent(t, events, 1)
	op := operators.add(&model.Operator{Name: "Bianchi", Qualification: model.QualificationVIG, Group: "C", Subgroup: "C2", Available: true})
	group := "C"
	event.Requirements[0].Slots[0].AssignedID = &op.OperatorID
	event.Requirements[0].Slots[0].AssignedByGroup = &group

	ctx := context.Background()
	if _, err := svc.SetDayApproval(ctx, "2026-01-05", &dto.SetDayApprovalRequest{Approved: true}, "approver-1"); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.SetDayApproval(ctx, "2026-01-05", &dto.SetDayApprovalRequest{Approved: false}, "approver-1")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if resp.Approved {
		t.Error("expected the day to be reopened")
	}
	if resp.ApprovedBy != "" {
		t.Error("expected ApprovedBy to be cleared on reopen")
	}
	// Reopening forces IN_COMPILAZIONE even on a fully staffed event.
	if got := events.events[event.EventID].Status; got != model.StatusInCompilazione {
		t.Errorf("expected event status IN_COMPILAZIONE, got %s", got)
	}
}

func TestGetDayApproval_UnknownDateDefaultsToOpen(t *testing.T) {
	svc, _, _ := newApprovalFixture(t)

	resp, err := svc.GetDayApproval(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatalf("GetDayApproval failed: %v", err)
	}
	if resp.Approved {
		t.Error("expected an unknown date to be open")
	}
}
