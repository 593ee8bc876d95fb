package ui

import (
	"strings"
	"testing"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

func TestRenderStartShowsModeratorSectionOnlyWhenPrivileged(t *testing.T) {
	if strings.Contains(RenderStart(false), "/moderate") {
		t.Fatalf("regular user should not see moderator commands")
	}
	if !strings.Contains(RenderStart(true), "/moderate") {
		t.Fatalf("privileged user should see moderator commands")
	}
}

func TestRenderCard(t *testing.T) {
	got := RenderCard(model.Profile{
		Name:   "Аня",
		Age:    16,
		City:   "Москва",
		Gender: enums.GenderFemale,
		Bio:    "Рисую",
	}, 3, 15)

	for _, want := range []string{"👤 Аня, 16", "📍 Москва", "Девушка", "💬 Рисую", "3/15"} {
		if !strings.Contains(got, want) {
			t.Fatalf("card %q does not contain %q", got, want)
		}
	}
}

func TestContactFallsBackToID(t *testing.T) {
	if got := Contact(model.Profile{Username: "anya", TelegramID: 1}); got != "@anya" {
		t.Fatalf("unexpected contact: %s", got)
	}
	if got := Contact(model.Profile{TelegramID: 100}); got != "ID 100" {
		t.Fatalf("unexpected contact: %s", got)
	}
	if got := Contact(model.Profile{}); got != MsgNoUsername {
		t.Fatalf("unexpected contact: %s", got)
	}
}

func TestRenderReportWithoutNames(t *testing.T) {
	got := RenderReport(model.ReportView{
		Report: model.Report{ID: 7, ReporterID: 1, ReportedUserID: 2, Reason: "spam"},
	})
	if !strings.Contains(got, "Жалоба #7") || !strings.Contains(got, "От: — (ID: 1)") {
		t.Fatalf("unexpected report render: %q", got)
	}
}

func TestRenderMatchesEmpty(t *testing.T) {
	if RenderMatches(nil) != MsgNoMatches {
		t.Fatalf("expected empty matches message")
	}
}
