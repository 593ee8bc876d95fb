package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
	adminauthsvc "github.com/ivankudzin/teenmatch/internal/services/adminauth"
	modsvc "github.com/ivankudzin/teenmatch/internal/services/moderation"
	"github.com/ivankudzin/teenmatch/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/teenmatch/internal/transport/http/errors"
)

const maxBodyBytes = 1 << 16

var (
	errUnknownAction = errors.New("unknown action")
	errMissingID     = errors.New("missing id")
)

// ModeratorHandler serves /api/moderator; the operation is selected by ?action=.
type ModeratorHandler struct {
	service *modsvc.Service
	logger  *zap.Logger
}

func NewModeratorHandler(service *modsvc.Service, logger *zap.Logger) *ModeratorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModeratorHandler{service: service, logger: logger}
}

func (h *ModeratorHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		httperrors.Fail(w, http.StatusInternalServerError, "moderation service is unavailable")
		return
	}

	action := strings.TrimSpace(r.URL.Query().Get("action"))

	switch r.Method {
	case http.MethodOptions:
		httperrors.Write(w, http.StatusOK, dto.SuccessResponse{Success: true})
	case http.MethodGet:
		h.handleGet(w, r, action)
	case http.MethodPost:
		h.handlePost(w, r, action)
	default:
		httperrors.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ModeratorHandler) handleGet(w http.ResponseWriter, r *http.Request, action string) {
	ctx := r.Context()

	switch action {
	case "pending_profiles":
		items, err := h.service.PendingProfiles(ctx)
		if err != nil {
			h.writeFailure(w, action, err)
			return
		}
		out := make([]dto.ModeratorProfile, 0, len(items))
		for _, p := range items {
			out = append(out, toModeratorProfile(p))
		}
		httperrors.Write(w, http.StatusOK, dto.PendingProfilesResponse{Success: true, Profiles: out})
	case "reports":
		items, err := h.service.PendingReports(ctx)
		if err != nil {
			h.writeFailure(w, action, err)
			return
		}
		out := make([]dto.ModeratorReport, 0, len(items))
		for _, rep := range items {
			out = append(out, toModeratorReport(rep))
		}
		httperrors.Write(w, http.StatusOK, dto.PendingReportsResponse{Success: true, Reports: out})
	case "stats":
		st, err := h.service.Stats(ctx)
		if err != nil {
			h.writeFailure(w, action, err)
			return
		}
		httperrors.Write(w, http.StatusOK, dto.StatsResponse{Success: true, Stats: toModeratorStats(st)})
	default:
		h.writeFailure(w, action, errUnknownAction)
	}
}

func (h *ModeratorHandler) handlePost(w http.ResponseWriter, r *http.Request, action string) {
	switch action {
	case "approve", "reject":
		var req dto.ProfileDecisionRequest
		if err := decodeBody(w, r, &req); err != nil || req.ProfileID <= 0 {
			h.writeFailure(w, action, errMissingID)
			return
		}

		decide := h.service.Approve
		if action == "reject" {
			decide = h.service.Reject
		}
		d, err := decide(r.Context(), req.ProfileID)
		if err != nil {
			h.writeFailure(w, action, err)
			return
		}
		h.audit(r.Context(), action, zap.Int64("profile_id", req.ProfileID), zap.Int64("owner_id", d.OwnerUserID))
		httperrors.Write(w, http.StatusOK, dto.ProfileDecisionResponse{Success: true, TelegramID: d.OwnerUserID})
	case "resolve_report", "dismiss_report":
		var req dto.ReportDecisionRequest
		if err := decodeBody(w, r, &req); err != nil || req.ReportID <= 0 {
			h.writeFailure(w, action, errMissingID)
			return
		}

		closeFn := h.service.ResolveReport
		if action == "dismiss_report" {
			closeFn = h.service.DismissReport
		}
		if err := closeFn(r.Context(), req.ReportID); err != nil {
			h.writeFailure(w, action, err)
			return
		}
		h.audit(r.Context(), action, zap.Int64("report_id", req.ReportID))
		httperrors.Write(w, http.StatusOK, dto.SuccessResponse{Success: true})
	default:
		h.writeFailure(w, action, errUnknownAction)
	}
}

// audit records who made a moderation decision.
func (h *ModeratorHandler) audit(ctx context.Context, action string, fields ...zap.Field) {
	claims, ok := adminauthsvc.ClaimsFromContext(ctx)
	if !ok {
		h.logger.Warn("moderation decision without claims", append(fields, zap.String("action", action))...)
		return
	}
	h.logger.Info("moderation decision", append(fields,
		zap.String("action", action),
		zap.Int64("moderator_id", claims.TelegramID),
		zap.String("sid", claims.SID),
	)...)
}

func (h *ModeratorHandler) writeFailure(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, errUnknownAction):
		httperrors.Fail(w, http.StatusBadRequest, "unknown action")
	case errors.Is(err, errMissingID):
		httperrors.Fail(w, http.StatusBadRequest, "missing id")
	case errors.Is(err, modsvc.ErrNotFound):
		httperrors.Fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, context.Canceled):
		httperrors.Fail(w, http.StatusInternalServerError, "request canceled")
	default:
		h.logger.Error("moderator api failure", zap.String("action", action), zap.Error(err))
		httperrors.Fail(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return decoder.Decode(target)
}

func toModeratorProfile(p model.Profile) dto.ModeratorProfile {
	return dto.ModeratorProfile{
		ID:         p.ID,
		TelegramID: p.TelegramID,
		Username:   p.Username,
		Name:       p.Name,
		Age:        p.Age,
		City:       p.City,
		Gender:     string(p.Gender),
		PhotoURL:   p.PhotoURL,
		Bio:        p.Bio,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
	}
}

func toModeratorReport(r model.ReportView) dto.ModeratorReport {
	return dto.ModeratorReport{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedUserID: r.ReportedUserID,
		ReporterName:   optionalString(r.ReporterName),
		ReportedName:   optionalString(r.ReportedName),
		Reason:         r.Reason,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
	}
}

func toModeratorStats(s model.Stats) dto.ModeratorStats {
	return dto.ModeratorStats{
		TotalProfiles:  s.TotalProfiles,
		Approved:       s.Approved,
		Pending:        s.Pending,
		Rejected:       s.Rejected,
		Matches:        s.Matches,
		PendingReports: s.PendingReports,
		LikesToday:     s.LikesLast24h,
	}
}

func optionalString(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
