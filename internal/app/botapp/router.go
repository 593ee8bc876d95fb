package botapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	tginfra "github.com/ivankudzin/teenmatch/internal/infra/telegram"
	feedsvc "github.com/ivankudzin/teenmatch/internal/services/feed"
	likesvc "github.com/ivankudzin/teenmatch/internal/services/likes"
	modsvc "github.com/ivankudzin/teenmatch/internal/services/moderation"
	profilesvc "github.com/ivankudzin/teenmatch/internal/services/profiles"
	reportsvc "github.com/ivankudzin/teenmatch/internal/services/reports"
	"github.com/ivankudzin/teenmatch/internal/ui"
)

// Messenger is the outbound half of the Telegram gateway.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendWithButtons(ctx context.Context, chatID int64, text string, rows [][]tginfra.InlineButton) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

type Dependencies struct {
	Profiles    *profilesvc.Service
	Feed        *feedsvc.Service
	Likes       *likesvc.Service
	Reports     *reportsvc.Service
	Moderation  *modsvc.Service
	Messenger   Messenger
	ModeratorID int64
	Logger      *zap.Logger
}

// Router turns inbound updates into service calls. It keeps no state between updates.
type Router struct {
	profiles    *profilesvc.Service
	feed        *feedsvc.Service
	likes       *likesvc.Service
	reports     *reportsvc.Service
	moderation  *modsvc.Service
	msg         Messenger
	moderatorID int64
	logger      *zap.Logger
}

func NewRouter(deps Dependencies) (*Router, error) {
	if deps.Profiles == nil || deps.Feed == nil || deps.Likes == nil || deps.Reports == nil || deps.Moderation == nil {
		return nil, errors.New("bot router services are not configured")
	}
	if deps.Messenger == nil {
		return nil, errors.New("bot router messenger is nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Router{
		profiles:    deps.Profiles,
		feed:        deps.Feed,
		likes:       deps.Likes,
		reports:     deps.Reports,
		moderation:  deps.Moderation,
		msg:         deps.Messenger,
		moderatorID: deps.ModeratorID,
		logger:      logger,
	}, nil
}

func (r *Router) isPrivileged(userID int64) bool {
	return r.moderatorID != 0 && userID == r.moderatorID
}

// Handle processes one update. Errors are returned only when the store failed;
// delivery problems of outbound messages are logged and dropped.
func (r *Router) Handle(ctx context.Context, update tginfra.Update) error {
	switch {
	case update.Message != nil:
		return r.handleMessage(ctx, *update.Message)
	case update.Callback != nil:
		return r.handleCallback(ctx, *update.Callback)
	default:
		return nil
	}
}

func (r *Router) handleMessage(ctx context.Context, m tginfra.MessageUpdate) error {
	if m.IsCommand() {
		return r.handleCommand(ctx, m)
	}

	if len(strings.Split(m.Text, "\n")) >= 4 {
		_, err := r.profiles.Get(ctx, m.UserID)
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			return r.createProfile(ctx, m)
		case err != nil:
			return err
		}
	}

	r.send(ctx, m.ChatID, ui.MsgUsage)
	return nil
}

func (r *Router) handleCommand(ctx context.Context, m tginfra.MessageUpdate) error {
	switch m.Command {
	case "start":
		r.send(ctx, m.ChatID, ui.RenderStart(r.isPrivileged(m.UserID)))
		return nil
	case "help":
		minAge, maxAge := r.profiles.AgeRange()
		r.send(ctx, m.ChatID, ui.RenderHelp(r.likes.Limit(), minAge, maxAge))
		return nil
	case "create":
		return r.cmdCreate(ctx, m)
	case "browse":
		return r.cmdBrowse(ctx, m)
	case "matches":
		return r.cmdMatches(ctx, m)
	case "profile":
		return r.cmdProfile(ctx, m)
	case "moderate", "reports", "stats":
		if !r.isPrivileged(m.UserID) {
			r.send(ctx, m.ChatID, ui.MsgNoAccess)
			return nil
		}
		switch m.Command {
		case "moderate":
			return r.showNextPendingProfile(ctx, m.ChatID)
		case "reports":
			return r.showNextPendingReport(ctx, m.ChatID)
		default:
			return r.showStats(ctx, m.ChatID)
		}
	default:
		r.send(ctx, m.ChatID, ui.MsgUsage)
		return nil
	}
}

func (r *Router) cmdCreate(ctx context.Context, m tginfra.MessageUpdate) error {
	_, err := r.profiles.Get(ctx, m.UserID)
	switch {
	case err == nil:
		r.send(ctx, m.ChatID, ui.MsgProfileExists)
		return nil
	case errors.Is(err, profilesvc.ErrNotFound):
		minAge, maxAge := r.profiles.AgeRange()
		r.send(ctx, m.ChatID, ui.RenderCreatePrompt(minAge, maxAge))
		return nil
	default:
		return err
	}
}

func (r *Router) createProfile(ctx context.Context, m tginfra.MessageUpdate) error {
	_, err := r.profiles.Create(ctx, m.UserID, m.Username, m.Text)
	if err == nil {
		r.send(ctx, m.ChatID, ui.MsgProfileCreated)
		return nil
	}

	var vErr profilesvc.ValidationError
	switch {
	case errors.As(err, &vErr) && vErr.Field == "age":
		minAge, maxAge := r.profiles.AgeRange()
		r.send(ctx, m.ChatID, fmt.Sprintf(ui.MsgAgeOutOfRange, minAge, maxAge))
	case errors.As(err, &vErr) && vErr.Field == "gender":
		r.send(ctx, m.ChatID, ui.MsgBadGender)
	case errors.Is(err, profilesvc.ErrValidation):
		r.send(ctx, m.ChatID, ui.MsgBadFormat)
	case errors.Is(err, profilesvc.ErrAlreadyExists):
		r.send(ctx, m.ChatID, ui.MsgProfileExists)
	default:
		return err
	}
	return nil
}

// requireApproved sends the matching notice and returns false unless the user may browse.
func (r *Router) requireApproved(ctx context.Context, chatID, userID int64) (bool, error) {
	p, err := r.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			r.send(ctx, chatID, ui.MsgNeedProfile)
			return false, nil
		}
		return false, err
	}

	switch p.Status {
	case enums.ModerationStatusApproved:
		return true, nil
	case enums.ModerationStatusRejected:
		r.send(ctx, chatID, ui.MsgProfileRejected)
	default:
		r.send(ctx, chatID, ui.MsgNotApproved)
	}
	return false, nil
}

func (r *Router) cmdBrowse(ctx context.Context, m tginfra.MessageUpdate) error {
	ok, err := r.requireApproved(ctx, m.ChatID, m.UserID)
	if err != nil || !ok {
		return err
	}

	quota, err := r.likes.Used(ctx, m.UserID)
	if err != nil {
		return err
	}
	if quota.Exhausted() {
		r.send(ctx, m.ChatID, fmt.Sprintf(ui.MsgLimitReached, quota.Limit, quota.Limit))
		return nil
	}

	return r.showNextCard(ctx, m.ChatID, m.UserID, quota.Used)
}

func (r *Router) showNextCard(ctx context.Context, chatID, viewerID int64, used int) error {
	candidate, err := r.feed.Next(ctx, viewerID)
	if err != nil {
		if errors.Is(err, feedsvc.ErrNoCandidates) {
			r.send(ctx, chatID, ui.MsgNoCandidates)
			return nil
		}
		return err
	}

	id := candidate.TelegramID
	r.sendButtons(ctx, chatID, ui.RenderCard(candidate, used, r.likes.Limit()), [][]tginfra.InlineButton{
		{
			{Text: ui.BtnSkip, Data: Callback{Action: ActionSkip, ID: id}.String()},
			{Text: ui.BtnLike, Data: Callback{Action: ActionLike, ID: id}.String()},
		},
		{
			{Text: ui.BtnReport, Data: Callback{Action: ActionReport, ID: id}.String()},
		},
	})
	return nil
}

func (r *Router) cmdMatches(ctx context.Context, m tginfra.MessageUpdate) error {
	if _, err := r.profiles.Get(ctx, m.UserID); err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			r.send(ctx, m.ChatID, ui.MsgNeedProfile)
			return nil
		}
		return err
	}

	items, err := r.likes.Matches(ctx, m.UserID)
	if err != nil {
		return err
	}
	r.send(ctx, m.ChatID, ui.RenderMatches(items))
	return nil
}

func (r *Router) cmdProfile(ctx context.Context, m tginfra.MessageUpdate) error {
	p, err := r.profiles.Get(ctx, m.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			r.send(ctx, m.ChatID, ui.MsgNoProfile)
			return nil
		}
		return err
	}
	r.send(ctx, m.ChatID, ui.RenderOwnProfile(p))
	return nil
}

func (r *Router) handleCallback(ctx context.Context, c tginfra.CallbackUpdate) error {
	cb, err := ParseCallback(c.Data)
	if err != nil {
		r.logger.Debug("drop malformed callback", zap.Int64("user_id", c.UserID), zap.String("data", c.Data))
		r.answer(ctx, c.CallbackID, ui.MsgUnknownAction)
		return nil
	}

	if cb.Privileged() && !r.isPrivileged(c.UserID) {
		r.logger.Warn("moderation callback from non-moderator", zap.Int64("user_id", c.UserID), zap.String("data", c.Data))
		r.answer(ctx, c.CallbackID, ui.MsgNoAccess)
		return nil
	}

	switch cb.Action {
	case ActionLike:
		return r.onLike(ctx, c, cb.ID)
	case ActionSkip:
		r.answer(ctx, c.CallbackID, "")
		r.deleteMessage(ctx, c.ChatID, c.MessageID)
		r.send(ctx, c.ChatID, ui.MsgSkipped)
		return nil
	case ActionReport:
		return r.onReport(ctx, c, cb.ID)
	case ActionApprove:
		return r.onDecision(ctx, c, cb.ID, r.moderation.Approve, ui.MsgApprovedMod)
	case ActionReject:
		return r.onDecision(ctx, c, cb.ID, r.moderation.Reject, ui.MsgRejectedMod)
	case ActionResolveReport:
		return r.onCloseReport(ctx, c, cb.ID, r.moderation.ResolveReport, ui.MsgReportResolved)
	case ActionDismissReport:
		return r.onCloseReport(ctx, c, cb.ID, r.moderation.DismissReport, ui.MsgReportDismissed)
	default:
		r.answer(ctx, c.CallbackID, ui.MsgUnknownAction)
		return nil
	}
}

func (r *Router) onLike(ctx context.Context, c tginfra.CallbackUpdate, targetID int64) error {
	ok, err := r.requireApproved(ctx, c.ChatID, c.UserID)
	if err != nil {
		return err
	}
	if !ok {
		r.answer(ctx, c.CallbackID, "")
		return nil
	}

	res, err := r.likes.Like(ctx, c.UserID, targetID)
	switch {
	case errors.Is(err, likesvc.ErrDailyLimit):
		limit := r.likes.Limit()
		r.answer(ctx, c.CallbackID, fmt.Sprintf(ui.MsgLimitCallback, limit, limit))
		return nil
	case errors.Is(err, likesvc.ErrValidation):
		r.answer(ctx, c.CallbackID, ui.MsgUnknownAction)
		return nil
	case err != nil:
		r.answer(ctx, c.CallbackID, ui.MsgTryLater)
		return err
	}

	r.answer(ctx, c.CallbackID, "")

	switch {
	case res.Outcome == likesvc.OutcomeMatched && res.NewMatch:
		r.send(ctx, c.ChatID, fmt.Sprintf(ui.MsgMutualLike, ui.Contact(res.Counterpart)))
		r.send(ctx, targetID, fmt.Sprintf(ui.MsgMutualLike, ui.Contact(res.Liker)))
	case res.Outcome == likesvc.OutcomeMatched:
		r.send(ctx, c.ChatID, fmt.Sprintf(ui.MsgAlreadyMatched, ui.Contact(res.Counterpart)))
	default:
		r.send(ctx, c.ChatID, ui.MsgLikeSent)
	}

	r.deleteMessage(ctx, c.ChatID, c.MessageID)

	if res.LikesUsed >= r.likes.Limit() {
		limit := r.likes.Limit()
		r.send(ctx, c.ChatID, fmt.Sprintf(ui.MsgLimitReached, limit, limit))
		return nil
	}
	return r.showNextCard(ctx, c.ChatID, c.UserID, res.LikesUsed)
}

func (r *Router) onReport(ctx context.Context, c tginfra.CallbackUpdate, targetID int64) error {
	if _, err := r.reports.File(ctx, c.UserID, targetID, ""); err != nil {
		if errors.Is(err, reportsvc.ErrValidation) {
			r.answer(ctx, c.CallbackID, ui.MsgUnknownAction)
			return nil
		}
		r.answer(ctx, c.CallbackID, ui.MsgTryLater)
		return err
	}

	r.answer(ctx, c.CallbackID, "")
	r.send(ctx, c.ChatID, ui.MsgReportSent)
	r.deleteMessage(ctx, c.ChatID, c.MessageID)
	return nil
}

func (r *Router) onDecision(
	ctx context.Context,
	c tginfra.CallbackUpdate,
	profileID int64,
	decide func(context.Context, int64) (modsvc.Decision, error),
	confirmFormat string,
) error {
	d, err := decide(ctx, profileID)
	if err != nil {
		if errors.Is(err, modsvc.ErrNotFound) {
			r.answer(ctx, c.CallbackID, ui.MsgProfileGone)
			return nil
		}
		r.answer(ctx, c.CallbackID, ui.MsgTryLater)
		return err
	}

	r.answer(ctx, c.CallbackID, "")
	r.deleteMessage(ctx, c.ChatID, c.MessageID)
	r.send(ctx, c.ChatID, fmt.Sprintf(confirmFormat, d.Name))
	return r.showNextPendingProfile(ctx, c.ChatID)
}

func (r *Router) onCloseReport(
	ctx context.Context,
	c tginfra.CallbackUpdate,
	reportID int64,
	closeFn func(context.Context, int64) error,
	confirmFormat string,
) error {
	if err := closeFn(ctx, reportID); err != nil {
		if errors.Is(err, modsvc.ErrNotFound) {
			r.answer(ctx, c.CallbackID, ui.MsgReportGone)
			return nil
		}
		r.answer(ctx, c.CallbackID, ui.MsgTryLater)
		return err
	}

	r.answer(ctx, c.CallbackID, "")
	r.deleteMessage(ctx, c.ChatID, c.MessageID)
	r.send(ctx, c.ChatID, fmt.Sprintf(confirmFormat, reportID))
	return r.showNextPendingReport(ctx, c.ChatID)
}

func (r *Router) showNextPendingProfile(ctx context.Context, chatID int64) error {
	p, err := r.moderation.NextPendingProfile(ctx)
	if err != nil {
		if errors.Is(err, modsvc.ErrQueueEmpty) {
			r.send(ctx, chatID, ui.MsgNoPendingProfile)
			return nil
		}
		return err
	}

	r.sendButtons(ctx, chatID, ui.RenderPendingProfile(p), [][]tginfra.InlineButton{{
		{Text: ui.BtnReject, Data: Callback{Action: ActionReject, ID: p.ID}.String()},
		{Text: ui.BtnApprove, Data: Callback{Action: ActionApprove, ID: p.ID}.String()},
	}})
	return nil
}

func (r *Router) showNextPendingReport(ctx context.Context, chatID int64) error {
	report, err := r.moderation.NextPendingReport(ctx)
	if err != nil {
		if errors.Is(err, modsvc.ErrQueueEmpty) {
			r.send(ctx, chatID, ui.MsgNoPendingReports)
			return nil
		}
		return err
	}

	r.sendButtons(ctx, chatID, ui.RenderReport(report), [][]tginfra.InlineButton{{
		{Text: ui.BtnDismiss, Data: Callback{Action: ActionDismissReport, ID: report.ID}.String()},
		{Text: ui.BtnResolve, Data: Callback{Action: ActionResolveReport, ID: report.ID}.String()},
	}})
	return nil
}

func (r *Router) showStats(ctx context.Context, chatID int64) error {
	st, err := r.moderation.Stats(ctx)
	if err != nil {
		return err
	}
	r.send(ctx, chatID, ui.RenderStats(st))
	return nil
}

func (r *Router) send(ctx context.Context, chatID int64, text string) {
	if err := r.msg.SendText(ctx, chatID, text); err != nil {
		r.logger.Warn("send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) sendButtons(ctx context.Context, chatID int64, text string, rows [][]tginfra.InlineButton) {
	if err := r.msg.SendWithButtons(ctx, chatID, text, rows); err != nil {
		r.logger.Warn("send telegram keyboard", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if err := r.msg.DeleteMessage(ctx, chatID, messageID); err != nil {
		r.logger.Debug("delete telegram message", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
}

func (r *Router) answer(ctx context.Context, callbackID, text string) {
	if err := r.msg.AnswerCallback(ctx, callbackID, text); err != nil {
		r.logger.Debug("answer callback", zap.String("callback_id", callbackID), zap.Error(err))
	}
}
