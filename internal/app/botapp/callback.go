package botapp

import (
	"errors"
	"strconv"
	"strings"
)

type Action string

const (
	ActionLike          Action = "like"
	ActionSkip          Action = "skip"
	ActionReport        Action = "report"
	ActionApprove       Action = "mod_approve"
	ActionReject        Action = "mod_reject"
	ActionResolveReport Action = "rep_resolve"
	ActionDismissReport Action = "rep_dismiss"
)

var ErrBadCallback = errors.New("malformed callback data")

var knownActions = map[Action]bool{
	ActionLike:          true,
	ActionSkip:          true,
	ActionReport:        true,
	ActionApprove:       true,
	ActionReject:        true,
	ActionResolveReport: true,
	ActionDismissReport: true,
}

// Callback is a decoded inline button payload.
type Callback struct {
	Action Action
	ID     int64
}

func (c Callback) String() string {
	return string(c.Action) + "_" + strconv.FormatInt(c.ID, 10)
}

// Privileged reports whether the action belongs to the moderator.
func (c Callback) Privileged() bool {
	switch c.Action {
	case ActionApprove, ActionReject, ActionResolveReport, ActionDismissReport:
		return true
	default:
		return false
	}
}

// ParseCallback accepts only known actions followed by a positive id.
func ParseCallback(data string) (Callback, error) {
	data = strings.TrimSpace(data)
	idx := strings.LastIndexByte(data, '_')
	if idx <= 0 || idx == len(data)-1 {
		return Callback{}, ErrBadCallback
	}

	action := Action(data[:idx])
	if !knownActions[action] {
		return Callback{}, ErrBadCallback
	}

	raw := data[idx+1:]
	if raw[0] == '+' || raw[0] == '-' {
		return Callback{}, ErrBadCallback
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Callback{}, ErrBadCallback
	}

	return Callback{Action: action, ID: id}, nil
}
