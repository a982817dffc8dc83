package ladder

import "errors"

// Kind groups rule violations by the way a caller should treat them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindPermissionDenied
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "unknown"
	}
}

// Error is a business-rule rejection. Two errors are equal under errors.Is
// when they share a Code, so a sentinel matches every message built from it.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrTeamNotFound      = &Error{Kind: KindNotFound, Code: "team_not_found"}
	ErrNoChallengeFound  = &Error{Kind: KindNotFound, Code: "no_challenge_found"}
	ErrMemberNotFound    = &Error{Kind: KindNotFound, Code: "member_not_found"}
	ErrDuplicateTeamName = &Error{Kind: KindConflict, Code: "duplicate_team_name"}

	ErrMemberAlreadyRostered    = &Error{Kind: KindConflict, Code: "member_already_rostered"}
	ErrDuplicateRosterMember    = &Error{Kind: KindConflict, Code: "duplicate_roster_member"}
	ErrTargetAlreadyChallenged  = &Error{Kind: KindConflict, Code: "target_already_challenged"}
	ErrTargetAlreadyChallenging = &Error{Kind: KindConflict, Code: "target_already_challenging"}
	ErrSelfAlreadyChallenged    = &Error{Kind: KindConflict, Code: "self_already_challenged"}
	ErrSelfAlreadyChallenging   = &Error{Kind: KindConflict, Code: "self_already_challenging"}

	ErrInvalidDivision  = &Error{Kind: KindInvalidInput, Code: "invalid_division"}
	ErrWrongRosterSize  = &Error{Kind: KindInvalidInput, Code: "wrong_roster_size"}
	ErrInvalidTeamName  = &Error{Kind: KindInvalidInput, Code: "invalid_team_name"}
	ErrRankOutOfBounds  = &Error{Kind: KindInvalidInput, Code: "rank_out_of_bounds"}
	ErrRankUnchanged    = &Error{Kind: KindInvalidInput, Code: "rank_unchanged"}
	ErrRankOutOfRange   = &Error{Kind: KindInvalidInput, Code: "rank_out_of_range"}
	ErrSelfChallenge    = &Error{Kind: KindInvalidInput, Code: "self_challenge"}
	ErrRecordUnderflow  = &Error{Kind: KindInvalidInput, Code: "record_underflow"}
	ErrInvalidEmail     = &Error{Kind: KindInvalidInput, Code: "invalid_email"}
	ErrDivisionMismatch = &Error{Kind: KindInvalidInput, Code: "division_mismatch"}

	ErrNotAuthorized = &Error{Kind: KindPermissionDenied, Code: "not_authorized"}

	ErrLadderNotStarted = &Error{Kind: KindInvalidState, Code: "ladder_not_started"}
	ErrAlreadyRunning   = &Error{Kind: KindInvalidState, Code: "already_running"}
	ErrNotRunning       = &Error{Kind: KindInvalidState, Code: "not_running"}
	ErrRankInconsistent = &Error{Kind: KindInvalidState, Code: "rank_inconsistent"}
)

// ErrNotFound is returned by stores when a requested row does not exist.
var ErrNotFound = errors.New("not found")

func newError(base *Error, message string) *Error {
	return &Error{Kind: base.Kind, Code: base.Code, Message: message}
}

// KindOf classifies err. Errors that are not rule rejections, such as store
// failures, report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRuleViolation reports whether err is a business-rule rejection rather than
// an infrastructure failure.
func IsRuleViolation(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
