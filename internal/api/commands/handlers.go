// internal/api/commands/handlers.go
package commands

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Ladderbot/internal/api/apiutil"
	"github.com/codr1/Ladderbot/internal/bot"
	"github.com/codr1/Ladderbot/internal/ratelimit"
)

// Request is the JSON body the chat gateway posts for each message addressed
// to the bot.
type Request struct {
	PlayerID    string            `json:"player_id"`
	DisplayName string            `json:"display_name"`
	Admin       bool              `json:"admin"`
	Text        string            `json:"text"`
	Mentions    map[string]string `json:"mentions"`
}

const slowDownReply = "You are sending commands too quickly. Please wait a moment and try again."

var (
	dispatcher *bot.Dispatcher
	limiter    *ratelimit.Limiter
	trustProxy bool
)

// InitHandlers wires the package handlers. A nil limiter disables throttling.
func InitHandlers(d *bot.Dispatcher, l *ratelimit.Limiter, trustForwardedFor bool) {
	dispatcher = d
	limiter = l
	trustProxy = trustForwardedFor
}

// POST /api/v1/commands
func HandleCommand(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req Request
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid JSON body", Err: err})
		return
	}
	if err := validate(req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	// Only commands that change the ladder are throttled; help and boards stay free.
	if limiter != nil && dispatcher.Mutates(req.Text) {
		ip := ratelimit.GetClientIP(r, trustProxy)
		if result := limiter.AllowCommand(req.PlayerID, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(req.PlayerID, ip, result)
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(result)))
			_ = apiutil.WriteJSON(w, http.StatusTooManyRequests, bot.Reply{Text: slowDownReply})
			return
		}
	}

	cmd := bot.Command{
		PlayerID:    req.PlayerID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Admin:       req.Admin,
		Text:        req.Text,
		Mentions:    req.Mentions,
	}
	reply, err := dispatcher.Dispatch(r.Context(), cmd)
	if err != nil {
		// The dispatcher already logged the cause; the reply carries the generic text.
		_ = apiutil.WriteJSON(w, http.StatusInternalServerError, reply)
		return
	}

	logger.Debug().Str("command", reply.Command).Msg("Command handled")
	if err := apiutil.WriteJSON(w, http.StatusOK, reply); err != nil {
		logger.Error().Err(err).Msg("Failed to write command reply")
	}
}

func validate(req Request) error {
	if strings.TrimSpace(req.PlayerID) == "" {
		return apiutil.FieldError{Field: "player_id", Reason: "is required"}
	}
	if strings.TrimSpace(req.Text) == "" {
		return apiutil.FieldError{Field: "text", Reason: "is required"}
	}
	if len(req.Text) > 2000 {
		return apiutil.FieldError{Field: "text", Reason: "must be at most 2000 characters"}
	}
	return nil
}

// retrySeconds rounds up so clients never retry early.
func retrySeconds(result ratelimit.LimitResult) int {
	return int(math.Ceil(result.RetryAfter.Seconds()))
}
