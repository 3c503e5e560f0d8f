package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matchpoint-club/matchpoint/internal/auth"
	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/matchpoint-club/matchpoint/internal/match"
	"github.com/matchpoint-club/matchpoint/internal/notifier"
	"github.com/matchpoint-club/matchpoint/internal/player"
	"github.com/matchpoint-club/matchpoint/internal/pubsub"
	"github.com/matchpoint-club/matchpoint/internal/schedule"
	"github.com/matchpoint-club/matchpoint/internal/team"
	"github.com/matchpoint-club/matchpoint/internal/weather"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// currentUser resolves the request's principal to its full user record.
func (s *Server) currentUser(r *http.Request) (*player.User, error) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		return nil, player.ErrNotFound
	}
	return s.Players.GetByID(principal.UserID)
}

// weekStartParam reads the required week_start query parameter.
func weekStartParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("week_start")
	if raw == "" {
		return 0, fmt.Errorf("week_start is required")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Ladders

func (s *Server) ListLaddersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ladders, err := s.Ladders.List()
		if err != nil {
			log.Error("Failed to list ladders", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to list ladders")
			return
		}
		writeJSON(w, http.StatusOK, ladders)
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ladderID := r.URL.Query().Get("ladder_id")
		if ladderID == "" {
			writeError(w, http.StatusBadRequest, "missing_ladder", "ladder_id is required")
			return
		}
		standings, err := s.Ladders.Standings(ladderID)
		if err != nil {
			log.Error("Failed to compute standings", "error", err, "ladderID", ladderID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to compute standings")
			return
		}
		writeJSON(w, http.StatusOK, standings)
	}
}

func (s *Server) LadderSwitchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LadderID string `json:"ladder_id"`
		}
		if err := readJSON(r, &req); err != nil || req.LadderID == "" {
			writeError(w, http.StatusBadRequest, "missing_ladder", "ladder_id is required")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}
		if _, err := s.Ladders.Get(req.LadderID); err != nil {
			writeError(w, http.StatusNotFound, "ladder_not_found", "unknown ladder")
			return
		}

		// A team moves as a unit: the partner switches along with the user.
		userIDs := []string{user.ID}
		if user.PartnerID != nil {
			userIDs = append(userIDs, *user.PartnerID)
		}

		if err := s.Ladders.Switch(userIDs, req.LadderID); err != nil {
			log.Error("Failed to switch ladder", "error", err, "userID", user.ID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to switch ladder")
			return
		}
		log.Info("Switched ladder", "userIDs", userIDs, "ladderID", req.LadderID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Availability calendar

func (s *Server) GetAvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weekStart, err := weekStartParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_week", "week_start must be a unix timestamp")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}

		partnerID := ""
		if user.PartnerID != nil {
			partnerID = *user.PartnerID
		}
		view, err := s.Availability.Week(user.ID, partnerID, weekStart)
		if err != nil {
			log.Error("Failed to load week", "error", err, "userID", user.ID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load availability")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) SaveAvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WeekStart int64                `json:"week_start"`
			Entries   []availability.Entry `json:"entries"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "could not parse request body")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}

		partnerID := ""
		if user.PartnerID != nil {
			partnerID = *user.PartnerID
		}
		err = s.Availability.ReplaceWeek(user.ID, partnerID, req.WeekStart, req.Entries)
		if errors.Is(err, availability.ErrBadEntry) {
			writeError(w, http.StatusBadRequest, "invalid_entry", "entries may only cover the user and partner slots the user set")
			return
		}
		if err != nil {
			log.Error("Failed to save week", "error", err, "userID", user.ID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to save availability")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ProxySaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TargetUserID string                       `json:"target_user_id"`
			WeekStart    int64                        `json:"week_start"`
			Slots        map[int64]availability.State `json:"slots"`
		}
		if err := readJSON(r, &req); err != nil || req.TargetUserID == "" {
			writeError(w, http.StatusBadRequest, "invalid_json", "target_user_id and slots are required")
			return
		}

		principal := auth.PrincipalFromContext(r.Context())
		if req.TargetUserID == principal.UserID {
			writeError(w, http.StatusBadRequest, "self_proxy", "cannot proxy-edit your own calendar")
			return
		}

		overlay := availability.Overlay(req.Slots)
		err := s.Availability.ProxySave(principal.UserID, req.TargetUserID, req.WeekStart, overlay)
		if errors.Is(err, availability.ErrBadEntry) {
			writeError(w, http.StatusBadRequest, "invalid_entry", "slots must fall inside the given week")
			return
		}
		if err != nil {
			log.Error("Failed to flush proxy edits", "error", err, "actor", principal.UserID, "target", req.TargetUserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to save proxy edits")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CycleSlotHandler applies the calendar click gestures server-side: a
// single click advances the caller's slot through the tri-state cycle, a
// double click marks the caller and their partner available together.
func (s *Server) CycleSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WeekStart int64 `json:"week_start"`
			StartAt   int64 `json:"start_at"`
			Both      bool  `json:"both"`
		}
		if err := readJSON(r, &req); err != nil || req.StartAt == 0 {
			writeError(w, http.StatusBadRequest, "missing_fields", "week_start and start_at are required")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}
		if req.Both && user.PartnerID == nil {
			writeError(w, http.StatusBadRequest, "no_partner", "the double-click gesture needs a partner")
			return
		}

		ids := []string{user.ID}
		if user.PartnerID != nil {
			ids = append(ids, *user.PartnerID)
		}
		states, err := s.Availability.ForUsers(ids, req.WeekStart)
		if err != nil {
			log.Error("Failed to load slot states", "error", err, "userID", user.ID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load availability")
			return
		}

		mine := states[user.ID][req.StartAt]
		next := map[string]availability.SlotState{}
		if req.Both {
			partnerID := *user.PartnerID
			myNext, partnerNext := availability.ToggleBoth(mine, states[partnerID][req.StartAt], user.ID, partnerID)
			next[user.ID] = myNext
			next[partnerID] = partnerNext
		} else {
			next[user.ID] = availability.Cycle(mine, user.ID)
		}

		for id, st := range next {
			err = s.Availability.SetSlot(id, req.WeekStart, req.StartAt, st)
			if errors.Is(err, availability.ErrBadEntry) {
				writeError(w, http.StatusBadRequest, "invalid_entry", "start_at must fall inside the given week")
				return
			}
			if err != nil {
				log.Error("Failed to apply gesture", "error", err, "userID", id, "startAt", req.StartAt)
				writeError(w, http.StatusInternalServerError, "internal", "failed to save slot")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"start_at": req.StartAt,
			"states":   next,
		})
	}
}

// ProxyCycleHandler replays a proxy-editing session's clicks server-side.
// Each click advances the slot relative to its effective state, and the
// resulting overlay is flushed through the proxy-save path so the target's
// self-set rows survive.
func (s *Server) ProxyCycleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TargetUserID string  `json:"target_user_id"`
			WeekStart    int64   `json:"week_start"`
			Clicks       []int64 `json:"clicks"`
		}
		if err := readJSON(r, &req); err != nil || req.TargetUserID == "" || len(req.Clicks) == 0 {
			writeError(w, http.StatusBadRequest, "missing_fields", "target_user_id and clicks are required")
			return
		}

		principal := auth.PrincipalFromContext(r.Context())
		if req.TargetUserID == principal.UserID {
			writeError(w, http.StatusBadRequest, "self_proxy", "cannot proxy-edit your own calendar")
			return
		}

		states, err := s.Availability.ForUsers([]string{req.TargetUserID}, req.WeekStart)
		if err != nil {
			log.Error("Failed to load slot states", "error", err, "target", req.TargetUserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load availability")
			return
		}
		base := states[req.TargetUserID]

		overlay := availability.Overlay{}
		for _, slot := range req.Clicks {
			overlay.CycleProxy(slot, base[slot])
		}

		err = s.Availability.ProxySave(principal.UserID, req.TargetUserID, req.WeekStart, overlay)
		if errors.Is(err, availability.ErrBadEntry) {
			writeError(w, http.StatusBadRequest, "invalid_entry", "clicks must fall inside the given week")
			return
		}
		if err != nil {
			log.Error("Failed to flush proxy clicks", "error", err, "actor", principal.UserID, "target", req.TargetUserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to save proxy edits")
			return
		}

		effective := make(map[int64]availability.State, len(overlay))
		for slot := range overlay {
			effective[slot] = overlay.Effective(slot, base[slot])
		}
		writeJSON(w, http.StatusOK, map[string]any{"slots": effective})
	}
}

func (s *Server) TakeoverHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WeekStart int64                        `json:"week_start"`
			Slots     map[int64]availability.State `json:"slots"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "could not parse request body")
			return
		}

		principal := auth.PrincipalFromContext(r.Context())
		err := s.Availability.Takeover(principal.UserID, req.WeekStart, req.Slots)
		if errors.Is(err, availability.ErrBadEntry) {
			writeError(w, http.StatusBadRequest, "invalid_entry", "slots must fall inside the given week")
			return
		}
		if err != nil {
			log.Error("Failed to take over slots", "error", err, "userID", principal.UserID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to take over slots")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// TeamsAvailabilityHandler runs the weekly reconciliation and returns the
// per-slot decisions for the caller's team.
func (s *Server) TeamsAvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weekStart, err := weekStartParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_week", "week_start must be a unix timestamp")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}
		ladderRow, err := s.Ladders.Get(user.LadderID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load ladder")
			return
		}

		started := time.Now()

		users, err := s.Players.ListByLadder(user.LadderID)
		if err != nil {
			log.Error("Failed to list ladder players", "error", err, "ladderID", user.LadderID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load players")
			return
		}

		userIDs := make([]string, 0, len(users))
		members := make(map[string][]string)
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
			tid := u.TeamID()
			members[tid] = append(members[tid], u.ID)
		}

		slots, err := s.Availability.ForUsers(userIDs, weekStart)
		if err != nil {
			log.Error("Failed to load ladder availability", "error", err, "ladderID", user.LadderID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load availability")
			return
		}

		myTeamID := user.TeamID()
		var myTeam schedule.TeamAvailability
		var others []schedule.TeamAvailability
		for tid, ids := range members {
			ta := schedule.TeamAvailability{
				TeamID:  tid,
				Members: ids,
				Slots:   make(map[string]map[int64]availability.SlotState, len(ids)),
			}
			for _, id := range ids {
				ta.Slots[id] = slots[id]
			}
			if tid == myTeamID {
				myTeam = ta
			} else {
				others = append(others, ta)
			}
		}

		open, err := s.Matches.OpenForLadder(user.LadderID)
		if err != nil {
			log.Error("Failed to load open matches", "error", err, "ladderID", user.LadderID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to load matches")
			return
		}
		existing := make([]schedule.ExistingMatch, 0, len(open))
		for _, m := range open {
			existing = append(existing, schedule.ExistingMatch{Team1: m.Team1ID, Team2: m.Team2ID, Completed: m.Completed})
		}

		decisions := schedule.Week(myTeam, others, existing, weekStart, time.Now().Unix(), ladderRow.EndDate)
		s.Metrics.ObserveReconcileDuration(time.Since(started).Seconds())

		writeJSON(w, http.StatusOK, map[string]any{
			"team_id":   myTeamID,
			"decisions": decisions,
		})
	}
}

// Match lifecycle

// TeamMatchesHandler returns the caller's team match history, played and
// upcoming, for the history and standings views.
func (s *Server) TeamMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}

		matches, err := s.Matches.ForTeam(user.TeamID())
		if err != nil {
			log.Error("Failed to list team matches", "error", err, "teamID", user.TeamID())
			writeError(w, http.StatusInternalServerError, "internal", "failed to list matches")
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weekStart, err := weekStartParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_week", "week_start must be a unix timestamp")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}

		matches, err := s.Matches.ForLadderWeek(user.LadderID, weekStart)
		if err != nil {
			log.Error("Failed to list matches", "error", err, "ladderID", user.LadderID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to list matches")
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) ConfirmMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StartAt        int64  `json:"start_at"`
			OpponentTeamID string `json:"opponent_team_id"`
		}
		if err := readJSON(r, &req); err != nil || req.OpponentTeamID == "" || req.StartAt == 0 {
			writeError(w, http.StatusBadRequest, "missing_fields", "start_at and opponent_team_id are required")
			return
		}

		user, err := s.currentUser(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load profile")
			return
		}

		m, err := s.Matches.Confirm(req.StartAt, user.TeamID(), req.OpponentTeamID, user.LadderID)
		var conflict *match.ConflictError
		if errors.As(err, &conflict) {
			// The existing row rides along so the client can offer a
			// reschedule instead.
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":    map[string]string{"code": "match_exists", "message": conflict.Error()},
				"existing": conflict.Existing,
			})
			return
		}
		if err != nil {
			log.Error("Failed to confirm match", "error", err, "userID", user.ID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to confirm match")
			return
		}

		s.Metrics.IncMatchesConfirmed()
		s.publishMatchEvent(pubsub.EventMatchConfirmed, m, "", 0)
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) RescheduleMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID    string `json:"match_id"`
			NewStartAt int64  `json:"new_start_at"`
		}
		if err := readJSON(r, &req); err != nil || req.MatchID == "" || req.NewStartAt == 0 {
			writeError(w, http.StatusBadRequest, "missing_fields", "match_id and new_start_at are required")
			return
		}

		principal := auth.PrincipalFromContext(r.Context())
		old, err := s.Matches.Get(req.MatchID)
		if errors.Is(err, match.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match_not_found", "unknown match")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load match")
			return
		}

		m, err := s.Matches.Reschedule(req.MatchID, req.NewStartAt, principal.UserID)
		if errors.Is(err, match.ErrForbidden) {
			writeError(w, http.StatusForbidden, "not_a_member", "only a member of the match may reschedule it")
			return
		}
		if err != nil {
			log.Error("Failed to reschedule match", "error", err, "matchID", req.MatchID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to reschedule match")
			return
		}

		s.publishMatchEvent(pubsub.EventMatchRescheduled, m, "", old.StartAt)
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID string `json:"match_id"`
			Reason  string `json:"reason"`
		}
		if err := readJSON(r, &req); err != nil || req.MatchID == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "match_id is required")
			return
		}

		principal := auth.PrincipalFromContext(r.Context())
		m, err := s.Matches.Cancel(req.MatchID, principal.UserID)
		if errors.Is(err, match.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match_not_found", "unknown match")
			return
		}
		if errors.Is(err, match.ErrForbidden) {
			writeError(w, http.StatusForbidden, "not_a_member", "only a member of the match may cancel it")
			return
		}
		if err != nil {
			log.Error("Failed to cancel match", "error", err, "matchID", req.MatchID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to cancel match")
			return
		}

		s.Metrics.IncMatchesCancelled()
		s.publishMatchEvent(pubsub.EventMatchCancelled, m, req.Reason, 0)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RecordScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID       string `json:"match_id"`
			Team1Score    int    `json:"team1_score"`
			Team2Score    int    `json:"team2_score"`
			DetailedScore string `json:"detailed_score"`
		}
		if err := readJSON(r, &req); err != nil || req.MatchID == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "match_id and scores are required")
			return
		}

		m, err := s.Matches.Score(req.MatchID, req.Team1Score, req.Team2Score, req.DetailedScore)
		if errors.Is(err, match.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match_not_found", "unknown match")
			return
		}
		if errors.Is(err, match.ErrAlreadyScored) {
			writeError(w, http.StatusConflict, "already_scored", "the match already has a recorded result")
			return
		}
		if errors.Is(err, match.ErrBadScore) {
			writeError(w, http.StatusBadRequest, "invalid_score", "the winner must reach exactly the ladder's sets to win")
			return
		}
		if err != nil {
			log.Error("Failed to record score", "error", err, "matchID", req.MatchID)
			writeError(w, http.StatusInternalServerError, "internal", "failed to record score")
			return
		}

		s.Metrics.IncScoresRecorded()
		writeJSON(w, http.StatusOK, m)
	}
}

// publishMatchEvent queues a match lifecycle notification. Delivery happens
// in the push-subscription handler; failure to publish never fails the
// request that triggered it.
func (s *Server) publishMatchEvent(kind pubsub.EventType, m *match.Match, reason string, oldStartAt int64) {
	event, err := s.buildMatchEvent(m, reason, oldStartAt)
	if err != nil {
		log.Error("Failed to assemble match event", "error", err, "matchID", m.ID)
		return
	}
	if err := s.pubsub.SendMessage(kind, pubsub.MatchMessage{Kind: kind, Event: *event}); err != nil {
		log.Error("Failed to publish match event", "error", err, "matchID", m.ID, "kind", kind)
	}
}

func (s *Server) buildMatchEvent(m *match.Match, reason string, oldStartAt int64) (*notifier.MatchEvent, error) {
	ladderRow, err := s.Ladders.Get(m.LadderID)
	if err != nil {
		return nil, err
	}
	users, err := s.Players.ListByLadder(m.LadderID)
	if err != nil {
		return nil, err
	}

	event := &notifier.MatchEvent{
		MatchID:    m.ID,
		LadderName: ladderRow.Name,
		StartAt:    m.StartAt,
		OldStartAt: oldStartAt,
		Reason:     reason,
	}
	for _, u := range users {
		switch {
		case team.Contains(m.Team1ID, u.ID):
			event.Team1Names = append(event.Team1Names, u.Name)
		case team.Contains(m.Team2ID, u.ID):
			event.Team2Names = append(event.Team2Names, u.Name)
		default:
			continue
		}
		event.Recipients = append(event.Recipients, notifier.Recipient{
			Name:        u.Name,
			Email:       u.Email,
			NotifyEmail: u.NotifyEmail,
		})
	}
	return event, nil
}

// Weather overlay

func (s *Server) WeatherHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := time.Now().Truncate(time.Hour).Unix()
		to := from + 7*24*3600
		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", "from must be a unix timestamp")
				return
			}
			from = parsed
			to = from + 7*24*3600
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", "to must be a unix timestamp")
				return
			}
			to = parsed
		}

		location := weather.LocationKey(s.Cfg.Weather.Latitude, s.Cfg.Weather.Longitude)
		forecasts, err := s.Forecasts.Window(location, from, to)
		if err != nil {
			log.Error("Failed to read forecast window", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to read forecasts")
			return
		}
		writeJSON(w, http.StatusOK, forecasts)
	}
}

func (s *Server) WeatherRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting forecast refresh...")
		s.Metrics.IncWeatherRefreshRuns()
		isDryRun := isDryRunFromContext(r)

		forecasts, err := s.WeatherClient.HourlyForecast(s.Cfg.Weather.Latitude, s.Cfg.Weather.Longitude, 7)
		if err != nil {
			log.Error("Failed to fetch forecast", "error", err)
			writeError(w, http.StatusBadGateway, "upstream", "failed to fetch forecast")
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would have upserted forecasts", "count", len(forecasts))
		} else if err := s.Forecasts.Upsert(forecasts); err != nil {
			log.Error("Failed to store forecasts", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to store forecasts")
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"hours": len(forecasts)})
		log.Info("Forecast refresh finished.", "hours", len(forecasts))
	}
}

// Cron and pub/sub push endpoints

func (s *Server) CleanupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting cleanup...")
		isDryRun := isDryRunFromContext(r)
		if isDryRun {
			log.Info("[Dry Run] Would have pruned past availability, expired sessions and stale forecasts")
			writeJSON(w, http.StatusOK, map[string]int64{})
			return
		}

		now := time.Now().Unix()
		availabilityPruned, err := s.Availability.PruneBefore(now)
		if err != nil {
			log.Error("Failed to prune availability", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to prune availability")
			return
		}
		sessionsPruned, err := s.Sessions.PruneExpired()
		if err != nil {
			log.Error("Failed to prune sessions", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to prune sessions")
			return
		}
		forecastsPruned, err := s.Forecasts.PruneBefore(now)
		if err != nil {
			log.Error("Failed to prune forecasts", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to prune forecasts")
			return
		}

		log.Info("Cleanup finished.", "availability", availabilityPruned, "sessions", sessionsPruned, "forecasts", forecastsPruned)
		writeJSON(w, http.StatusOK, map[string]int64{
			"availability": availabilityPruned,
			"sessions":     sessionsPruned,
			"forecasts":    forecastsPruned,
		})
	}
}

// NotifyMatchHandler is the pub/sub push subscription endpoint for match
// lifecycle events. The push wrapper carries a base64-encoded MessagePack
// payload.
func (s *Server) NotifyMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match notify message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		msg := pubsub.MatchMessage{}
		if err := s.pubsub.ProcessMessage(rawData, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		switch msg.Kind {
		case pubsub.EventMatchConfirmed:
			err = s.Notifier.SendMatchConfirmed(&msg.Event, isDryRun)
		case pubsub.EventMatchRescheduled:
			err = s.Notifier.SendMatchRescheduled(&msg.Event, isDryRun)
		case pubsub.EventMatchCancelled:
			err = s.Notifier.SendMatchCancelled(&msg.Event, isDryRun)
		default:
			log.Warn("Unknown match event kind", "kind", msg.Kind)
			http.Error(w, "Unknown event kind", http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Error("Failed to send match notification", "error", err, "kind", msg.Kind)
			http.Error(w, "Failed to send notification", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
