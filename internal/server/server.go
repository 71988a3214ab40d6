package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dota-custom-stats/internal/constants"
	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/rating"
	"dota-custom-stats/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// StatsServer exposes the match lifecycle API consumed by dedicated game
// servers.
type StatsServer struct {
	autoPickSvc    *service.AutoPickService
	preMatchSvc    *service.PreMatchService
	postMatchSvc   *service.PostMatchService
	eventSvc       *service.EventService
	leaderboardSvc *service.LeaderboardService
	ratingHistory  service.RatingHistoryStore
	logger         zerolog.Logger
}

func NewStatsServer(
	autoPickSvc *service.AutoPickService,
	preMatchSvc *service.PreMatchService,
	postMatchSvc *service.PostMatchService,
	eventSvc *service.EventService,
	leaderboardSvc *service.LeaderboardService,
	ratingHistory service.RatingHistoryStore,
	logger zerolog.Logger,
) *StatsServer {
	return &StatsServer{
		autoPickSvc:    autoPickSvc,
		preMatchSvc:    preMatchSvc,
		postMatchSvc:   postMatchSvc,
		eventSvc:       eventSvc,
		leaderboardSvc: leaderboardSvc,
		ratingHistory:  ratingHistory,
		logger:         logger,
	}
}

// Register mounts every route on the given router. Authentication wraps
// the router upstream in main.
func (s *StatsServer) Register(r *mux.Router) {
	r.HandleFunc("/api/match/auto-pick", s.handleAutoPick).Methods(http.MethodPost)
	r.HandleFunc("/api/match/before", s.handleBefore).Methods(http.MethodPost)
	r.HandleFunc("/api/match/after", s.handleAfter).Methods(http.MethodPost)
	r.HandleFunc("/api/match/events", s.handleDrainEvents).Methods(http.MethodPost)
	r.HandleFunc("/api/events", s.handleEnqueueEvent).Methods(http.MethodPost)
	r.HandleFunc("/api/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{steam_id}/rating-history", s.handleRatingHistory).Methods(http.MethodGet)
}

func (s *StatsServer) handleAutoPick(w http.ResponseWriter, r *http.Request) {
	var req autoPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	steamIDs, err := parseSteamIDs(req.Players)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	suggestions, err := s.autoPickSvc.Suggest(r.Context(), req.MapName, req.SelectedHeroes, steamIDs)
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "failed to compute suggestions")
		return
	}

	resp := autoPickResponse{Players: make([]autoPickPlayer, len(suggestions))}
	for i, sg := range suggestions {
		resp.Players[i] = autoPickPlayer{
			SteamID: formatSteamID(sg.SteamID),
			Heroes:  sg.Heroes,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *StatsServer) handleBefore(w http.ResponseWriter, r *http.Request) {
	var req beforeMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	steamIDs, err := parseSteamIDs(req.Players)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.preMatchSvc.Before(r.Context(), req.CustomGame, req.MapName, steamIDs)
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "failed to build pre-match view")
		return
	}

	resp := beforeMatchResponse{
		Players:     make([]beforeMatchPlayer, len(result.Players)),
		Leaderboard: toLeaderboardDTO(result.Leaderboard),
	}
	for i, p := range result.Players {
		resp.Players[i] = toBeforeMatchPlayerDTO(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *StatsServer) handleAfter(w http.ResponseWriter, r *http.Request) {
	var req afterMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MatchID == 0 || len(req.Players) == 0 {
		writeError(w, s.logger, http.StatusBadRequest, "match_id and players are required")
		return
	}

	report := service.MatchReport{
		CustomGame: req.CustomGame,
		MatchID:    req.MatchID,
		MapName:    req.MapName,
		Winner:     req.Winner,
		Duration:   req.Duration,
		Players:    make([]service.MatchReportPlayer, len(req.Players)),
	}
	for i, p := range req.Players {
		steamID, err := strconv.ParseUint(p.SteamID, 10, 64)
		if err != nil {
			writeError(w, s.logger, http.StatusBadRequest, "invalid steam id "+strconv.Quote(p.SteamID))
			return
		}
		rp := service.MatchReportPlayer{
			PlayerID:   p.PlayerID,
			SteamID:    steamID,
			Team:       p.Team,
			Hero:       p.Hero,
			PickReason: p.PickReason,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Assists:    p.Assists,
			Level:      p.Level,
		}
		if p.PatreonUpdate != nil {
			rp.PatreonUpdate = &domain.PatreonUpdate{
				EmblemEnabled:      p.PatreonUpdate.EmblemEnabled,
				EmblemColor:        p.PatreonUpdate.EmblemColor,
				BootsEnabled:       p.PatreonUpdate.BootsEnabled,
				ChatWheelFavorites: p.PatreonUpdate.ChatWheelFavorites,
			}
		}
		report.Players[i] = rp
	}

	board, err := s.postMatchSvc.After(r.Context(), report)
	if err != nil {
		if errors.Is(err, rating.ErrInvalidTeamComposition) {
			writeError(w, s.logger, http.StatusBadRequest, "invalid team composition")
			return
		}
		writeError(w, s.logger, http.StatusInternalServerError, "failed to record match")
		return
	}

	writeJSON(w, http.StatusOK, afterMatchResponse{Leaderboard: toLeaderboardDTO(board)})
}

func (s *StatsServer) handleDrainEvents(w http.ResponseWriter, r *http.Request) {
	var req matchEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	bodies, err := s.eventSvc.Drain(r.Context(), req.MatchID)
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "failed to drain events")
		return
	}

	events := make([]json.RawMessage, len(bodies))
	for i, b := range bodies {
		events[i] = json.RawMessage(b)
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *StatsServer) handleEnqueueEvent(w http.ResponseWriter, r *http.Request) {
	var req enqueueEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MatchID == 0 || req.Body == "" {
		writeError(w, s.logger, http.StatusBadRequest, "match_id and body are required")
		return
	}
	// drained bodies are re-emitted verbatim inside a JSON array, so a
	// non-JSON body would corrupt the drain response after its events are
	// already deleted
	if !json.Valid([]byte(req.Body)) {
		writeError(w, s.logger, http.StatusBadRequest, "body must be valid JSON")
		return
	}

	id, err := s.eventSvc.Enqueue(r.Context(), req.MatchID, req.Body)
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "failed to enqueue event")
		return
	}
	writeJSON(w, http.StatusOK, enqueueEventResponse{ID: id})
}

func (s *StatsServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.leaderboardSvc.Top(r.Context())
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardDTO(board))
}

func (s *StatsServer) handleRatingHistory(w http.ResponseWriter, r *http.Request) {
	steamID, err := strconv.ParseUint(mux.Vars(r)["steam_id"], 10, 64)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid steam id")
		return
	}

	records, err := s.ratingHistory.GetBySteamID(r.Context(), steamID, constants.RatingHistoryLimit)
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "failed to fetch rating history")
		return
	}

	entries := make([]ratingHistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = ratingHistoryEntry{
			MatchID:   rec.MatchID,
			OldRating: rec.OldRating,
			NewRating: rec.NewRating,
			Delta:     rec.Delta,
			CreatedAt: rec.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}
