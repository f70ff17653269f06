package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zenkai-arena/tournament-server/services"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
}

func NewTournamentHandler(ts *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// RegisterPlayerHandler handles POST /tournaments/players
func (h *TournamentHandler) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.tournamentService.RegisterPlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemovePlayerHandler handles DELETE /tournaments/players/{playerID}
func (h *TournamentHandler) RemovePlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	if playerID == "" {
		badRequestResponse(w, r, errors.New("missing playerID parameter"))
		return
	}

	if err := h.tournamentService.RemovePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RosterHandler handles GET /tournaments/players
func (h *TournamentHandler) RosterHandler(w http.ResponseWriter, r *http.Request) {
	roster := h.tournamentService.Roster()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": roster}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetupSuggestionHandler handles GET /tournaments/setup?players=N
func (h *TournamentHandler) SetupSuggestionHandler(w http.ResponseWriter, r *http.Request) {
	playerCount := len(h.tournamentService.Roster())
	if raw := r.URL.Query().Get("players"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequestResponse(w, r, errors.New("invalid players query parameter"))
			return
		}
		playerCount = n
	}

	suggestion := services.SuggestSetup(playerCount)
	minGroups, maxGroups := services.GroupCountRange(playerCount)

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"suggestion": suggestion,
		"minGroups":  minGroups,
		"maxGroups":  maxGroups,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /tournaments
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	var input services.StartConfig
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Start(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentHandler handles GET /tournaments/current
func (h *TournamentHandler) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.Current()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DashboardHandler handles GET /tournaments/dashboard
func (h *TournamentHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.tournamentService.Dashboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dashboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceHandler handles POST /tournaments/advance
func (h *TournamentHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.AdvanceRound(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartTimerHandler handles POST /tournaments/timer/start
func (h *TournamentHandler) StartTimerHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.StartRoundTimer(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetTimerHandler handles POST /tournaments/timer/reset
func (h *TournamentHandler) ResetTimerHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.ResetRoundTimer(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FreeTimeHandler handles POST /tournaments/timer/free
func (h *TournamentHandler) FreeTimeHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.EnableFreeTime(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EndHandler handles DELETE /tournaments/current
func (h *TournamentHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.End(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StandingsHandler handles GET /tournaments/standings
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tournamentService.Standings()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BracketHandler handles GET /tournaments/bracket
func (h *TournamentHandler) BracketHandler(w http.ResponseWriter, r *http.Request) {
	bracket, err := h.tournamentService.Bracket()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// QualificationHandler handles GET /tournaments/qualification
func (h *TournamentHandler) QualificationHandler(w http.ResponseWriter, r *http.Request) {
	qualification, err := h.tournamentService.Qualification()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"qualification": qualification}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
