package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/palmithor/scorebrawl/internal/apperror"
	"github.com/palmithor/scorebrawl/internal/httputil"
	"github.com/palmithor/scorebrawl/internal/middleware"
	"github.com/palmithor/scorebrawl/internal/service"
)

func (a *app) routes(sessionManager *scs.SessionManager, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(sessionManager, a.users))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", a.metrics.Handler())

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		gothic.BeginAuthHandler(w, withProvider(r))
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		user, err := a.users.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.Error(w, "Failed to find or create user", err)
			return
		}
		if err := middleware.Login(r.Context(), sessionManager, user.ID); err != nil {
			httputil.InternalServerError(w, "Failed to start session", err)
			return
		}
		httputil.JSON(w, http.StatusOK, user)
	})

	r.With(middleware.RateLimit(limiter)).Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if r.ContentLength != 0 {
			if err := httputil.DecodeJSON(w, r, &body); err != nil {
				httputil.Error(w, "Invalid request body", err)
				return
			}
		}

		user, err := a.users.CreateGuestUser(r.Context(), body.Name)
		if err != nil {
			httputil.Error(w, "Failed to login as guest", err)
			return
		}
		if err := middleware.Login(r.Context(), sessionManager, user.ID); err != nil {
			httputil.InternalServerError(w, "Failed to start session", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, user)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := middleware.Logout(r.Context(), sessionManager); err != nil {
			httputil.InternalServerError(w, "Failed to end session", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, middleware.GetAuthenticatedUser(r.Context()))
		})

		r.Get("/leagues/{leagueID}", a.getLeague)
		r.Get("/seasons/{seasonID}", a.getSeason)
		r.Get("/seasons/{seasonID}/players", a.listSeasonPlayers)
		r.Get("/seasons/{seasonID}/standing", a.getStanding)
		r.Get("/seasons/{seasonID}/teams/standing", a.getTeamStanding)
		r.Get("/seasons/{seasonID}/matches", a.listMatches)
		r.Get("/season-players/{seasonPlayerID}/point-diff", a.getPointDiff)
		r.Get("/league-players/{leaguePlayerID}/achievements", a.listAchievements)
		r.Get("/notifications", a.listNotifications)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter))

			r.Post("/leagues", a.createLeague)
			r.Post("/leagues/join", a.joinLeague)
			r.Post("/leagues/{leagueID}/archive", a.archiveLeague)
			r.Post("/leagues/{leagueID}/seasons", a.createSeason)
			r.Put("/league-players/{leaguePlayerID}/disabled", a.setPlayerDisabled)
			r.Post("/seasons/{seasonID}/matches", a.createMatch)
			r.Delete("/matches/{matchID}", a.deleteMatch)
		})
	})

	return r
}

// gothic looks the provider up under the plain "provider" context key.
func withProvider(r *http.Request) *http.Request {
	provider := chi.URLParam(r, "provider")
	return r.WithContext(context.WithValue(r.Context(), "provider", provider))
}

// uuidParam parses a URL parameter, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func actor(r *http.Request) uuid.UUID {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

func (a *app) createLeague(w http.ResponseWriter, r *http.Request) {
	var in service.CreateLeagueInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.Error(w, "Invalid request body", err)
		return
	}
	in.UserID = actor(r)

	l, err := a.leagues.CreateLeague(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create league", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, l)
}

func (a *app) getLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := uuidParam(w, r, "leagueID")
	if !ok {
		return
	}
	l, err := a.leagues.GetLeague(r.Context(), leagueID, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to get league", err)
		return
	}
	httputil.JSON(w, http.StatusOK, l)
}

func (a *app) joinLeague(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := httputil.DecodeJSON(w, r, &body); err != nil {
		httputil.Error(w, "Invalid request body", err)
		return
	}

	member, err := a.leagues.JoinLeague(r.Context(), body.Code, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to join league", err)
		return
	}
	httputil.JSON(w, http.StatusOK, member)
}

func (a *app) archiveLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := uuidParam(w, r, "leagueID")
	if !ok {
		return
	}
	if err := a.leagues.ArchiveLeague(r.Context(), leagueID, actor(r)); err != nil {
		httputil.Error(w, "Failed to archive league", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) setPlayerDisabled(w http.ResponseWriter, r *http.Request) {
	leaguePlayerID, ok := uuidParam(w, r, "leaguePlayerID")
	if !ok {
		return
	}
	var body struct {
		Disabled bool `json:"disabled"`
	}
	if err := httputil.DecodeJSON(w, r, &body); err != nil {
		httputil.Error(w, "Invalid request body", err)
		return
	}

	player, err := a.leagues.SetPlayerDisabled(r.Context(), leaguePlayerID, body.Disabled, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to update league player", err)
		return
	}
	httputil.JSON(w, http.StatusOK, player)
}

func (a *app) createSeason(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := uuidParam(w, r, "leagueID")
	if !ok {
		return
	}
	var in service.CreateSeasonInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.Error(w, "Invalid request body", err)
		return
	}
	in.LeagueID = leagueID
	in.UserID = actor(r)

	season, err := a.seasons.CreateSeason(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create season", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, season)
}

func (a *app) getSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	season, err := a.seasons.GetSeason(r.Context(), seasonID, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to get season", err)
		return
	}
	httputil.JSON(w, http.StatusOK, season)
}

func (a *app) listSeasonPlayers(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	players, err := a.seasons.ListSeasonPlayers(r.Context(), seasonID, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list season players", err)
		return
	}
	httputil.JSON(w, http.StatusOK, players)
}

func (a *app) getStanding(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	rows, err := a.standings.Standing(r.Context(), seasonID, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to get standing", err)
		return
	}
	httputil.JSON(w, http.StatusOK, rows)
}

func (a *app) getTeamStanding(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	rows, err := a.standings.TeamStanding(r.Context(), seasonID, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to get team standing", err)
		return
	}
	httputil.JSON(w, http.StatusOK, rows)
}

func (a *app) createMatch(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	var in service.CreateMatchInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.Error(w, "Invalid request body", err)
		return
	}
	in.SeasonID = seasonID
	in.UserID = actor(r)

	m, err := a.matches.CreateMatch(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create match", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, m)
}

func (a *app) listMatches(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		httputil.BadRequest(w, "Invalid limit", err)
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		httputil.BadRequest(w, "Invalid offset", err)
		return
	}

	matches, err := a.matches.ListMatches(r.Context(), seasonID, actor(r), limit, offset)
	if err != nil {
		httputil.Error(w, "Failed to list matches", err)
		return
	}
	httputil.JSON(w, http.StatusOK, matches)
}

func (a *app) deleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := uuidParam(w, r, "matchID")
	if !ok {
		return
	}
	if err := a.matches.DeleteMatch(r.Context(), matchID, actor(r)); err != nil {
		httputil.Error(w, "Failed to delete match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) getPointDiff(w http.ResponseWriter, r *http.Request) {
	seasonPlayerID, ok := uuidParam(w, r, "seasonPlayerID")
	if !ok {
		return
	}
	from, err := timeQuery(r, "from")
	if err != nil {
		httputil.BadRequest(w, "Invalid from, expected RFC3339", err)
		return
	}
	to, err := timeQuery(r, "to")
	if err != nil {
		httputil.BadRequest(w, "Invalid to, expected RFC3339", err)
		return
	}

	diff, err := a.standings.PointDiff(r.Context(), seasonPlayerID, actor(r), from, to)
	if err != nil {
		httputil.Error(w, "Failed to get point diff", err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]int{"pointDiff": diff})
}

func (a *app) listAchievements(w http.ResponseWriter, r *http.Request) {
	leaguePlayerID, ok := uuidParam(w, r, "leaguePlayerID")
	if !ok {
		return
	}
	achievements, err := a.achievements.ListAchievements(r.Context(), leaguePlayerID, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list achievements", err)
		return
	}
	httputil.JSON(w, http.StatusOK, achievements)
}

func (a *app) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := a.achievements.ListNotifications(r.Context(), actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list notifications", err)
		return
	}
	httputil.JSON(w, http.StatusOK, notifications)
}

func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperror.Wrap(apperror.KindBadRequest, "invalid "+name, err)
	}
	return n, nil
}

// timeQuery returns the zero time for a missing parameter.
func timeQuery(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
