package handlers

import (
	"net/http"

	"github.com/m32jawad/Arena/internal/middleware"
)

// Routes builds the full HTTP surface. The rfid endpoints are public: kiosks
// and controllers do not authenticate, the RFID tag itself is the
// capability. Everything staff-facing sits behind the auth_token cookie.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	// public: signup, login, kiosk surface
	mux.HandleFunc("POST /api/auth/signup/{$}", a.Signup)
	mux.HandleFunc("POST /api/auth/login/{$}", a.Login)
	mux.HandleFunc("POST /api/auth/logout/{$}", a.Logout)

	mux.HandleFunc("POST /api/auth/rfid/status/{$}", a.RFIDStatus)
	mux.HandleFunc("POST /api/auth/rfid/start/{$}", a.RFIDStart)
	mux.HandleFunc("POST /api/auth/rfid/stop/{$}", a.RFIDStop)
	mux.HandleFunc("POST /api/auth/rfid/checkpoint/{$}", a.RFIDCheckpoint)
	mux.HandleFunc("POST /api/auth/rfid/check-staff/{$}", a.RFIDCheckStaff)
	mux.HandleFunc("GET /api/auth/rfid/station-recent/{$}", a.StationRecent)

	mux.HandleFunc("GET /api/auth/public/leaderboard/{$}", a.Leaderboard)
	mux.HandleFunc("GET /api/auth/public/leaderboard/top/{$}", a.TopLeaderboard)
	mux.HandleFunc("GET /api/auth/public/leaderboard/{id}/rank/{$}", a.PartyRank)
	mux.HandleFunc("GET /api/auth/public/controllers/{$}", a.PublicControllers)
	mux.HandleFunc("GET /api/auth/public/storylines/{$}", a.PublicStorylines)

	mux.HandleFunc("GET /api/ws/live", a.LiveWS)

	// staff
	staff := func(h http.HandlerFunc) http.Handler { return middleware.RequireStaff(h) }
	mux.Handle("GET /api/auth/me/{$}", staff(a.Me))

	mux.Handle("GET /api/auth/pending/{$}", staff(a.PendingList))
	mux.Handle("POST /api/auth/pending/{id}/approve/{$}", staff(a.Approve))
	mux.Handle("POST /api/auth/pending/{id}/reject/{$}", staff(a.Reject))

	mux.Handle("GET /api/auth/sessions/live/{$}", staff(a.LiveSessions))
	mux.Handle("GET /api/auth/sessions/ended/{$}", staff(a.EndedSessions))
	mux.Handle("POST /api/auth/sessions/{id}/end/{$}", staff(a.EndSession))
	mux.Handle("PUT /api/auth/sessions/{id}/update/{$}", staff(a.UpdateSession))
	mux.Handle("DELETE /api/auth/sessions/{id}/{$}", staff(a.DeleteSession))

	mux.Handle("GET /api/auth/controllers/{$}", staff(a.ListControllers))
	mux.Handle("POST /api/auth/controllers/{$}", staff(a.CreateController))
	mux.Handle("PUT /api/auth/controllers/{id}/{$}", staff(a.UpdateController))
	mux.Handle("DELETE /api/auth/controllers/{id}/{$}", staff(a.DeleteController))
	// stations report their own metrics, no cookie involved
	mux.HandleFunc("POST /api/auth/controllers/{id}/metrics/{$}", a.ReportMetrics)

	mux.Handle("GET /api/auth/general-settings/{$}", staff(a.GetSettings))

	mux.Handle("POST /api/auth/storylines/{$}", staff(a.CreateStoryline))
	mux.Handle("PUT /api/auth/storylines/{id}/{$}", staff(a.UpdateStoryline))
	mux.Handle("DELETE /api/auth/storylines/{id}/{$}", staff(a.DeleteStoryline))

	// superuser
	super := func(h http.HandlerFunc) http.Handler { return middleware.RequireSuperuser(h) }
	mux.Handle("PUT /api/auth/general-settings/{$}", super(a.UpdateSettings))

	// manual checkpoint corrections bypass the scoring trail, so only
	// superusers get them
	mux.Handle("POST /api/auth/sessions/{id}/checkpoints/{$}", super(a.AddCheckpoint))
	mux.Handle("DELETE /api/auth/sessions/{id}/checkpoints/{cpid}/{$}", super(a.RemoveCheckpoint))

	mux.Handle("GET /api/auth/staff/{$}", super(a.ListStaff))
	mux.Handle("POST /api/auth/staff/{$}", super(a.CreateStaff))
	mux.Handle("PUT /api/auth/staff/{id}/{$}", super(a.UpdateStaff))
	mux.Handle("POST /api/auth/staff/{id}/toggle-block/{$}", super(a.ToggleBlockStaff))
	mux.Handle("DELETE /api/auth/staff/{id}/{$}", super(a.DeleteStaff))

	return mux
}
