package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (wheel, progress and notice pushes)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Wheel
	mux.HandleFunc("/api/wheel", s.app.WheelHandler.GetWheelHandler)         // GET - current options and overlay
	mux.HandleFunc("/api/wheel/restaurants", s.app.WheelHandler.RestaurantsHandler) // GET - deduped records with price and distance
	mux.HandleFunc("/api/wheel/refresh", s.app.WheelHandler.RefreshHandler) // POST - start a fetch cycle
	mux.HandleFunc("/api/wheel/select", s.app.WheelHandler.SelectHandler)   // POST - record where the spin landed

	// API routes - Settings
	mux.HandleFunc("/api/settings", s.handleSettingsRoute) // GET, PUT|POST

	// API routes - History
	mux.HandleFunc("/api/history", s.handleHistoryRoute) // GET, DELETE

	// API routes - Location (browser geolocation reports)
	mux.HandleFunc("/api/location", s.app.LocationHandler.ReportLocationHandler)

	// API routes - Stored API keys
	mux.HandleFunc("/api/keys/", s.handleKeyRoutes) // GET/PUT/DELETE /{key}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

func (s *Server) handleSettingsRoute(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		http.MethodGet:  s.app.SettingsHandler.GetSettingsHandler,
		http.MethodPut:  s.app.SettingsHandler.SaveSettingsHandler,
		http.MethodPost: s.app.SettingsHandler.SaveSettingsHandler,
	})
}

func (s *Server) handleHistoryRoute(w http.ResponseWriter, r *http.Request) {
	RouteCollectionClear(w, r, s.app.HistoryHandler.ListHistoryHandler, s.app.HistoryHandler.ClearHistoryHandler)
}

func (s *Server) handleKeyRoutes(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r,
		s.app.KVHandler.GetKeyHandler,
		s.app.KVHandler.SetKeyHandler,
		s.app.KVHandler.DeleteKeyHandler,
	)
}
