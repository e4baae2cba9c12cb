package server

import "net/http"

// registerRoutes wires all HTTP endpoints through the CORS middleware.
func (s *DeckServer) registerRoutes() {
	s.mux.HandleFunc("POST /api/decks/{id}/generate", s.corsMiddleware(s.handleGenerate))
	s.mux.HandleFunc("POST /api/decks/{id}/resume", s.corsMiddleware(s.handleResume))
	s.mux.HandleFunc("GET /api/decks/{id}/status", s.corsMiddleware(s.handleStatus))
	s.mux.HandleFunc("GET /api/health", s.corsMiddleware(s.handleHealth))
	s.mux.HandleFunc("/ws/progress", s.corsMiddleware(s.handleProgressWebSocket))

	// Preflight for the deck endpoints above.
	s.mux.HandleFunc("OPTIONS /api/", s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {}))
}

func (s *DeckServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// If origin is present and allowed by config, set CORS headers
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// originAllowed reports whether the origin may use the API. An empty
// allowlist admits everything, which suits local single-user use.
func (s *DeckServer) originAllowed(origin string) bool {
	if len(s.allowedOrigins) == 0 {
		return true
	}
	return s.allowedOrigins[origin]
}
