package admin

import (
	"encoding/json"
	"net/http"
)

// StatsResponse /stats 的 JSON
type StatsResponse struct {
	Rooms          int   `json:"rooms"`
	Playing        int   `json:"playing"`
	ConnectedSeats int   `json:"connectedSeats"`
	Spectators     int   `json:"spectators"`
	Sessions       int64 `json:"sessions"`
}

// RegisterHTTP 在 mux 上掛載 /healthz 與 /stats
func RegisterHTTP(mux *http.ServeMux, rooms RoomAdmin, sessions SessionAdmin) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, _ *http.Request) {
		st := rooms.Stats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(StatsResponse{
			Rooms:          st.Rooms,
			Playing:        st.Playing,
			ConnectedSeats: st.ConnectedSeats,
			Spectators:     st.Spectators,
			Sessions:       sessions.Count(),
		})
	})
}
