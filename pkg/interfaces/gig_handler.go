package interfaces

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

// SnapshotReader provides the published gig list. Implemented by
// snapshot.Store.
type SnapshotReader interface {
	Read() ([]domain.Gig, error)
}

// GigHandler serves the upcoming-gigs table over the snapshot. A missing
// or unreadable snapshot renders an empty table; the handler never fails
// because of it.
type GigHandler struct {
	snapshots SnapshotReader
	logger    zerolog.Logger
	template  *template.Template
}

func NewGigHandler(snapshots SnapshotReader, logger zerolog.Logger) *GigHandler {
	return &GigHandler{
		snapshots: snapshots,
		logger:    logger,
		template:  template.Must(template.New("gigs").Parse(gigsPage)),
	}
}

func (h *GigHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/api/gigs", h.ListGigs).Methods("GET")
}

func (h *GigHandler) Index(w http.ResponseWriter, r *http.Request) {
	gigs := h.loadGigs()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, gigs); err != nil {
		h.logger.Error().Err(err).Msg("failed to render gigs page")
	}
}

func (h *GigHandler) ListGigs(w http.ResponseWriter, r *http.Request) {
	gigs := h.loadGigs()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(gigs); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode gigs response")
	}
}

func (h *GigHandler) loadGigs() []domain.Gig {
	gigs, err := h.snapshots.Read()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load gigs snapshot")
		return []domain.Gig{}
	}
	return gigs
}

const gigsPage = `<!DOCTYPE html>
<html>
<head>
    <title>Upcoming Gigs</title>
    <link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.5.2/css/bootstrap.min.css">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body, table, th, td { text-align: center; }
        body { background-color: #f8f9fa; padding: 20px; }
        h1 { margin-bottom: 30px; }
        .spotify-embed iframe { width: 300px; height: 80px; }
        table { width: 100%; }
        thead.thead-dark th { background-color: #000 !important; color: #fff !important; }
    </style>
</head>
<body>
    <div class="container">
        <h1 class="text-center">Upcoming Gigs</h1>
        <table class="table table-bordered table-hover">
            <thead class="thead-dark">
                <tr>
                    <th>Date</th>
                    <th><strong>Title</strong></th>
                    <th>Location</th>
                    <th>Spotify</th>
                    <th>Genre</th>
                </tr>
            </thead>
            <tbody>
                {{range .}}
                <tr>
                    <td>{{.DisplayDate}}</td>
                    <td>
                        {{if .SocialLink}}
                            <a href="{{.SocialLink}}" target="_blank"><strong>{{.Title}}</strong></a>
                        {{else}}
                            <strong>{{.Title}}</strong>
                        {{end}}
                    </td>
                    <td>
                        {{if .DetailsURL}}
                            <a href="{{.DetailsURL}}" target="_blank">{{.Location}}</a>
                        {{else}}
                            {{.Location}}
                        {{end}}
                    </td>
                    <td>
                        {{if .TopTrackID}}
                            <div class="spotify-embed">
                                <iframe src="https://open.spotify.com/embed/track/{{.TopTrackID}}" frameborder="0" allowtransparency="true" allow="encrypted-media"></iframe>
                            </div>
                        {{else}}
                            N/A
                        {{end}}
                    </td>
                    <td>{{if .Genre}}{{.Genre}}{{else}}N/A{{end}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
</body>
</html>
`
