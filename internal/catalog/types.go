package catalog

// Movie represents a movie listed by the catalog API.
// Page is not part of the remote schema; it records which cached page the
// movie belongs to and is assigned by the repository.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Page         int     `json:"-"`
}

// DataModel is the paged envelope every listing endpoint responds with.
type DataModel struct {
	Page int     `json:"page"`
	Data []Movie `json:"data"`
}

// Movies returns the envelope contents, treating absent data as empty.
func (d *DataModel) Movies() []Movie {
	if d == nil || d.Data == nil {
		return []Movie{}
	}
	return d.Data
}

// errorResponse is the error body returned with non-2xx responses.
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// ratingRequest is the body posted to the rating endpoint.
type ratingRequest struct {
	Value float64 `json:"value"`
}
