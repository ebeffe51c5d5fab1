// Genius API implementation of [LyricsProvider]
//
// Response types based on https://docs.genius.com/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/hamilmoji/internal/models"
	"github.com/desertthunder/hamilmoji/internal/shared"
	"golang.org/x/oauth2"
)

const (
	geniusBaseURL = "https://api.genius.com"
	tracksPerPage = 50
)

type geniusMeta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// GeniusSong is the song object of the Genius API.
type GeniusSong struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	FullTitle string `json:"full_title"`
	URL       string `json:"url"`
	Path      string `json:"path"`
}

// GeniusAlbum is the album object of the Genius API.
type GeniusAlbum struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FullTitle string `json:"full_title"`
	URL       string `json:"url"`
}

// GeniusTrack is one element of an album's tracklist.
type GeniusTrack struct {
	Number int        `json:"number"`
	Song   GeniusSong `json:"song"`
}

type albumResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Album GeniusAlbum `json:"album"`
	} `json:"response"`
}

type tracksResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Tracks   []GeniusTrack `json:"tracks"`
		NextPage *int          `json:"next_page"`
	} `json:"response"`
}

type songResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Song GeniusSong `json:"song"`
	} `json:"response"`
}

// GeniusOpts configures a [GeniusService].
type GeniusOpts struct {
	AccessToken string
	BaseURL     string       // defaults to https://api.genius.com
	HTTPClient  *http.Client // base client wrapped by the bearer-token transport
}

// GeniusService implements [LyricsProvider] against the Genius REST API.
//
// The API returns song metadata only; lyrics are read from the song's web page.
type GeniusService struct {
	baseURL    string
	httpClient *http.Client // API requests, bearer-token transport
	pageClient *http.Client // song pages on genius.com, no credentials
}

// NewGeniusService creates a Genius client authenticating every request with the access token.
func NewGeniusService(opts GeniusOpts) (*GeniusService, error) {
	if opts.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing genius access token", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = geniusBaseURL
	}

	pageClient := http.DefaultClient
	ctx := context.Background()
	if opts.HTTPClient != nil {
		pageClient = opts.HTTPClient
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"})

	return &GeniusService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: oauth2.NewClient(ctx, src),
		pageClient: pageClient,
	}, nil
}

func (g *GeniusService) Name() string {
	return "Genius"
}

// Album retrieves album metadata and walks every tracklist page.
func (g *GeniusService) Album(ctx context.Context, albumID int64) (*models.Album, error) {
	var album albumResponse
	if err := g.getJSON(ctx, fmt.Sprintf("/albums/%d", albumID), &album); err != nil {
		return nil, err
	}

	result := &models.Album{
		ID:   album.Response.Album.ID,
		Name: album.Response.Album.Name,
	}

	for page := 1; ; {
		var tracks tracksResponse
		endpoint := fmt.Sprintf("/albums/%d/tracks?per_page=%d&page=%d", albumID, tracksPerPage, page)
		if err := g.getJSON(ctx, endpoint, &tracks); err != nil {
			return nil, err
		}

		for _, tr := range tracks.Response.Tracks {
			result.Tracks = append(result.Tracks, models.Track{
				Number: tr.Number,
				SongID: tr.Song.ID,
				Title:  tr.Song.Title,
			})
		}

		next := tracks.Response.NextPage
		if next == nil || *next <= page {
			break
		}
		page = *next
	}

	return result, nil
}

// Song retrieves song metadata, then downloads the song page and extracts its lyrics.
func (g *GeniusService) Song(ctx context.Context, songID int64) (*models.Song, error) {
	var song songResponse
	if err := g.getJSON(ctx, fmt.Sprintf("/songs/%d", songID), &song); err != nil {
		return nil, err
	}

	pageURL := song.Response.Song.URL
	if pageURL == "" {
		return nil, fmt.Errorf("%w: song %d has no page URL", shared.ErrLyricsNotFound, songID)
	}

	lyrics, err := g.pageLyrics(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("song %d: %w", songID, err)
	}

	return &models.Song{
		ExternalID: song.Response.Song.ID,
		Title:      song.Response.Song.Title,
		Lyrics:     lyrics,
	}, nil
}

func (g *GeniusService) getJSON(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Meta geniusMeta `json:"meta"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Meta.Message != "" {
			return fmt.Errorf("%w: genius %s: status %d: %s", shared.ErrAPIRequest, endpoint, resp.StatusCode, errResp.Meta.Message)
		}
		return fmt.Errorf("%w: genius %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (g *GeniusService) pageLyrics(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := g.pageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: song page %s: status %d", shared.ErrAPIRequest, pageURL, resp.StatusCode)
	}

	return ExtractLyrics(resp.Body)
}
