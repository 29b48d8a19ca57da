package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cirrusops/conversation-miner/internal/infrastructure/cache"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/platform"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

const (
	retryAttempts = 6

	// Refresh the token 60 seconds before it actually expires to avoid
	// edge-case failures during in-flight requests.
	tokenRefreshBuffer = 60 * time.Second

	directoryCacheKey = "zoom:user_directory"
)

// Recording types that represent downloadable media files.
var mediaRecordingTypes = map[string]bool{
	"shared_screen_with_speaker_view": true,
	"audio_only":                      true,
	"shared_screen":                   true,
}

// Content-type mapping for media uploads.
var mediaContentTypes = map[string]string{
	"MP4": "video/mp4",
	"M4A": "audio/mp4",
}

// Client is a Zoom API client using Server-to-Server OAuth. The access token
// is cached, refreshed early under a single-flight discipline, and attached
// to every request including transcript and media downloads.
type Client struct {
	baseURL      string
	http         *http.Client
	download     *http.Client
	directory    cache.Store
	directoryTTL time.Duration

	retryInitial time.Duration
	retryMax     time.Duration
}

// tokenFetcher requests a fresh token on every call. Caching, early refresh,
// and single-flight live in the reuse source wrapped around it.
type tokenFetcher struct {
	ctx  context.Context
	conf *clientcredentials.Config
}

func (f *tokenFetcher) Token() (*oauth2.Token, error) {
	return f.conf.Token(f.ctx)
}

// NewClient creates a Zoom client using values from the provided config
func NewClient(cfg *config.ZoomConfig, directory cache.Store, directoryTTL time.Duration) *Client {
	if directory == nil {
		directory = cache.NewMemoryStore()
	}

	// Zoom's server-to-server flow is client-credentials shaped but uses
	// grant_type=account_credentials, which the oauth2 package allows as an
	// endpoint param override.
	conf := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.OAuthURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {cfg.AccountID},
		},
	}

	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient,
		&http.Client{Timeout: 30 * time.Second})
	source := oauth2.ReuseTokenSourceWithExpiry(nil, &tokenFetcher{ctx: tokenCtx, conf: conf}, tokenRefreshBuffer)

	apiClient := oauth2.NewClient(tokenCtx, source)
	apiClient.Timeout = 30 * time.Second
	downloadClient := oauth2.NewClient(tokenCtx, source)
	downloadClient.Timeout = 10 * time.Minute

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		http:         apiClient,
		download:     downloadClient,
		directory:    directory,
		directoryTTL: directoryTTL,
		retryInitial: 1 * time.Second,
		retryMax:     30 * time.Second,
	}
}

type recordingsResponse struct {
	Meetings      []json.RawMessage `json:"meetings"`
	NextPageToken string            `json:"next_page_token"`
}

type zoomMeeting struct {
	UUID           string          `json:"uuid"`
	ID             json.Number     `json:"id"`
	Topic          string          `json:"topic"`
	StartTime      string          `json:"start_time"`
	Duration       int             `json:"duration"`
	HostID         string          `json:"host_id"`
	HostEmail      string          `json:"host_email"`
	RecordingFiles []recordingFile `json:"recording_files"`
}

type recordingFile struct {
	RecordingType string `json:"recording_type"`
	FileExtension string `json:"file_extension"`
	FileSize      int64  `json:"file_size"`
	DownloadURL   string `json:"download_url"`
}

type participantsResponse struct {
	Participants []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		UserEmail string `json:"user_email"`
	} `json:"participants"`
	NextPageToken string `json:"next_page_token"`
}

type usersResponse struct {
	Users []struct {
		ID          string `json:"id"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	} `json:"users"`
	NextPageToken string `json:"next_page_token"`
}

// ListRecordings fetches a page of cloud recordings via
// GET /v2/users/me/recordings. Date bounds use YYYY-MM-DD.
func (c *Client) ListRecordings(ctx context.Context, from time.Time, to time.Time, pageToken string) (*platform.Page, error) {
	params := url.Values{}
	if !from.IsZero() {
		params.Set("from", from.UTC().Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("to", to.UTC().Format("2006-01-02"))
	}
	if pageToken != "" {
		params.Set("next_page_token", pageToken)
	}

	path := "/v2/users/me/recordings"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	data, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list zoom recordings: %w", err)
	}

	var resp recordingsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode zoom recordings response: %w", err)
	}

	// Directory lookups only enrich host identity; without them the raw
	// host id stands in for the name.
	users, _ := c.userDirectory(ctx)

	page := &platform.Page{NextToken: resp.NextPageToken}
	for _, raw := range resp.Meetings {
		rec, err := mapMeeting(raw, users)
		if err != nil {
			return nil, err
		}
		page.Recordings = append(page.Recordings, rec)
	}

	return page, nil
}

// GetParticipants fetches the attendee list for a past meeting, following
// pagination until exhausted
func (c *Client) GetParticipants(ctx context.Context, rec *platform.Recording) ([]platform.Participant, error) {
	var participants []platform.Participant
	nextToken := ""

	for {
		path := "/v2/past_meetings/" + url.PathEscape(rec.ExternalID) + "/participants"
		if nextToken != "" {
			path += "?next_page_token=" + url.QueryEscape(nextToken)
		}

		data, err := c.do(ctx, http.MethodGet, path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch zoom participants for meeting %s: %w", rec.ExternalID, err)
		}

		var resp participantsResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode zoom participants response: %w", err)
		}

		for _, p := range resp.Participants {
			participants = append(participants, platform.Participant{
				Name:      p.Name,
				Email:     p.UserEmail,
				SpeakerID: p.ID,
			})
		}

		nextToken = resp.NextPageToken
		if nextToken == "" {
			break
		}
	}

	return participants, nil
}

// GetTranscript downloads the VTT transcript artifact discovered at listing
// time. Returns nil when the recording has no transcript file.
func (c *Client) GetTranscript(ctx context.Context, rec *platform.Recording) (*platform.TranscriptPayload, error) {
	if rec.TranscriptURL == "" {
		return nil, nil
	}

	data, err := c.do(ctx, http.MethodGet, rec.TranscriptURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download zoom transcript for meeting %s: %w", rec.ExternalID, err)
	}

	return &platform.TranscriptPayload{
		Format: platform.TranscriptFormatVTT,
		Raw:    string(data),
	}, nil
}

// ListMedia returns the media artifacts parsed from the recording listing
func (c *Client) ListMedia(ctx context.Context, rec *platform.Recording) ([]platform.MediaArtifact, error) {
	return rec.Media, nil
}

// DownloadMedia fetches a recording file's bytes
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	data, err := c.doWith(ctx, c.download, http.MethodGet, mediaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download zoom media: %w", err)
	}
	return data, nil
}

// userDirectory returns account users keyed by id, paginating GET /v2/users
// and caching the result
func (c *Client) userDirectory(ctx context.Context) (map[string]platform.DirectoryUser, error) {
	if cached, ok := c.directory.Get(directoryCacheKey); ok {
		var users map[string]platform.DirectoryUser
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
	}

	users := make(map[string]platform.DirectoryUser)
	nextToken := ""
	for {
		path := "/v2/users?page_size=300"
		if nextToken != "" {
			path += "&next_page_token=" + url.QueryEscape(nextToken)
		}

		data, err := c.do(ctx, http.MethodGet, path)
		if err != nil {
			return nil, err
		}

		var resp usersResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode zoom users response: %w", err)
		}

		for _, u := range resp.Users {
			name := u.DisplayName
			if name == "" {
				name = strings.TrimSpace(u.FirstName + " " + u.LastName)
			}
			users[u.ID] = platform.DirectoryUser{ID: u.ID, Name: name, Email: u.Email}
		}

		nextToken = resp.NextPageToken
		if nextToken == "" {
			break
		}
	}

	if encoded, err := json.Marshal(users); err == nil {
		c.directory.Set(directoryCacheKey, string(encoded), c.directoryTTL)
	}

	return users, nil
}

// mapMeeting transforms a raw recording payload into a canonical recording,
// splitting recording files into the transcript artifact and media files.
func mapMeeting(raw json.RawMessage, users map[string]platform.DirectoryUser) (platform.Recording, error) {
	var meeting zoomMeeting
	if err := json.Unmarshal(raw, &meeting); err != nil {
		return platform.Recording{}, fmt.Errorf("failed to decode zoom meeting: %w", err)
	}

	var rawMeta map[string]interface{}
	if err := json.Unmarshal(raw, &rawMeta); err != nil {
		return platform.Recording{}, fmt.Errorf("failed to decode zoom meeting metadata: %w", err)
	}

	externalID := meeting.UUID
	if externalID == "" {
		externalID = meeting.ID.String()
	}

	rec := platform.Recording{
		ExternalID:      externalID,
		Title:           meeting.Topic,
		DurationSeconds: meeting.Duration * 60, // Zoom reports minutes
		HostName:        meeting.HostID,
		HostEmail:       meeting.HostEmail,
		Raw:             rawMeta,
	}

	if host, ok := users[meeting.HostID]; ok {
		rec.HostName = host.Name
		if rec.HostEmail == "" {
			rec.HostEmail = host.Email
		}
	}

	if started, err := time.Parse(time.RFC3339, meeting.StartTime); err == nil {
		rec.StartedAt = &started
		if rec.DurationSeconds > 0 {
			ended := started.Add(time.Duration(rec.DurationSeconds) * time.Second)
			rec.EndedAt = &ended
		}
	}

	for _, rf := range meeting.RecordingFiles {
		if rf.DownloadURL == "" {
			continue
		}

		if rf.RecordingType == "audio_transcript" && rf.FileExtension == "VTT" {
			rec.TranscriptURL = rf.DownloadURL
			continue
		}
		if !mediaRecordingTypes[rf.RecordingType] {
			continue
		}

		ext := strings.ToLower(rf.FileExtension)
		if ext == "" {
			ext = "mp4"
		}
		contentType := mediaContentTypes[strings.ToUpper(rf.FileExtension)]
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		rec.Media = append(rec.Media, platform.MediaArtifact{
			Kind:        rf.RecordingType,
			URL:         rf.DownloadURL,
			Extension:   ext,
			ContentType: contentType,
			SizeBytes:   rf.FileSize,
		})
	}

	return rec, nil
}

// do sends an authenticated request against the API base URL.
func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	return c.doWith(ctx, c.http, method, path)
}

// doWith sends a request with the given HTTP client, retrying 429 responses
// with exponential backoff up to the attempt budget. Any other non-2xx
// status fails immediately. The oauth2 transport attaches the bearer token.
func (c *Client) doWith(ctx context.Context, client *http.Client, method, path string) ([]byte, error) {
	endpoint := path
	if strings.HasPrefix(path, "/") {
		endpoint = c.baseURL + path
	}

	var result []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("zoom returned status 429: %w", platform.ErrRateLimited)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(&platform.APIError{StatusCode: resp.StatusCode, Body: summarize(body)})
		}

		result = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxInterval = c.retryMax
	bo.MaxElapsedTime = 0

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, retryAttempts-1), ctx)); err != nil {
		return nil, err
	}

	return result, nil
}

func summarize(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
