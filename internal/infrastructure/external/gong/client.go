package gong

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/cirrusops/conversation-miner/internal/infrastructure/cache"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/platform"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

const (
	// 429 responses are retried with exponential backoff; everything else
	// fails on the first attempt.
	retryAttempts = 6

	directoryCacheKey = "gong:user_directory"
)

// Client is a Gong REST API client. Authentication is Basic with
// access_key:access_key_secret. The user directory is fetched once and kept
// in the shared cache so repeated listings resolve hosts without refetching.
type Client struct {
	baseURL      string
	basicToken   string
	http         *http.Client
	download     *http.Client
	directory    cache.Store
	directoryTTL time.Duration

	retryInitial time.Duration
	retryMax     time.Duration
}

// NewClient creates a Gong client using values from the provided config
func NewClient(cfg *config.GongConfig, directory cache.Store, directoryTTL time.Duration) *Client {
	if directory == nil {
		directory = cache.NewMemoryStore()
	}

	credentials := cfg.AccessKey + ":" + cfg.Secret

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		basicToken:   base64.StdEncoding.EncodeToString([]byte(credentials)),
		http:         &http.Client{Timeout: 30 * time.Second},
		download:     &http.Client{Timeout: 10 * time.Minute},
		directory:    directory,
		directoryTTL: directoryTTL,
		retryInitial: 2 * time.Second,
		retryMax:     60 * time.Second,
	}
}

type pageRecords struct {
	Cursor string `json:"cursor"`
}

type callsResponse struct {
	Calls   []json.RawMessage `json:"calls"`
	Records pageRecords       `json:"records"`
}

type callMeta struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Started       string `json:"started"`
	Duration      int    `json:"duration"`
	PrimaryUserID string `json:"primaryUserId"`
}

type gongCall struct {
	ID       string   `json:"id"`
	MetaData callMeta `json:"metaData"`
}

type usersResponse struct {
	Users []struct {
		ID           string `json:"id"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		EmailAddress string `json:"emailAddress"`
	} `json:"users"`
	Records pageRecords `json:"records"`
}

type extensiveResponse struct {
	Calls []struct {
		Parties []gongParty `json:"parties"`
	} `json:"calls"`
}

type gongParty struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
	Affiliation  string `json:"affiliation"`
	Title        string `json:"title"`
}

type transcriptResponse struct {
	CallTranscripts []json.RawMessage `json:"callTranscripts"`
}

type mediaResponse struct {
	AudioURL string `json:"audioUrl"`
	VideoURL string `json:"videoUrl"`
}

// ListRecordings fetches a page of calls via POST /v2/calls
func (c *Client) ListRecordings(ctx context.Context, from time.Time, to time.Time, pageToken string) (*platform.Page, error) {
	users, err := c.userDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gong user directory: %w", err)
	}

	filter := map[string]interface{}{}
	if !from.IsZero() {
		filter["fromDateTime"] = from.UTC().Format(time.RFC3339)
	}
	if !to.IsZero() {
		filter["toDateTime"] = to.UTC().Format(time.RFC3339)
	}
	body := map[string]interface{}{"filter": filter}
	if pageToken != "" {
		body["cursor"] = pageToken
	}

	data, err := c.do(ctx, http.MethodPost, "/v2/calls", body)
	if err != nil {
		return nil, fmt.Errorf("failed to list gong calls: %w", err)
	}

	var resp callsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode gong calls response: %w", err)
	}

	page := &platform.Page{NextToken: resp.Records.Cursor}
	for _, raw := range resp.Calls {
		rec, err := mapCall(raw, users)
		if err != nil {
			return nil, err
		}
		page.Recordings = append(page.Recordings, rec)
	}

	return page, nil
}

// GetParticipants fetches a call's parties via POST /v2/calls/extensive.
// The plain listing does not expose parties, so they are requested per call.
func (c *Client) GetParticipants(ctx context.Context, rec *platform.Recording) ([]platform.Participant, error) {
	body := map[string]interface{}{
		"filter": map[string]interface{}{"callIds": []string{rec.ExternalID}},
		"contentSelector": map[string]interface{}{
			"exposedFields": map[string]interface{}{"parties": true},
		},
	}

	data, err := c.do(ctx, http.MethodPost, "/v2/calls/extensive", body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gong parties for call %s: %w", rec.ExternalID, err)
	}

	var resp extensiveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode gong parties response: %w", err)
	}
	if len(resp.Calls) == 0 {
		return nil, nil
	}

	users, err := c.userDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gong user directory: %w", err)
	}

	participants := make([]platform.Participant, 0, len(resp.Calls[0].Parties))
	for _, party := range resp.Calls[0].Parties {
		name := party.Name
		if name == "" {
			if user, ok := users[party.UserID]; ok {
				name = user.Name
			}
		}
		if name == "" {
			name = party.EmailAddress
		}

		participants = append(participants, platform.Participant{
			Name:       name,
			Email:      party.EmailAddress,
			Role:       party.Affiliation,
			IsCustomer: party.Affiliation == "External",
			SpeakerID:  party.UserID,
		})
	}

	return participants, nil
}

// GetTranscript fetches a call transcript via POST /v2/calls/transcript.
// Returns nil when the API has no transcript for the call.
func (c *Client) GetTranscript(ctx context.Context, rec *platform.Recording) (*platform.TranscriptPayload, error) {
	body := map[string]interface{}{
		"filter": map[string]interface{}{"callIds": []string{rec.ExternalID}},
	}

	data, err := c.do(ctx, http.MethodPost, "/v2/calls/transcript", body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gong transcript for call %s: %w", rec.ExternalID, err)
	}

	var resp transcriptResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode gong transcript response: %w", err)
	}
	if len(resp.CallTranscripts) == 0 {
		return nil, nil
	}

	return &platform.TranscriptPayload{
		Format: platform.TranscriptFormatGong,
		Raw:    string(resp.CallTranscripts[0]),
	}, nil
}

// ListMedia fetches media URLs via GET /v2/calls/{id}/media. Calls without
// media return 404, which maps to an empty artifact list.
func (c *Client) ListMedia(ctx context.Context, rec *platform.Recording) ([]platform.MediaArtifact, error) {
	data, err := c.do(ctx, http.MethodGet, "/v2/calls/"+url.PathEscape(rec.ExternalID)+"/media", nil)
	if err != nil {
		if platform.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch gong media for call %s: %w", rec.ExternalID, err)
	}

	var resp mediaResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode gong media response: %w", err)
	}

	var artifacts []platform.MediaArtifact
	if resp.AudioURL != "" {
		artifacts = append(artifacts, platform.MediaArtifact{
			Kind:        "audio",
			URL:         resp.AudioURL,
			Extension:   "mp3",
			ContentType: "audio/mpeg",
		})
	}
	if resp.VideoURL != "" {
		artifacts = append(artifacts, platform.MediaArtifact{
			Kind:        "video",
			URL:         resp.VideoURL,
			Extension:   "mp4",
			ContentType: "video/mp4",
		})
	}

	return artifacts, nil
}

// DownloadMedia fetches an artifact's bytes
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	data, err := c.doWith(ctx, c.download, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download gong media: %w", err)
	}
	return data, nil
}

// userDirectory returns all Gong users keyed by id, paginating
// GET /v2/users and caching the result
func (c *Client) userDirectory(ctx context.Context) (map[string]platform.DirectoryUser, error) {
	if cached, ok := c.directory.Get(directoryCacheKey); ok {
		var users map[string]platform.DirectoryUser
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
	}

	users := make(map[string]platform.DirectoryUser)
	cursor := ""
	for {
		path := "/v2/users"
		if cursor != "" {
			path += "?cursor=" + url.QueryEscape(cursor)
		}

		data, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var resp usersResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode gong users response: %w", err)
		}

		for _, u := range resp.Users {
			users[u.ID] = platform.DirectoryUser{
				ID:    u.ID,
				Name:  strings.TrimSpace(u.FirstName + " " + u.LastName),
				Email: u.EmailAddress,
			}
		}

		cursor = resp.Records.Cursor
		if cursor == "" {
			break
		}
	}

	if encoded, err := json.Marshal(users); err == nil {
		c.directory.Set(directoryCacheKey, string(encoded), c.directoryTTL)
	}

	return users, nil
}

// mapCall transforms a raw call object into a canonical recording. The raw
// payload is kept verbatim for the meeting's audit blob.
func mapCall(raw json.RawMessage, users map[string]platform.DirectoryUser) (platform.Recording, error) {
	var call gongCall
	if err := json.Unmarshal(raw, &call); err != nil {
		return platform.Recording{}, fmt.Errorf("failed to decode gong call: %w", err)
	}

	var rawMeta map[string]interface{}
	if err := json.Unmarshal(raw, &rawMeta); err != nil {
		return platform.Recording{}, fmt.Errorf("failed to decode gong call metadata: %w", err)
	}

	externalID := call.ID
	if externalID == "" {
		externalID = call.MetaData.ID
	}

	rec := platform.Recording{
		ExternalID:      externalID,
		Title:           call.MetaData.Title,
		DurationSeconds: call.MetaData.Duration,
		Raw:             rawMeta,
	}

	if started, err := time.Parse(time.RFC3339, call.MetaData.Started); err == nil {
		rec.StartedAt = &started
		if call.MetaData.Duration > 0 {
			ended := started.Add(time.Duration(call.MetaData.Duration) * time.Second)
			rec.EndedAt = &ended
		}
	}

	if host, ok := users[call.MetaData.PrimaryUserID]; ok {
		rec.HostName = host.Name
		rec.HostEmail = host.Email
	}

	return rec, nil
}

// do sends an authenticated request against the API base URL.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	return c.doWith(ctx, c.http, method, path, payload)
}

// doWith sends a request with the given HTTP client, retrying 429 responses
// with exponential backoff up to the attempt budget. Any other non-2xx
// status fails immediately.
func (c *Client) doWith(ctx context.Context, client *http.Client, method, path string, payload interface{}) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = encoded
	}

	endpoint := path
	if strings.HasPrefix(path, "/") {
		endpoint = c.baseURL + path
	}

	var result []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Basic "+c.basicToken)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
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
			return fmt.Errorf("gong returned status 429: %w", platform.ErrRateLimited)
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
