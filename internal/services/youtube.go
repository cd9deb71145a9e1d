package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"github.com/redis/go-redis/v9"
)

var (
	videoIDRe    = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	playlistIDRe = regexp.MustCompile(`[?&]list=([^#&?]*)`)
	youtubeURLRe = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)
)

// IsYouTubeURL reports whether the URL belongs to YouTube at all.
// Non-YouTube URLs are rejected before any ID extraction runs.
func IsYouTubeURL(url string) bool {
	return youtubeURLRe.MatchString(url)
}

// ExtractYouTubeVideoID pulls the 11-char video id out of watch, embed,
// shortened and bare-path URL shapes.
func ExtractYouTubeVideoID(url string) (string, bool) {
	m := videoIDRe.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// ExtractYouTubePlaylistID pulls the list= parameter value.
func ExtractYouTubePlaylistID(url string) (string, bool) {
	m := playlistIDRe.FindStringSubmatch(url)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// VideoInfo is the metadata shape the course workflow consumes; one
// entry per module.
type VideoInfo struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Thumbnail       string `json:"thumbnail"`
	DurationSeconds int    `json:"duration_seconds"`
}

type PlaylistInfo struct {
	PlaylistID  string      `json:"playlist_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Thumbnail   string      `json:"thumbnail"`
	Videos      []VideoInfo `json:"videos"`
}

const metadataCacheTTL = 24 * time.Hour

// YouTubeService resolves video and playlist metadata plus transcripts,
// with a redis cache in front of the metadata lookups.
type YouTubeService struct {
	ytClient      *yt.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	cache         *redis.Client
}

func NewYouTubeService(cache *redis.Client) *YouTubeService {
	return &YouTubeService{
		ytClient:      &yt.Client{},
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		cache:         cache,
	}
}

func thumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

// GetVideoInfo fetches metadata for a single video, via cache when warm.
func (s *YouTubeService) GetVideoInfo(ctx context.Context, videoID string) (*VideoInfo, error) {
	cacheKey := "ytmeta:video:" + videoID
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		info := &VideoInfo{}
		if json.Unmarshal(cached, info) == nil {
			return info, nil
		}
	}

	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}

	info := &VideoInfo{
		VideoID:         videoID,
		Title:           video.Title,
		Description:     video.Description,
		Thumbnail:       thumbnailURL(videoID),
		DurationSeconds: int(video.Duration.Seconds()),
	}

	s.cacheSet(ctx, cacheKey, info)
	return info, nil
}

// GetPlaylistInfo fetches playlist metadata with its ordered entries.
// Per-entry durations come from the playlist listing and may be zero;
// callers backfill those separately.
func (s *YouTubeService) GetPlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	cacheKey := "ytmeta:playlist:" + playlistID
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		info := &PlaylistInfo{}
		if json.Unmarshal(cached, info) == nil {
			return info, nil
		}
	}

	playlist, err := s.ytClient.GetPlaylistContext(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist metadata: %w", err)
	}
	if len(playlist.Videos) == 0 {
		return nil, fmt.Errorf("playlist %s has no videos", playlistID)
	}

	info := &PlaylistInfo{
		PlaylistID:  playlistID,
		Title:       playlist.Title,
		Description: playlist.Description,
		Thumbnail:   thumbnailURL(playlist.Videos[0].ID),
	}
	if info.Title == "" {
		info.Title = "YouTube Playlist Course"
	}
	if info.Description == "" {
		info.Description = fmt.Sprintf("A course created from the YouTube playlist %q", info.Title)
	}

	for _, entry := range playlist.Videos {
		info.Videos = append(info.Videos, VideoInfo{
			VideoID:         entry.ID,
			Title:           entry.Title,
			Thumbnail:       thumbnailURL(entry.ID),
			DurationSeconds: int(entry.Duration.Seconds()),
		})
	}

	s.cacheSet(ctx, cacheKey, info)
	return info, nil
}

// GetTranscript fetches captions for a video, preferring English tracks
// and falling back to whatever language is available.
func (s *YouTubeService) GetTranscript(videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			return "", fmt.Errorf("no subtitles available for video %s: %w", videoID, err)
		}
	}

	if len(transcript.Entries) == 0 {
		return "", fmt.Errorf("subtitle track for video %s is empty", videoID)
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", fmt.Errorf("subtitle text for video %s resolved to empty content", videoID)
	}
	return cleaned, nil
}

func (s *YouTubeService) cacheGet(ctx context.Context, key string) []byte {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *YouTubeService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, metadataCacheTTL).Err(); err != nil {
		log.Printf("failed to cache %s: %v", key, err)
	}
}
