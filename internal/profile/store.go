// Package profile implements the persistent Profile store: one JSON file
// per player under a configured data directory, grounded on the original
// flat-file profile_manager layout (players/, avatars/).
package profile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

var ErrNotFound = errors.New("profile: not found")

// Store is a flat-file JSON profile store. Writes are serialized per
// process by mu; the filesystem itself is the source of truth across
// restarts.
type Store struct {
	mu             sync.Mutex
	playersDir     string
	avatarsDir     string
	maxAvatarBytes int
}

// NewStore ensures the players/ and avatars/ subdirectories of dataDir
// exist and returns a Store rooted there, rejecting avatar uploads over
// maxAvatarBytes.
func NewStore(dataDir string, maxAvatarBytes int) (*Store, error) {
	playersDir := filepath.Join(dataDir, "players")
	avatarsDir := filepath.Join(dataDir, "avatars")
	if err := os.MkdirAll(playersDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(avatarsDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{playersDir: playersDir, avatarsDir: avatarsDir, maxAvatarBytes: maxAvatarBytes}, nil
}

// MaxAvatarBytes returns the configured avatar size ceiling, so callers
// bounding an upload stream read the same limit SaveAvatar enforces.
func (s *Store) MaxAvatarBytes() int {
	return s.maxAvatarBytes
}

func (s *Store) profilePath(id string) string {
	return filepath.Join(s.playersDir, id+".json")
}

// Read loads a profile by id. The literal id "test" always resolves to a
// fixed fixture profile, matching the original store's special case for
// manual client testing.
func (s *Store) Read(id string) (models.Profile, error) {
	if id == "test" {
		return models.Profile{ID: "test", Name: "Test User"}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.profilePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, err
	}
	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// Write persists a profile, overwriting any existing file.
func (s *Store) Write(p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(p)
}

func (s *Store) writeLocked(p models.Profile) error {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.profilePath(p.ID), raw, 0o644)
}

// Create mints a fresh profile id and persists an empty-stats profile.
func (s *Store) Create(name string) (models.Profile, error) {
	p := models.Profile{ID: uuid.NewString(), Name: name, Stats: models.ProfileStats{WinsByRole: map[models.Role]int{}}}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeLocked(p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// RecordResult updates a profile's ProfileStats after GAME_OVER: one game
// played, and — for the winning faction's members — one win, keyed by the
// role they held.
func (s *Store) RecordResult(id string, won bool, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.profilePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	p.Stats.GamesPlayed++
	if won {
		p.Stats.GamesWon++
		if p.Stats.WinsByRole == nil {
			p.Stats.WinsByRole = map[models.Role]int{}
		}
		p.Stats.WinsByRole[role]++
	}
	return s.writeLocked(p)
}

var ErrAvatarTooLarge = errors.New("profile: avatar exceeds maximum size")

// SaveAvatar writes raw image bytes under the avatars directory and
// returns the relative URL to store on the profile. Rejects anything over
// the store's configured maxAvatarBytes; the caller is expected to have
// already validated content type.
func (s *Store) SaveAvatar(id string, ext string, data []byte) (string, error) {
	if len(data) > s.maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filename := id + ext
	if err := os.WriteFile(filepath.Join(s.avatarsDir, filename), data, 0o644); err != nil {
		return "", err
	}
	return "/avatars/" + filename, nil
}
