package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "autocov.dev/pkg/autocov/internal/model"
	"gopkg.in/yaml.v3"
)

const sessionFilePrefix = "session-"

// ReportStore persists session reports.
type ReportStore interface {
	SaveSession(dir m.Path, session m.Session) (m.Path, error)
	LoadSessions(dir m.Path) ([]m.Session, error)
}

// YAMLReportStore stores one YAML document per session in a directory.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveSession writes session under dir and returns the written path.
func (s *YAMLReportStore) SaveSession(dir m.Path, session m.Session) (m.Path, error) {
	if err := os.MkdirAll(string(dir), dirPerm); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	name := sessionFileName(session)
	path := filepath.Join(string(dir), name)

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("write session %s: %w", path, err)
	}

	slog.Info("Saved session report", "path", path, "state", session.State)

	return m.Path(path), nil
}

// LoadSessions reads every session in dir, oldest first. A missing directory
// yields no sessions.
func (s *YAMLReportStore) LoadSessions(dir m.Path) ([]m.Session, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	sessions := make([]m.Session, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, sessionFilePrefix) || filepath.Ext(name) != ".yaml" {
			continue
		}

		path := filepath.Join(string(dir), name)

		// #nosec G304 - path is inside the configured reports directory
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read session %s: %w", path, err)
		}

		var session m.Session
		if err := yaml.Unmarshal(data, &session); err != nil {
			slog.Warn("Skipping unreadable session report", "path", path, "error", err)
			continue
		}

		sessions = append(sessions, session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})

	return sessions, nil
}

func sessionFileName(session m.Session) string {
	id := session.ID
	if len(id) > 8 {
		id = id[:8]
	}

	return fmt.Sprintf("%s%s-%s.yaml", sessionFilePrefix, session.StartedAt.UTC().Format("20060102-150405"), id)
}
