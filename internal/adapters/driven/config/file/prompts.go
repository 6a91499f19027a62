package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts seed the prompt directory and back any file that is
// missing or unreadable.
var builtinPrompts = map[string]string{
	driven.PromptAnswer: domain.DefaultAnswerPrompt,
}

const promptReadme = `# askontube prompts

answer.txt is the template used to answer questions. It must contain two %s
verbs: the first receives the transcripts, each labelled with the video
title and URL, the second receives the question. A template with any other
number of %s verbs is ignored in favour of the built-in one.

Edits are picked up on the next question.
`

// PromptStore serves templates from <dir>/<name>.txt. A cached template is
// reused until the file's modification time changes, so edits apply
// without restarting the server.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

type cachedPrompt struct {
	modTime time.Time
	text    string
}

// NewPromptStore returns a store rooted at dir, or ~/.askontube/prompts when
// dir is empty. Nothing touches the disk until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".askontube", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]cachedPrompt)}, nil
}

// Load returns the named template.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	text, err := s.read(name)
	if err == nil {
		return text, nil
	}
	if builtin, ok := builtinPrompts[name]; ok {
		return builtin, nil
	}
	if s.seedErr != nil {
		return "", fmt.Errorf("load prompt %q: %w (seeding: %v)", name, err, s.seedErr)
	}
	return "", fmt.Errorf("load prompt %q: %w", name, err)
}

func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	cached, ok := s.cache[name]
	s.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))

	s.mu.Lock()
	s.cache[name] = cachedPrompt{modTime: info.ModTime(), text: text}
	s.mu.Unlock()
	return text, nil
}

// Reload drops every cached template.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the directory and writes any built-in template or README
// that is not already there. Existing files are never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = err
		return
	}

	files := map[string]string{filepath.Join(s.dir, "README.md"): promptReadme}
	for name, text := range builtinPrompts {
		files[s.path(name)] = text
	}
	for path, content := range files {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.seedErr = err
			return
		}
	}
}
