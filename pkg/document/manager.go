package document

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// normalizeURI ensures consistent URI handling by removing the file:// prefix if present
// and converting to a clean path
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return filepath.Clean(uri)
}

// Manager keeps one Buffer per open document.
type Manager struct {
	fs    afero.Fs
	store *sync.Map // map[string]*Buffer
}

func NewManager(fs afero.Fs) *Manager {
	return &Manager{
		fs:    fs,
		store: &sync.Map{},
	}
}

// Open returns the buffer for uri, reading it from the filesystem the first
// time it is asked for.
func (m *Manager) Open(uri string) (*Buffer, error) {
	key := normalizeURI(uri)
	if doc, ok := m.Get(key); ok {
		return doc, nil
	}

	content, err := afero.ReadFile(m.fs, key)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", key, err)
	}

	doc := NewBuffer(string(content))
	doc.URI = key
	actual, _ := m.store.LoadOrStore(key, doc)
	return actual.(*Buffer), nil
}

func (m *Manager) Get(uri string) (*Buffer, bool) {
	content, ok := m.store.Load(normalizeURI(uri))
	if !ok {
		return nil, false
	}
	doc, ok := content.(*Buffer)
	return doc, ok
}

func (m *Manager) Store(uri string, doc *Buffer) {
	key := normalizeURI(uri)
	doc.URI = key
	m.store.Store(key, doc)
}

func (m *Manager) Delete(uri string) {
	m.store.Delete(normalizeURI(uri))
}
