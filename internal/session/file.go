package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persiste la sesión en un archivo JSON dentro del directorio de
// configuración del usuario, para que sobreviva reinicios del cliente de
// consola. Un escritor, muchos lectores.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore crea un FileStore en la ruta dada. Si path es vacío usa
// <config-dir>/inventario-inei/session.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "inventario-inei", "session.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Get() (Session, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil || !s.Completa() {
		return Session{}, false
	}
	return s, true
}

func (f *FileStore) Set(s Session) error {
	if !s.Completa() {
		return ErrSesionParcial
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	// Escritura a archivo temporal + rename para no dejar un JSON a medias.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = os.Remove(f.path)
}
