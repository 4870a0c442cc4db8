package credential

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// File names and permissions.
const (
	TokenFile = "token.enc"
	KeyFile   = "credential.key"
	SaltFile  = "credential.salt"

	dirPerm  fs.FileMode = 0o700
	filePerm fs.FileMode = 0o600

	saltLen = 16
)

// argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// FileStore seals the token with XChaCha20-Poly1305 and writes it under dir.
//
// The key is derived with argon2id from a passphrase and a per-store salt when
// WithPassphrase is given, otherwise a random key is kept next to the token in a
// file readable only by the owner.
type FileStore struct {
	mu         sync.Mutex
	dir        string
	passphrase string
	key        []byte
}

var _ Store = (*FileStore)(nil)

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithPassphrase derives the encryption key from passphrase. An empty value keeps the key file mode.
func WithPassphrase(passphrase string) FileOption {
	return func(s *FileStore) { s.passphrase = passphrase }
}

// NewFileStore creates dir if needed and loads or creates the encryption key material.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("credential: directory is required")
	}
	s := &FileStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("credential: create dir: %w", err)
	}

	var err error
	if s.passphrase != "" {
		var salt []byte
		salt, err = s.loadOrCreate(SaltFile, saltLen)
		if err == nil {
			s.key = argon2.IDKey([]byte(s.passphrase), salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
		}
	} else {
		s.key, err = s.loadOrCreate(KeyFile, chacha20poly1305.KeySize)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Save encrypts token and atomically replaces the stored file.
func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("credential: cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(token)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("credential: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(token), []byte(TokenFile))

	return s.writeAtomic(TokenFile, sealed)
}

// Get returns the stored token. A file that fails authentication yields ErrCorrupted.
func (s *FileStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(TokenFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("credential: read token: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", false, fmt.Errorf("credential: cipher: %w", err)
	}
	if len(data) < aead.NonceSize()+aead.Overhead() {
		return "", false, ErrCorrupted
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(TokenFile))
	if err != nil {
		return "", false, ErrCorrupted
	}
	return string(plain), true, nil
}

// Delete removes the stored token. Key material is kept.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(TokenFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credential: delete token: %w", err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// loadOrCreate reads a fixed-size secret file, creating it with random bytes when absent.
func (s *FileStore) loadOrCreate(name string, size int) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	switch {
	case err == nil:
		if len(data) != size {
			return nil, fmt.Errorf("credential: %s has unexpected length %d", name, len(data))
		}
		return data, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("credential: read %s: %w", name, err)
	}

	data = make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("credential: generate %s: %w", name, err)
	}
	if err := s.writeAtomic(name, data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeAtomic writes data to a temp file in dir and renames it over name.
func (s *FileStore) writeAtomic(name string, data []byte) (err error) {
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("credential: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("credential: chmod: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("credential: write: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("credential: sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("credential: close: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("credential: rename: %w", err)
	}
	return nil
}
