package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// shareIDPattern matches identifiers this store generates. Lookups reject
// anything else so an identifier can never escape the data directory.
var shareIDPattern = regexp.MustCompile(`^analysis-\d+-[a-z0-9]+$`)

const shareIDSuffixLen = 7

// ResultStore holds the single most recent analysis result in memory and
// persists shared copies to the data directory, one JSON file per share,
// keyed by a generated identifier. Shared records are never expired or
// garbage-collected by this system.
type ResultStore struct {
	dataDir string
	logger  *errors.Logger

	mu      sync.RWMutex
	current *types.AnalysisResult
}

// NewResultStore creates a result store rooted at dataDir, creating the
// directory if needed.
func NewResultStore(dataDir string, logger *errors.Logger) (*ResultStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not prepare the local storage directory", err)
	}
	return &ResultStore{
		dataDir: dataDir,
		logger:  logger,
	}, nil
}

// SetCurrent replaces the in-memory result wholesale. The previous snapshot
// is discarded; results are never mutated in place.
func (s *ResultStore) SetCurrent(result *types.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = result
}

// Current returns the most recent analysis result, or nil if none is loaded.
func (s *ResultStore) Current() *types.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// PersistForSharing writes a copy of the result under a freshly generated
// identifier and returns that identifier. A storage failure leaves the
// in-memory state untouched.
func (s *ResultStore) PersistForSharing(result *types.AnalysisResult) (string, error) {
	if result == nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"There is no analysis result to share yet", nil)
	}

	id, err := generateShareID()
	if err != nil {
		return "", errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not generate a share identifier", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not serialize the analysis result", err)
	}

	path := filepath.Join(s.dataDir, id+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not save the shared analysis", err)
	}

	s.logger.Info("Analysis result persisted for sharing",
		"analysis_id", id,
		"bytes", len(data))

	return id, nil
}

// LoadByID retrieves a previously shared result. A missing record and a
// corrupt record report as distinct errors so the view can show "not found"
// versus "load error".
func (s *ResultStore) LoadByID(id string) (*types.AnalysisResult, error) {
	if !shareIDPattern.MatchString(id) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"The shared analysis link is not valid", nil).WithContext("analysis_id", id)
	}

	path := filepath.Join(s.dataDir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewStorageError(errors.ErrCodeResultNotFound,
				"No shared analysis exists for this link", err).WithContext("analysis_id", id)
		}
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not read the shared analysis", err).WithContext("analysis_id", id)
	}

	result, err := types.DecodeAnalysisResult(data)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeResultCorrupt,
			"The shared analysis could not be loaded", err).WithContext("analysis_id", id)
	}

	return result, nil
}

// generateShareID produces an identifier combining the current timestamp in
// milliseconds with a short random base36 suffix.
func generateShareID() (string, error) {
	suffix := make([]byte, shareIDSuffixLen)
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	alphabetLen := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return fmt.Sprintf("analysis-%d-%s", time.Now().UnixMilli(), suffix), nil
}
