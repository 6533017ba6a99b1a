// Package cache implements the on-disk cache for the gamesync pipeline:
// enriched records, per-account owned lists, the denylist of permanently
// unavailable apps, and the human-edited name-mismatch ledger.
//
// Load methods never fail: a missing, empty, or unreadable file is an empty
// collection. Save methods never propagate errors either - a cache-write
// failure must not abort a run whose in-memory result set is still usable -
// so they log and return. The cache assumes a single writer; concurrent
// runs against the same directory are undefined behavior.
package cache

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/playshelf/gamesync/pkg/constants"
	"github.com/playshelf/gamesync/pkg/library"
	"github.com/playshelf/gamesync/pkg/logging"
)

const (
	recordsFile    = "records.json"
	denylistFile   = "denylist.json"
	mismatchesFile = "mismatches.txt"
)

// Store is a cache rooted at a directory.
type Store struct {
	dir string
	log *zerolog.Logger
}

// New creates a store rooted at dir. The directory is created lazily on
// first save.
func New(dir string, logger *zerolog.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{dir: dir, log: logger}
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

// Records loads all cached enriched records. Missing or unreadable storage
// yields an empty slice.
func (s *Store) Records() []library.Record {
	var records []library.Record
	s.read(recordsFile, &records)
	return records
}

// SaveRecords persists fresh records merged over whatever is already on
// disk: fresh values win for shared ids, ids present only on disk survive
// unchanged. The per-run ownership overlay is stripped and the file is
// written sorted by app id for reproducible diffs.
func (s *Store) SaveRecords(fresh []library.Record) {
	merged := make(map[int64]library.Record)
	for _, r := range s.Records() {
		merged[r.AppID] = r
	}
	for _, r := range fresh {
		merged[r.AppID] = r.Stripped()
	}

	out := make([]library.Record, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	library.Sort(out)

	s.write(recordsFile, out)
}

// Denylist loads the set of permanently unavailable app ids.
func (s *Store) Denylist() map[int64]bool {
	var ids []int64
	s.read(denylistFile, &ids)

	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// SaveDenylist persists the union of the given set and the set already on
// disk. Denylist entries are never removed automatically; retrying an id
// requires editing the file by hand.
func (s *Store) SaveDenylist(fresh map[int64]bool) {
	union := s.Denylist()
	for id := range fresh {
		union[id] = true
	}

	ids := make([]int64, 0, len(union))
	for id := range union {
		ids = append(ids, id)
	}
	sortInt64s(ids)

	s.write(denylistFile, ids)
}

// Owned loads the cached owned-games list for an account.
func (s *Store) Owned(accountID string) []library.OwnedGame {
	var owned []library.OwnedGame
	s.read(ownedFile(accountID), &owned)
	return owned
}

// SaveOwned persists an account's owned list. Owned lists are produced
// fresh every run, so this is a plain overwrite rather than a merge.
func (s *Store) SaveOwned(accountID string, owned []library.OwnedGame) {
	sorted := make([]library.OwnedGame, len(owned))
	copy(sorted, owned)
	library.SortOwned(sorted)

	s.write(ownedFile(accountID), sorted)
}

func ownedFile(accountID string) string {
	return "owned_" + accountID + ".json"
}

// Prune removes the refetchable cache files: records and per-account owned
// lists. The denylist and the mismatch ledger carry human decisions and
// are kept; remove those files by hand.
func (s *Store) Prune() error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "owned_*.json"))
	if err != nil {
		return err
	}
	paths = append(paths, filepath.Join(s.dir, recordsFile))

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// read unmarshals the named file into v, treating every failure as an
// empty collection.
func (s *Store) read(name string, v any) {
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", path).Msg("Cache read failed, treating as empty")
		}
		return
	}
	if len(data) == 0 {
		return
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Cache file is corrupt, treating as empty")
	}
}

// write marshals v to the named file. Failures are logged and swallowed.
func (s *Store) write(name string, v any) {
	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		s.log.Error().Err(err).Str("dir", s.dir).Msg("Cache directory creation failed, skipping save")
		return
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Str("file", name).Msg("Cache marshal failed, skipping save")
		return
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Cache write failed, result set is unaffected")
	}
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
