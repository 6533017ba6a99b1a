package cache

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/playshelf/gamesync/pkg/constants"
)

// Verdict is a human adjudication of a name mismatch.
type Verdict string

// Ledger verdicts. Unconfirmed entries are written by the pipeline; yes and
// no come from a human editing the file.
const (
	VerdictYes         Verdict = "yes"
	VerdictNo          Verdict = "no"
	VerdictUnconfirmed Verdict = "unconfirmed"
)

// Mismatch is one line of the name-mismatch ledger: the estimate source
// matched MatchedName for a game the catalog calls Name, and the two did
// not look similar enough to trust without review.
type Mismatch struct {
	AppID       int64
	Name        string
	MatchedName string
	Verdict     Verdict
}

// ledgerLine matches the hand-editable ledger format:
//
//	(620) Is Portal 2 really Portal II? [unconfirmed]
var ledgerLine = regexp.MustCompile(`^\((\d+)\) Is (.+) really (.+)\? \[(yes|no|unconfirmed)\]$`)

// String formats the entry in the ledger line format.
func (m Mismatch) String() string {
	return fmt.Sprintf("(%d) Is %s really %s? [%s]", m.AppID, m.Name, m.MatchedName, m.Verdict)
}

// Mismatches loads the ledger. Unparseable lines are skipped with a warning
// rather than discarded silently on the next save; the file is hand-edited
// and humans make typos.
func (s *Store) Mismatches() []Mismatch {
	path := filepath.Join(s.dir, mismatchesFile)

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", path).Msg("Ledger read failed, treating as empty")
		}
		return nil
	}
	defer f.Close()

	var entries []Mismatch
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		m := ledgerLine.FindStringSubmatch(line)
		if m == nil {
			s.log.Warn().Str("line", line).Msg("Skipping unparseable ledger line")
			continue
		}

		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			s.log.Warn().Str("line", line).Msg("Skipping ledger line with bad id")
			continue
		}

		entries = append(entries, Mismatch{
			AppID:       id,
			Name:        m[2],
			MatchedName: m[3],
			Verdict:     Verdict(m[4]),
		})
	}

	return entries
}

// SaveMismatches merges fresh entries into the ledger and rewrites it.
// Adjudicated entries (yes or no) always survive as the human wrote them;
// unconfirmed entries are replaced by fresh ones for the same id.
func (s *Store) SaveMismatches(fresh []Mismatch) {
	merged := make(map[int64]Mismatch)
	for _, m := range s.Mismatches() {
		merged[m.AppID] = m
	}
	for _, m := range fresh {
		if existing, ok := merged[m.AppID]; ok && existing.Verdict != VerdictUnconfirmed {
			continue
		}
		merged[m.AppID] = m
	}

	entries := make([]Mismatch, 0, len(merged))
	for _, m := range merged {
		entries = append(entries, m)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].AppID < entries[j].AppID })

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		s.log.Error().Err(err).Str("dir", s.dir).Msg("Cache directory creation failed, skipping ledger save")
		return
	}

	var b strings.Builder
	for _, m := range entries {
		b.WriteString(m.String())
		b.WriteByte('\n')
	}

	path := filepath.Join(s.dir, mismatchesFile)
	if err := os.WriteFile(path, []byte(b.String()), constants.FilePermissions); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Ledger write failed")
	}
}

// Adjudicated reports whether an app already has a yes or no verdict, in
// which case the pipeline should not re-flag it.
func (s *Store) Adjudicated(appID int64) bool {
	for _, m := range s.Mismatches() {
		if m.AppID == appID && m.Verdict != VerdictUnconfirmed {
			return true
		}
	}
	return false
}
