package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/internal/retry"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/progress"
)

// Recorder is the progress.Sink writing to a Store. Writes are retried with
// backoff; a write that exhausts its retries is appended to a journal and
// replayed on the next Replay.
type Recorder struct {
	store   *Store
	title   string
	policy  retry.Policy
	journal string
}

// NewRecorder creates a sink for a session titled title. journal is the path
// of the failed-writes log; empty disables journaling.
func NewRecorder(store *Store, title, journal string) *Recorder {
	return &Recorder{
		store:   store,
		title:   title,
		policy:  retry.Default(),
		journal: journal,
	}
}

// WithPolicy overrides the retry policy.
func (r *Recorder) WithPolicy(p retry.Policy) *Recorder {
	r.policy = p
	return r
}

// SaveProgress implements progress.Sink.
func (r *Recorder) SaveProgress(ctx context.Context, c progress.Checkpoint) error {
	entry := Entry{Checkpoint: c, Title: r.title}

	err := retry.Do(ctx, r.policy, func(context.Context) error {
		_, err := r.store.Save(entry)
		return err
	})
	if err == nil {
		return nil
	}

	if r.journal != "" {
		if jerr := appendJournal(r.journal, entry); jerr != nil {
			log.Errorf("journaling failed progress write: %v", jerr)
		}
	}
	return fmt.Errorf("save progress: %w", err)
}

func appendJournal(path string, entry Entry) error {
	f, err := filesystem.API().OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(entry)
}

// Replay stores every journaled entry and truncates the journal once all of
// them landed. It returns the number of entries replayed.
func Replay(store *Store, journal string) (int, error) {
	content, err := filesystem.API().ReadFile(journal)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(content) == 0 {
		return 0, nil
	}

	var entries []Entry
	decoder := json.NewDecoder(bytes.NewReader(content))
	for decoder.More() {
		var e Entry
		if err := decoder.Decode(&e); err != nil {
			log.Warnf("skipping corrupt journal line: %v", err)
			break
		}
		entries = append(entries, e)
	}

	var replayed int
	for _, e := range entries {
		if _, err := store.Save(e); err != nil {
			return replayed, fmt.Errorf("replay %s: %w", e.EpisodeID, err)
		}
		replayed++
	}

	return replayed, filesystem.API().WriteFile(journal, nil, 0o644)
}
