package remote

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

var nonWord = regexp.MustCompile(`\W`)

// Registry tracks how many sources of each engine type a run has configured.
// It is owned by the backup model; sources are registered while the model is
// built and filenames are resolved afterwards, in an explicit finalize pass,
// so the sibling counts always reflect the complete configuration.
type Registry struct {
	counts map[string]int
	logger zerolog.Logger
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewRegistry creates a naming registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return NewRegistryWithClock(logger, time.Now, time.Sleep)
}

// NewRegistryWithClock creates a naming registry with a custom clock and
// sleep function (for testing).
func NewRegistryWithClock(logger zerolog.Logger, now func() time.Time, sleep func(time.Duration)) *Registry {
	return &Registry{
		counts: make(map[string]int),
		logger: logger,
		now:    now,
		sleep:  sleep,
	}
}

// Register records one configured source of the given engine type.
func (r *Registry) Register(engine string) {
	r.counts[engine]++
}

// Siblings returns how many sources of the given engine type are registered.
func (r *Registry) Siblings(engine string) int {
	return r.counts[engine]
}

// Filename resolves the dump filename for a source. An explicit database id
// is sanitized and used verbatim; a lone source of its engine type needs no
// suffix. Multiple siblings without ids are a configuration defect: an id is
// generated from the clock after a one-second delay, which lowers (but does
// not eliminate) the chance of two defects in the same run colliding.
func (r *Registry) Filename(engine, databaseID string) string {
	if databaseID != "" {
		return engine + "-" + sanitizeID(databaseID)
	}

	if r.counts[engine] <= 1 {
		return engine
	}

	r.sleep(time.Second)
	generated := fmt.Sprintf("%05d", r.now().Unix()%100000)

	r.logger.Warn().
		Str("engine", engine).
		Str("generated_id", generated).
		Int("siblings", r.counts[engine]).
		Msg("multiple sources of the same engine type have no database_id; generated one")

	return engine + "-" + generated
}

// sanitizeID replaces every non-word character with an underscore.
func sanitizeID(id string) string {
	return nonWord.ReplaceAllString(id, "_")
}
