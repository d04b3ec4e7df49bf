package composition

import (
	"bufio"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Map is the olfactory knowledge base: upper-cased perfume name to its
// descriptive markdown text.
type Map map[string]string

// Describe looks a perfume up, case-normalised.
func (m Map) Describe(name string) (string, bool) {
	text, ok := m[strings.ToUpper(name)]
	return text, ok
}

// Load reads the composition knowledge base, a text file of sections shaped
// like:
//
//	### PERFUME NAME
//	Famille olfactive : ...
//	Notes de tête : ...
//
// A missing file yields an empty map; the detail pages simply show no
// composition.
func Load(path string, logger zerolog.Logger) Map {
	logger = logger.With().Str("component", "composition").Logger()

	file, err := os.Open(path)
	if err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("composition file unavailable, starting empty")
		return Map{}
	}
	defer file.Close()

	compositions := Map{}
	currentName := ""
	var buffer []string

	flush := func() {
		if currentName != "" {
			compositions[strings.ToUpper(currentName)] = strings.TrimSpace(strings.Join(buffer, "\n"))
		}
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "### ") {
			flush()
			currentName = strings.TrimSpace(line[4:])
			buffer = buffer[:0]
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("error reading composition file")
	}

	logger.Info().
		Str("file", path).
		Int("entries", len(compositions)).
		Msg("composition knowledge base loaded")

	return compositions
}
